package wallet

import (
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
)

const privateKeyEnv = "PRIVATE_KEY"

// Load resolves the signing wallet. A non-empty keyFile wins; otherwise the
// base58-encoded private key is read from the PRIVATE_KEY environment
// variable, which godotenv has already populated from .env when present.
func Load(keyFile string) (*solana.Wallet, error) {
	if keyFile != "" {
		key, err := solana.PrivateKeyFromSolanaKeygenFile(keyFile)
		if err != nil {
			return nil, fmt.Errorf("load keypair %q: %w", keyFile, err)
		}
		return &solana.Wallet{PrivateKey: key}, nil
	}

	encoded := os.Getenv(privateKeyEnv)
	if encoded == "" {
		return nil, fmt.Errorf("no key file given and %s is not set", privateKeyEnv)
	}
	wallet, err := solana.WalletFromPrivateKeyBase58(encoded)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", privateKeyEnv, err)
	}
	return wallet, nil
}
