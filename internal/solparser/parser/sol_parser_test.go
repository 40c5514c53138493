package parser

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"testing"

	"raydium-bot/internal/solparser/consts"
	"raydium-bot/internal/solparser/parser/coder"
	"raydium-bot/internal/solparser/types"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
)

const systemProgramID = "11111111111111111111111111111111"

// testSignature returns a deterministic valid signature for fixtures.
func testSignature(seed byte) string {
	var raw [64]byte
	for i := range raw {
		raw[i] = seed
	}
	return solana.SignatureFromBytes(raw[:]).String()
}

// parsedTxFixture assembles a transaction the way the RPC node returns it,
// going through JSON so the fixtures stay in the jsonParsed wire shape.
func parsedTxFixture(t *testing.T, sig string, accountKeys []string, instructions []map[string]interface{}, meta map[string]interface{}) *rpc.GetParsedTransactionResult {
	t.Helper()
	keys := make([]map[string]interface{}, len(accountKeys))
	for i, k := range accountKeys {
		keys[i] = map[string]interface{}{"pubkey": k, "signer": i == 0, "writable": true}
	}
	payload := map[string]interface{}{
		"slot": 354689000,
		"transaction": map[string]interface{}{
			"signatures": []string{sig},
			"message": map[string]interface{}{
				"accountKeys":  keys,
				"instructions": instructions,
			},
		},
	}
	if meta != nil {
		payload["meta"] = meta
	}
	blob, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshaling fixture: %v", err)
	}
	tx := &rpc.GetParsedTransactionResult{}
	if err := json.Unmarshal(blob, tx); err != nil {
		t.Fatalf("unmarshaling fixture: %v", err)
	}
	return tx
}

func transferInstruction(source, destination, amount, authority string) map[string]interface{} {
	return map[string]interface{}{
		"program":   "spl-token",
		"programId": consts.TOKEN_PROGRAM_ID,
		"parsed": map[string]interface{}{
			"type": "transfer",
			"info": map[string]interface{}{
				"amount":      amount,
				"authority":   authority,
				"destination": destination,
				"source":      source,
			},
		},
	}
}

func transferCheckedInstruction(source, destination, mint, amount, authority string) map[string]interface{} {
	return map[string]interface{}{
		"program":   "spl-token",
		"programId": consts.TOKEN_PROGRAM_ID,
		"parsed": map[string]interface{}{
			"type": "transferChecked",
			"info": map[string]interface{}{
				"tokenAmount": map[string]interface{}{
					"amount":   amount,
					"decimals": 9,
				},
				"authority":   authority,
				"destination": destination,
				"mint":        mint,
				"source":      source,
			},
		},
	}
}

// lamportsTransferInstruction is a system transfer: same "transfer" type but
// lamports instead of a token amount.
func lamportsTransferInstruction(source, destination string, lamports uint64) map[string]interface{} {
	return map[string]interface{}{
		"program":   "system",
		"programId": systemProgramID,
		"parsed": map[string]interface{}{
			"type": "transfer",
			"info": map[string]interface{}{
				"destination": destination,
				"lamports":    lamports,
				"source":      source,
			},
		},
	}
}

// initData encodes an initialize2 payload: tag byte, then the borsh fields.
func initData(nonce uint8, openTime, pcAmount, coinAmount uint64) string {
	raw := []byte{coder.Initialize2Tag, nonce}
	raw = binary.LittleEndian.AppendUint64(raw, openTime)
	raw = binary.LittleEndian.AppendUint64(raw, pcAmount)
	raw = binary.LittleEndian.AppendUint64(raw, coinAmount)
	return base58.Encode(raw)
}

// poolFixture carries the generated addresses threaded through a pool
// creation transaction.
type poolFixture struct {
	signature string
	payer     string
	amm       string
	coinMint  string
	pcMint    string
	coinVault string
	pcVault   string
}

func newPoolFixture() poolFixture {
	return poolFixture{
		signature: testSignature(1),
		payer:     solana.NewWallet().PublicKey().String(),
		amm:       solana.NewWallet().PublicKey().String(),
		coinMint:  solana.NewWallet().PublicKey().String(),
		pcMint:    solana.NewWallet().PublicKey().String(),
		coinVault: solana.NewWallet().PublicKey().String(),
		pcVault:   solana.NewWallet().PublicKey().String(),
	}
}

// initAccounts lays out the 21 accounts of a real initialize2 call, with
// fillers on the positions the parser does not read.
func (f poolFixture) initAccounts() []string {
	accounts := make([]string, 21)
	for i := range accounts {
		accounts[i] = solana.NewWallet().PublicKey().String()
	}
	accounts[0] = consts.TOKEN_PROGRAM_ID
	accounts[4] = f.amm
	accounts[8] = f.coinMint
	accounts[9] = f.pcMint
	accounts[10] = f.coinVault
	accounts[11] = f.pcVault
	accounts[17] = f.payer
	return accounts
}

func (f poolFixture) instruction() map[string]interface{} {
	return map[string]interface{}{
		"programId": consts.RAYDIUM_V4_PROGRAM_ID,
		"accounts":  f.initAccounts(),
		"data":      initData(254, 1756100000, 5000000000000, 1000000000000),
	}
}

func (f poolFixture) balancesMeta() map[string]interface{} {
	return map[string]interface{}{
		"postTokenBalances": []map[string]interface{}{
			{"accountIndex": 10, "mint": f.coinMint, "uiTokenAmount": map[string]interface{}{"amount": "1000000000000", "decimals": 9}},
			{"accountIndex": 11, "mint": f.pcMint, "uiTokenAmount": map[string]interface{}{"amount": "5000000000000", "decimals": 6}},
		},
	}
}

func TestParsePoolCreatedEvents(t *testing.T) {
	f := newPoolFixture()
	tx := parsedTxFixture(t, f.signature, []string{f.payer, f.amm}, []map[string]interface{}{f.instruction()}, f.balancesMeta())

	events, err := NewSolParser(nil).ParsePoolCreatedEvents(context.Background(), tx)
	assert.NoError(t, err)
	if !assert.Len(t, events, 1) {
		return
	}

	ev := events[0]
	assert.Equal(t, f.signature, ev.Signature)
	assert.Equal(t, f.amm, ev.AmmAddress)
	assert.Equal(t, f.coinMint, ev.TokenA.Mint)
	assert.Equal(t, f.coinVault, ev.TokenA.Vault)
	assert.Equal(t, "1000000000000", ev.TokenA.Balance)
	assert.Equal(t, f.pcMint, ev.TokenB.Mint)
	assert.Equal(t, f.pcVault, ev.TokenB.Vault)
	assert.Equal(t, "5000000000000", ev.TokenB.Balance)
	assert.Equal(t, uint8(254), ev.Nonce)
	assert.Equal(t, uint64(1756100000), ev.OpenTime)
	assert.Equal(t, uint64(5000000000000), ev.InitPcAmount)
	assert.Equal(t, uint64(1000000000000), ev.InitCoinAmount)
}

func TestParsePoolCreatedEventsMissingBalanceLeftUnknown(t *testing.T) {
	f := newPoolFixture()
	meta := map[string]interface{}{
		"postTokenBalances": []map[string]interface{}{
			{"accountIndex": 10, "mint": f.coinMint, "uiTokenAmount": map[string]interface{}{"amount": "1000000000000", "decimals": 9}},
		},
	}
	tx := parsedTxFixture(t, f.signature, []string{f.payer}, []map[string]interface{}{f.instruction()}, meta)

	events, err := NewSolParser(nil).ParsePoolCreatedEvents(context.Background(), tx)
	assert.NoError(t, err)
	if !assert.Len(t, events, 1) {
		return
	}
	assert.Equal(t, "1000000000000", events[0].TokenA.Balance)
	assert.Equal(t, types.UnknownBalance, events[0].TokenB.Balance)
}

// Parsing is read-only: running it twice over the same transaction yields
// the same events.
func TestParsePoolCreatedEventsRepeatable(t *testing.T) {
	f := newPoolFixture()
	tx := parsedTxFixture(t, f.signature, []string{f.payer}, []map[string]interface{}{f.instruction()}, f.balancesMeta())
	p := NewSolParser(nil)

	first, err := p.ParsePoolCreatedEvents(context.Background(), tx)
	assert.NoError(t, err)
	second, err := p.ParsePoolCreatedEvents(context.Background(), tx)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParsePoolCreatedEventsIgnoresOtherPrograms(t *testing.T) {
	payer := solana.NewWallet().PublicKey().String()
	ix := transferInstruction(
		solana.NewWallet().PublicKey().String(),
		solana.NewWallet().PublicKey().String(),
		"42", payer,
	)
	tx := parsedTxFixture(t, testSignature(2), []string{payer}, []map[string]interface{}{ix}, nil)

	events, err := NewSolParser(nil).ParsePoolCreatedEvents(context.Background(), tx)
	assert.NoError(t, err)
	assert.Empty(t, events)
}

// An instruction too short to carry the pool accounts is skipped, not fatal.
func TestParsePoolCreatedEventsShortAccountsSkipped(t *testing.T) {
	payer := solana.NewWallet().PublicKey().String()
	ix := map[string]interface{}{
		"programId": consts.RAYDIUM_V4_PROGRAM_ID,
		"accounts":  []string{payer, payer, payer},
	}
	tx := parsedTxFixture(t, testSignature(3), []string{payer}, []map[string]interface{}{ix}, nil)

	events, err := NewSolParser(nil).ParsePoolCreatedEvents(context.Background(), tx)
	assert.NoError(t, err)
	assert.Empty(t, events)
}

func TestParsePoolCreatedEventsInvalidTransaction(t *testing.T) {
	p := NewSolParser(nil)

	_, err := p.ParsePoolCreatedEvents(context.Background(), nil)
	assert.Error(t, err)

	_, err = p.ParsePoolCreatedEvents(context.Background(), &rpc.GetParsedTransactionResult{})
	assert.Error(t, err)
}

// swapFixture carries the generated addresses threaded through a swap
// transaction.
type swapFixture struct {
	signature string
	payer     string
	amm       string
	coinVault string
	pcVault   string
	userSrc   string
	userDst   string
}

func newSwapFixture() swapFixture {
	return swapFixture{
		signature: testSignature(4),
		payer:     solana.NewWallet().PublicKey().String(),
		amm:       solana.NewWallet().PublicKey().String(),
		coinVault: solana.NewWallet().PublicKey().String(),
		pcVault:   solana.NewWallet().PublicKey().String(),
		userSrc:   solana.NewWallet().PublicKey().String(),
		userDst:   solana.NewWallet().PublicKey().String(),
	}
}

// swapAccounts lays out the 18 accounts of a swap invocation that carries
// target orders, which is the form seen on chain. The vaults sit at 5 and 6.
func (f swapFixture) swapAccounts() []string {
	accounts := make([]string, 18)
	for i := range accounts {
		accounts[i] = solana.NewWallet().PublicKey().String()
	}
	accounts[0] = consts.TOKEN_PROGRAM_ID
	accounts[1] = f.amm
	accounts[5] = f.coinVault
	accounts[6] = f.pcVault
	accounts[15] = f.userSrc
	accounts[16] = f.userDst
	accounts[17] = f.payer
	return accounts
}

func (f swapFixture) instruction() map[string]interface{} {
	return map[string]interface{}{
		"programId": consts.RAYDIUM_V4_PROGRAM_ID,
		"accounts":  f.swapAccounts(),
	}
}

func (f swapFixture) innerMeta(instructions ...map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"innerInstructions": []map[string]interface{}{
			{"index": 0, "instructions": instructions},
		},
	}
}

func TestParseSwapEvents(t *testing.T) {
	f := newSwapFixture()
	meta := f.innerMeta(
		transferInstruction(f.userSrc, f.coinVault, "1000000000", f.payer),
		transferInstruction(f.pcVault, f.userDst, "2500000", f.amm),
	)
	tx := parsedTxFixture(t, f.signature, []string{f.payer, f.amm}, []map[string]interface{}{f.instruction()}, meta)

	events, err := NewSolParser(nil).ParseSwapEvents(tx)
	assert.NoError(t, err)
	if !assert.Len(t, events, 1) {
		return
	}

	ev := events[0]
	assert.Equal(t, f.signature, ev.Signature)
	assert.Equal(t, 1, ev.EventIndex)
	assert.Equal(t, f.payer, ev.Sender)
	assert.Equal(t, f.coinVault, ev.InboundAccount)
	assert.Equal(t, "1000000000", ev.InboundAmount)
	assert.Equal(t, f.pcVault, ev.OutboundAccount)
	assert.Equal(t, "2500000", ev.OutboundAmount)
}

func TestParseSwapEventsTransferChecked(t *testing.T) {
	f := newSwapFixture()
	mint := solana.NewWallet().PublicKey().String()
	meta := f.innerMeta(
		transferCheckedInstruction(f.userSrc, f.pcVault, mint, "7000000", f.payer),
		transferCheckedInstruction(f.coinVault, f.userDst, mint, "300000000", f.amm),
	)
	tx := parsedTxFixture(t, f.signature, []string{f.payer}, []map[string]interface{}{f.instruction()}, meta)

	events, err := NewSolParser(nil).ParseSwapEvents(tx)
	assert.NoError(t, err)
	if !assert.Len(t, events, 1) {
		return
	}
	assert.Equal(t, f.pcVault, events[0].InboundAccount)
	assert.Equal(t, "7000000", events[0].InboundAmount)
	assert.Equal(t, f.coinVault, events[0].OutboundAccount)
	assert.Equal(t, "300000000", events[0].OutboundAmount)
}

// Without inner instructions there is nothing to attribute, but the event
// itself still comes out.
func TestParseSwapEventsNoInnerInstructions(t *testing.T) {
	f := newSwapFixture()
	tx := parsedTxFixture(t, f.signature, []string{f.payer}, []map[string]interface{}{f.instruction()}, nil)

	events, err := NewSolParser(nil).ParseSwapEvents(tx)
	assert.NoError(t, err)
	if !assert.Len(t, events, 1) {
		return
	}

	ev := events[0]
	assert.Equal(t, f.signature, ev.Signature)
	assert.Equal(t, f.payer, ev.Sender)
	assert.Empty(t, ev.InboundAccount)
	assert.Empty(t, ev.InboundAmount)
	assert.Empty(t, ev.OutboundAccount)
	assert.Empty(t, ev.OutboundAmount)
}

// A lamports transfer into a vault address carries no token amount and must
// not claim a leg.
func TestParseSwapEventsSkipsLamportTransfers(t *testing.T) {
	f := newSwapFixture()
	meta := f.innerMeta(
		lamportsTransferInstruction(f.userSrc, f.coinVault, 2039280),
		transferInstruction(f.pcVault, f.userDst, "9990000", f.amm),
	)
	tx := parsedTxFixture(t, f.signature, []string{f.payer}, []map[string]interface{}{f.instruction()}, meta)

	events, err := NewSolParser(nil).ParseSwapEvents(tx)
	assert.NoError(t, err)
	if !assert.Len(t, events, 1) {
		return
	}
	assert.Empty(t, events[0].InboundAccount)
	assert.Equal(t, f.pcVault, events[0].OutboundAccount)
	assert.Equal(t, "9990000", events[0].OutboundAmount)
}

// A vault-to-vault transfer matches both sides; the source match wins and
// only the outbound leg is claimed.
func TestParseSwapEventsSourceWinsOverDestination(t *testing.T) {
	f := newSwapFixture()
	meta := f.innerMeta(
		transferInstruction(f.coinVault, f.pcVault, "123456", f.amm),
	)
	tx := parsedTxFixture(t, f.signature, []string{f.payer}, []map[string]interface{}{f.instruction()}, meta)

	events, err := NewSolParser(nil).ParseSwapEvents(tx)
	assert.NoError(t, err)
	if !assert.Len(t, events, 1) {
		return
	}
	assert.Equal(t, f.coinVault, events[0].OutboundAccount)
	assert.Equal(t, "123456", events[0].OutboundAmount)
	assert.Empty(t, events[0].InboundAccount)
}

// When several transfers hit the same vault the last one observed wins.
func TestParseSwapEventsLastTransferWins(t *testing.T) {
	f := newSwapFixture()
	meta := f.innerMeta(
		transferInstruction(f.userSrc, f.coinVault, "111", f.payer),
		transferInstruction(f.userSrc, f.coinVault, "222", f.payer),
	)
	tx := parsedTxFixture(t, f.signature, []string{f.payer}, []map[string]interface{}{f.instruction()}, meta)

	events, err := NewSolParser(nil).ParseSwapEvents(tx)
	assert.NoError(t, err)
	if !assert.Len(t, events, 1) {
		return
	}
	assert.Equal(t, "222", events[0].InboundAmount)
}

// Two swap instructions in one transaction come out as two events numbered
// by their position in the message.
func TestParseSwapEventsNumbersMultipleInstructions(t *testing.T) {
	f := newSwapFixture()
	meta := f.innerMeta(
		transferInstruction(f.userSrc, f.coinVault, "500", f.payer),
	)
	tx := parsedTxFixture(t, f.signature, []string{f.payer},
		[]map[string]interface{}{f.instruction(), f.instruction()}, meta)

	events, err := NewSolParser(nil).ParseSwapEvents(tx)
	assert.NoError(t, err)
	if !assert.Len(t, events, 2) {
		return
	}
	assert.Equal(t, 1, events[0].EventIndex)
	assert.Equal(t, 2, events[1].EventIndex)
	assert.Equal(t, events[0].InboundAmount, events[1].InboundAmount)
}

func TestParseSwapEventsShortAccountsSkipped(t *testing.T) {
	payer := solana.NewWallet().PublicKey().String()
	ix := map[string]interface{}{
		"programId": consts.RAYDIUM_V4_PROGRAM_ID,
		"accounts":  []string{payer, payer},
	}
	tx := parsedTxFixture(t, testSignature(5), []string{payer}, []map[string]interface{}{ix}, nil)

	events, err := NewSolParser(nil).ParseSwapEvents(tx)
	assert.NoError(t, err)
	assert.Empty(t, events)
}
