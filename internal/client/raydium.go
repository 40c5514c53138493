package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"github.com/spf13/cast"
	"github.com/valyala/fasthttp"
	"github.com/zeromicro/go-zero/core/logx"
	"golang.org/x/sync/errgroup"

	"raydium-bot/internal/global"
)

const (
	TxVersion = "V0"

	DefaultBaseHost = "https://api-v3.raydium.io"
	DefaultSwapHost = "https://transaction-v1.raydium.io"
)

// RaydiumAPI talks to the Raydium v3 HTTP API: pool discovery on the base
// host, quote and transaction building on the swap host.
type RaydiumAPI struct {
	BaseHost string
	SwapHost string
}

func NewRaydiumAPI(baseHost, swapHost string) *RaydiumAPI {
	if baseHost == "" {
		baseHost = DefaultBaseHost
	}
	if swapHost == "" {
		swapHost = DefaultSwapHost
	}
	return &RaydiumAPI{BaseHost: baseHost, SwapHost: swapHost}
}

type PriorityFeeResponse struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Data    struct {
		Default struct {
			VH int64 `json:"vh"`
			H  int64 `json:"h"`
			M  int64 `json:"m"`
		} `json:"default"`
	} `json:"data"`
}

type PoolInfoResponse struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Data    struct {
		Count int `json:"count"`
		Data  []struct {
			ID string `json:"id"`
		} `json:"data"`
	} `json:"data"`
}

// PoolKeys is one entry of the pools/key/ids response: every account a swap
// against the AMM and its serum market needs.
type PoolKeys struct {
	ProgramID string `json:"programId"`
	ID        string `json:"id"`
	MintA     struct {
		Address string `json:"address"`
	} `json:"mintA"`
	MintB struct {
		Address string `json:"address"`
	} `json:"mintB"`
	MintLp struct {
		Address string `json:"address"`
	} `json:"mintLp"`
	Vault struct {
		A string `json:"A"`
		B string `json:"B"`
	} `json:"vault"`
	Authority        string `json:"authority"`
	OpenOrders       string `json:"openOrders"`
	TargetOrders     string `json:"targetOrders"`
	MarketProgramID  string `json:"marketProgramId"`
	MarketID         string `json:"marketId"`
	MarketAuthority  string `json:"marketAuthority"`
	MarketBaseVault  string `json:"marketBaseVault"`
	MarketQuoteVault string `json:"marketQuoteVault"`
	MarketBids       string `json:"marketBids"`
	MarketAsks       string `json:"marketAsks"`
	MarketEventQueue string `json:"marketEventQueue"`
}

type PoolKeysResponse struct {
	ID      string     `json:"id"`
	Success bool       `json:"success"`
	Data    []PoolKeys `json:"data"`
}

type SwapQuoteResponse struct {
	ID      string                 `json:"id"`
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data"`
}

// OutputAmount returns the quoted output amount as a raw token amount.
func (q *SwapQuoteResponse) OutputAmount() uint64 {
	return cast.ToUint64(q.Data["outputAmount"])
}

// PriceImpact returns the quoted price impact in percent.
func (q *SwapQuoteResponse) PriceImpact() float64 {
	return cast.ToFloat64(q.Data["priceImpactPct"])
}

type SwapTransactionResponse struct {
	ID      string `json:"id"`
	Version string `json:"version"`
	Success bool   `json:"success"`
	Data    []struct {
		Transaction string `json:"transaction"`
	} `json:"data"`
}

func getJSON(url string, out interface{}) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s: %s", url, resp.Status, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// FetchPoolID looks up the deepest standard pool holding the two mints.
func (a *RaydiumAPI) FetchPoolID(mint1, mint2 string) (string, error) {
	url := fmt.Sprintf("%s/pools/info/mint?mint1=%s&mint2=%s&poolType=standard&poolSortField=liquidity&sortType=desc&pageSize=100&page=1",
		a.BaseHost, mint1, mint2)

	var info PoolInfoResponse
	if err := getJSON(url, &info); err != nil {
		return "", err
	}
	if !info.Success || len(info.Data.Data) == 0 {
		return "", fmt.Errorf("no standard pool found for %s/%s", mint1, mint2)
	}
	return info.Data.Data[0].ID, nil
}

// FetchPoolKeys resolves the full account set for the given pool ids.
func (a *RaydiumAPI) FetchPoolKeys(ids ...string) ([]PoolKeys, error) {
	url := fmt.Sprintf("%s/pools/key/ids?ids=%s", a.BaseHost, strings.Join(ids, ","))

	var keys PoolKeysResponse
	if err := getJSON(url, &keys); err != nil {
		return nil, err
	}
	if !keys.Success || len(keys.Data) == 0 {
		return nil, fmt.Errorf("no pool keys returned for %s", strings.Join(ids, ","))
	}
	return keys.Data, nil
}

// FetchPriorityFee returns the "high" tier of the network auto fee in
// micro-lamports per compute unit.
func (a *RaydiumAPI) FetchPriorityFee() (int64, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fmt.Sprintf("%s/main/auto-fee", a.BaseHost))

	if err := fasthttp.Do(req, resp); err != nil {
		return 0, fmt.Errorf("fetch auto fee: %w", err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return 0, fmt.Errorf("fetch auto fee: status %d", resp.StatusCode())
	}

	var fee PriorityFeeResponse
	if err := json.Unmarshal(resp.Body(), &fee); err != nil {
		return 0, fmt.Errorf("decode auto fee: %w", err)
	}
	if !fee.Success {
		return 0, fmt.Errorf("auto fee request rejected: %s", resp.Body())
	}
	return fee.Data.Default.H, nil
}

// FetchSwapQuote asks the swap host for a swap-base-in quote. The raw body is
// returned alongside the decoded response because the transaction endpoint
// expects the quote passed back verbatim.
func (a *RaydiumAPI) FetchSwapQuote(inputMint, outputMint string, amount, slippageBps uint64) (*SwapQuoteResponse, []byte, error) {
	url := fmt.Sprintf("%s/compute/swap-base-in?inputMint=%s&outputMint=%s&amount=%d&slippageBps=%d&txVersion=%s",
		a.SwapHost, inputMint, outputMint, amount, slippageBps, TxVersion)

	resp, err := http.Get(url)
	if err != nil {
		return nil, nil, fmt.Errorf("get swap quote: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read swap quote: %w", err)
	}

	var quote SwapQuoteResponse
	if err := json.Unmarshal(body, &quote); err != nil {
		return nil, nil, fmt.Errorf("decode swap quote: %w", err)
	}
	if !quote.Success {
		return nil, nil, fmt.Errorf("swap quote rejected: %s", body)
	}
	return &quote, body, nil
}

// FetchSwapTransactions turns a quote into ready-to-sign serialized
// transactions.
func (a *RaydiumAPI) FetchSwapTransactions(quoteBody []byte, wallet solana.PublicKey, unitPriceMicroLamports int64, inputAccount, outputAccount solana.PublicKey, wrapSol bool) ([]string, error) {
	reqBody := map[string]interface{}{
		"computeUnitPriceMicroLamports": fmt.Sprintf("%d", unitPriceMicroLamports),
		"swapResponse":                  json.RawMessage(quoteBody),
		"txVersion":                     TxVersion,
		"wallet":                        wallet.String(),
		"wrapSol":                       wrapSol,
		"unwrapSol":                     false,
		"inputAccount":                  inputAccount.String(),
		"outputAccount":                 outputAccount.String(),
	}

	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal swap tx request: %w", err)
	}

	resp, err := http.Post(
		fmt.Sprintf("%s/transaction/swap-base-in", a.SwapHost),
		"application/json",
		strings.NewReader(string(reqJSON)),
	)
	if err != nil {
		return nil, fmt.Errorf("get swap transactions: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read swap transactions: %w", err)
	}

	var txData SwapTransactionResponse
	if err := json.Unmarshal(respBody, &txData); err != nil {
		return nil, fmt.Errorf("decode swap transactions: %w", err)
	}
	if !txData.Success || len(txData.Data) == 0 {
		return nil, fmt.Errorf("swap transaction request rejected: %s", respBody)
	}

	txs := make([]string, 0, len(txData.Data))
	for _, d := range txData.Data {
		txs = append(txs, d.Transaction)
	}
	return txs, nil
}

// SwapByApi runs the full API swap flow: auto fee, quote, server-built
// transactions, sign and submit. With simulateOnly set the signed transactions
// are simulated and never sent.
func (a *RaydiumAPI) SwapByApi(ctx context.Context, rpcClient *rpc.Client, wsClient *ws.Client, wallet *solana.Wallet, inputMint, outputMint string, amount, slippageBps uint64, fallbackUnitPrice int64, simulateOnly bool) ([]solana.Signature, error) {
	// The auto fee and the quote come from independent endpoints, fetch both
	// at once. A failed fee lookup falls back to the configured unit price,
	// only the quote is fatal.
	var (
		unitPrice int64
		quote     *SwapQuoteResponse
		quoteBody []byte
	)
	var g errgroup.Group
	g.Go(func() error {
		fee, err := a.FetchPriorityFee()
		if err != nil {
			logx.Infof("auto fee unavailable, using configured unit price %d: %v", fallbackUnitPrice, err)
			fee = fallbackUnitPrice
		}
		unitPrice = fee
		return nil
	})
	g.Go(func() error {
		q, body, err := a.FetchSwapQuote(inputMint, outputMint, amount, slippageBps)
		if err != nil {
			return err
		}
		quote, quoteBody = q, body
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logx.Infof("quote: %d %s -> %d %s (impact %.4f%%)",
		amount, inputMint, quote.OutputAmount(), outputMint, quote.PriceImpact())

	inMint, err := solana.PublicKeyFromBase58(inputMint)
	if err != nil {
		return nil, fmt.Errorf("invalid input mint: %w", err)
	}
	outMint, err := solana.PublicKeyFromBase58(outputMint)
	if err != nil {
		return nil, fmt.Errorf("invalid output mint: %w", err)
	}
	inputAccount, _, err := solana.FindAssociatedTokenAddress(wallet.PublicKey(), inMint)
	if err != nil {
		return nil, fmt.Errorf("derive input token account: %w", err)
	}
	outputAccount, _, err := solana.FindAssociatedTokenAddress(wallet.PublicKey(), outMint)
	if err != nil {
		return nil, fmt.Errorf("derive output token account: %w", err)
	}

	wrapSol := inMint.Equals(solana.WrappedSol)
	encodedTxs, err := a.FetchSwapTransactions(quoteBody, wallet.PublicKey(), unitPrice, inputAccount, outputAccount, wrapSol)
	if err != nil {
		return nil, err
	}

	signatures := make([]solana.Signature, 0, len(encodedTxs))
	for idx, encoded := range encodedTxs {
		txBytes, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return signatures, fmt.Errorf("decode transaction %d: %w", idx+1, err)
		}
		tx, err := solana.TransactionFromBytes(txBytes)
		if err != nil {
			return signatures, fmt.Errorf("deserialize transaction %d: %w", idx+1, err)
		}

		_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
			if key.Equals(wallet.PublicKey()) {
				return &wallet.PrivateKey
			}
			return nil
		})
		if err != nil {
			return signatures, fmt.Errorf("sign transaction %d: %w", idx+1, err)
		}

		if simulateOnly {
			if _, err := SimulateTransaction(ctx, rpcClient, tx); err != nil {
				return signatures, fmt.Errorf("transaction %d: %w", idx+1, err)
			}
			logx.Infof("transaction %d simulated ok, not submitted", idx+1)
			continue
		}

		sig, err := SendAndConfirmTransaction(ctx, rpcClient, wsClient, tx, 30*time.Second)
		if err != nil {
			return signatures, fmt.Errorf("transaction %d: %w", idx+1, err)
		}
		signatures = append(signatures, sig)
		logx.Infof("transaction %d confirmed: %s%s", idx+1, global.ChainExplorerTxLink, sig)
	}
	return signatures, nil
}
