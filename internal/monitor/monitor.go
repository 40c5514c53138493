package monitor

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	"raydium-bot/internal/client"
	"raydium-bot/internal/config"
	"raydium-bot/internal/dex/raydium"
	"raydium-bot/internal/global"
	"raydium-bot/internal/global/utils/fifomap"
	"raydium-bot/internal/solparser/parser"
	"raydium-bot/internal/solparser/types"
	"raydium-bot/internal/svc"
	"raydium-bot/internal/trader"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"github.com/zeromicro/go-zero/core/logx"
	"golang.org/x/sync/errgroup"
)

const (
	logBuffer      = 512
	reconnectDelay = 2 * time.Second
	handleTimeout  = 30 * time.Second
	snipeCacheSize = 64
)

// RaydiumMonitor consumes the log stream of the AMM program, classifies every
// notification, fetches the transaction behind it and reports the extracted
// events. With a wallet and a snipe amount configured it also buys target
// mints the moment their pool appears.
type RaydiumMonitor struct {
	eg     errgroup.Group
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc

	svcCtx   *svc.ServiceContext
	parser   *parser.SolParser
	deduper  *TxDeduper
	wallet   *solana.Wallet
	wsClient *ws.Client

	snipeCache *fifomap.FIFOMap
	stats      *Stats
}

var Monitor *RaydiumMonitor

// NewRaydiumMonitor dials the websocket endpoint and assembles the pipeline.
// A nil wallet runs the monitor in watch-only mode.
func NewRaydiumMonitor(svcCtx *svc.ServiceContext, wallet *solana.Wallet) (*RaydiumMonitor, error) {
	ctx, cancel := context.WithCancel(context.Background())

	wsClient, err := client.ConnectWS(ctx, svcCtx.Config.Rpc.WsUrl)
	if err != nil {
		cancel()
		return nil, err
	}

	return &RaydiumMonitor{
		ctx:        ctx,
		cancel:     cancel,
		svcCtx:     svcCtx,
		parser:     parser.NewSolParser(svcCtx.RpcClient),
		deduper:    NewTxDeduper(svcCtx.Config.Watch.DedupeSize, svcCtx.Config.Watch.DedupeFpRate),
		wallet:     wallet,
		wsClient:   wsClient,
		snipeCache: fifomap.NewFIFOMap(snipeCacheSize),
		stats:      &Stats{Started: time.Now()},
	}, nil
}

func (p *RaydiumMonitor) Go(fn func()) {
	p.eg.Go(func() error {
		fn()
		return nil
	})
}

func (p *RaydiumMonitor) Start() {
	p.Go(p.workerForLogs)
	p.Go(func() {
		global.RefreshBlockhash(p.ctx, p.svcCtx.RpcClient, time.Duration(p.svcCtx.Config.Trade.BlockhashRefreshMs)*time.Millisecond)
	})
	if addr := p.svcCtx.Config.Watch.StatusAddr; addr != "" {
		go p.ServeStatus(addr)
	}
}

func (p *RaydiumMonitor) Stop() {
	p.cancel()
	p.currentWS().Close()
	p.eg.Wait()
}

// workerForLogs keeps one log subscription alive, redialing the websocket
// after transport failures until the monitor is stopped.
func (p *RaydiumMonitor) workerForLogs() {
	program, err := solana.PublicKeyFromBase58(p.svcCtx.Config.WatchProgramID())
	if err != nil {
		logx.Errorf("bad watch program id %q: %v", p.svcCtx.Config.WatchProgramID(), err)
		return
	}

	for {
		err := p.consumeLogs(program)
		if p.ctx.Err() != nil {
			return
		}
		logx.Errorf("log subscription dropped: %v, reconnecting in %s", err, reconnectDelay)

		select {
		case <-p.ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
		if err := p.redial(); err != nil {
			logx.Errorf("websocket redial: %v", err)
		}
	}
}

func (p *RaydiumMonitor) consumeLogs(program solana.PublicKey) error {
	msg := make(chan *ws.LogResult, logBuffer)
	done := make(chan error, 1)
	go func() {
		done <- client.SubForLogs(p.ctx, p.currentWS(), program, msg)
	}()

	for {
		select {
		case <-p.ctx.Done():
			return p.ctx.Err()
		case err := <-done:
			return err
		case got := <-msg:
			p.handleNotification(got)
		}
	}
}

func (p *RaydiumMonitor) currentWS() *ws.Client {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.wsClient
}

func (p *RaydiumMonitor) redial() error {
	wsClient, err := client.ConnectWS(p.ctx, p.svcCtx.Config.Rpc.WsUrl)
	if err != nil {
		return err
	}
	p.mu.Lock()
	old := p.wsClient
	p.wsClient = wsClient
	p.mu.Unlock()
	old.Close()
	return nil
}

// handleNotification runs the decode-classify-extract pass for one signature.
// Failures are logged and counted; they never stop the subscription loop.
func (p *RaydiumMonitor) handleNotification(got *ws.LogResult) {
	defer func() {
		if r := recover(); r != nil {
			logx.Errorf("recovered handling notification: %v", r)
		}
	}()

	p.stats.Notifications.Add(1)
	signature := got.Value.Signature

	if p.deduper.SeenOrAdd(signature.String()) {
		p.stats.Deduped.Add(1)
		return
	}

	classification := parser.ClassifyLogs(got.Value.Logs)
	for _, line := range classification.RouterLines {
		logx.Infof("[%s] router swap log: %s", signature, line)
	}
	if classification.Unknown() {
		return
	}

	ctx, cancel := context.WithTimeout(p.ctx, handleTimeout)
	defer cancel()

	tx, err := client.GetParsedTransactionByHash(ctx, p.svcCtx.RpcClient, signature)
	if err != nil {
		p.stats.Errors.Add(1)
		logx.Errorf("[%s] fetch transaction: %v", signature, err)
		return
	}

	if classification.PoolCreated {
		events, err := p.parser.ParsePoolCreatedEvents(ctx, tx)
		if err != nil {
			p.stats.Errors.Add(1)
			logx.Errorf("[%s] extract pool created events: %v", signature, err)
		}
		for _, event := range events {
			p.stats.Pools.Add(1)
			p.reportPoolCreated(event)
			p.maybeSnipe(event)
		}
	}

	if classification.Swap {
		events, err := p.parser.ParseSwapEvents(tx)
		if err != nil {
			p.stats.Errors.Add(1)
			logx.Errorf("[%s] extract swap events: %v", signature, err)
		}
		for _, event := range events {
			p.stats.Swaps.Add(1)
			p.reportSwap(event)
		}
	}
}

func (p *RaydiumMonitor) reportPoolCreated(event *types.PoolCreatedEvent) {
	logx.Infof("[%s] new pool %s: tokenA{mint=%s vault=%s balance=%s} tokenB{mint=%s vault=%s balance=%s} openTime=%d",
		event.Signature, event.AmmAddress,
		event.TokenA.Mint, event.TokenA.Vault, event.TokenA.Balance,
		event.TokenB.Mint, event.TokenB.Vault, event.TokenB.Balance,
		event.OpenTime,
	)
}

func (p *RaydiumMonitor) reportSwap(event *types.SwapTransactionEvent) {
	logx.Infof("[%s] swap #%d by %s: in{account=%s amount=%s} out{account=%s amount=%s}",
		event.Signature, event.EventIndex, event.Sender,
		orUnknown(event.InboundAccount), orUnknown(event.InboundAmount),
		orUnknown(event.OutboundAccount), orUnknown(event.OutboundAmount),
	)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// maybeSnipe buys the freshly pooled mint when it is on the target list, paired
// against wrapped SOL, not blacklisted and not already bought.
func (p *RaydiumMonitor) maybeSnipe(event *types.PoolCreatedEvent) {
	if p.wallet == nil {
		return
	}
	lamports := p.svcCtx.Config.Trade.SnipeLamports
	if lamports == 0 {
		return
	}
	target, ok := p.snipeTarget(event)
	if !ok {
		return
	}
	if _, seen := p.snipeCache.Get(target); seen {
		return
	}
	p.snipeCache.Set(target, true)

	p.Go(func() {
		p.snipe(event, target, lamports)
	})
}

// snipeTarget returns the mint to buy. One side of the pool must be wrapped
// SOL and the other a configured target.
func (p *RaydiumMonitor) snipeTarget(event *types.PoolCreatedEvent) (string, bool) {
	wsol := global.WSolMint.String()
	if event.TokenA.Mint != wsol && event.TokenB.Mint != wsol {
		return "", false
	}
	for _, mint := range []string{event.TokenA.Mint, event.TokenB.Mint} {
		if mint == wsol {
			continue
		}
		if config.IsBlacklisted(mint) {
			return "", false
		}
		if config.IsTargetMint(mint) {
			return mint, true
		}
	}
	return "", false
}

func (p *RaydiumMonitor) snipe(event *types.PoolCreatedEvent, mint string, lamports uint64) {
	logx.Infof("[%s] target mint %s pooled at %s, sniping %d lamports", event.Signature, mint, event.AmmAddress, lamports)

	// Not derived from the monitor context: a snipe already in flight when
	// Stop is called runs to its terminal outcome, and Stop waits for it
	// through the errgroup. The timeout bounds how long that wait can be.
	confirmTimeout := time.Duration(p.svcCtx.Config.Trade.ConfirmTimeoutSec) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), confirmTimeout+30*time.Second)
	defer cancel()

	targetMint, err := solana.PublicKeyFromBase58(mint)
	if err != nil {
		logx.Errorf("[%s] bad mint: %v", mint, err)
		return
	}

	// A risky verdict stays cached so the mint is not re-screened on every
	// notification; transient screen failures clear the cache for a retry.
	if err := p.safetyCheck(ctx, targetMint); err != nil {
		if !errors.Is(err, ErrMintRisky) {
			p.snipeCache.Delete(mint)
		}
		logx.Errorf("[%s] safety screen: %v", mint, err)
		return
	}

	amm, market, err := raydium.FetchKeysByPoolID(p.svcCtx.Raydium, event.AmmAddress)
	if err != nil {
		p.snipeCache.Delete(mint)
		logx.Errorf("[%s] fetch keys for pool %s: %v", mint, event.AmmAddress, err)
		return
	}

	order := &raydium.SwapOrder{
		InputMint:        solana.WrappedSol,
		OutputMint:       targetMint,
		AmountIn:         lamports,
		MinimumAmountOut: p.snipeMinOut(event, mint, lamports),
		Owner:            p.wallet.PublicKey(),
	}

	instrs, err := raydium.BuildSwapInstructions(ctx, p.svcCtx.RpcClient, order, amm, market, p.svcCtx.Config.Trade.UnitPriceMicroLamports)
	if err != nil {
		p.snipeCache.Delete(mint)
		logx.Errorf("[%s] build swap: %v", mint, err)
		return
	}

	ledger := &trader.ChainLedger{
		Rpc:            p.svcCtx.RpcClient,
		Ws:             p.currentWS(),
		ConfirmTimeout: confirmTimeout,
	}
	simulateOnly := p.svcCtx.Config.Trade.SimulateOnly
	sig, err := trader.New(ledger, p.wallet, simulateOnly).Execute(ctx, instrs)
	if err != nil {
		p.snipeCache.Delete(mint)
		logx.Errorf("[%s] snipe failed: %v", mint, err)
		return
	}
	p.stats.Snipes.Add(1)
	if simulateOnly {
		logx.Infof("[%s] snipe simulation passed, nothing submitted", mint)
		return
	}
	logx.Infof("[%s] sniped: %s%s", mint, global.ChainExplorerTxLink, sig)
}

// snipeMinOut estimates the worst acceptable fill from the pool's creation
// reserves. Unknown reserves mean any fill is accepted.
func (p *RaydiumMonitor) snipeMinOut(event *types.PoolCreatedEvent, mint string, lamports uint64) uint64 {
	inBalance, outBalance := event.TokenA.Balance, event.TokenB.Balance
	if event.TokenA.Mint == mint {
		inBalance, outBalance = event.TokenB.Balance, event.TokenA.Balance
	}
	inReserve, okIn := new(big.Float).SetString(inBalance)
	outReserve, okOut := new(big.Float).SetString(outBalance)
	if !okIn || !okOut {
		return 0
	}
	slippage := float64(p.svcCtx.Config.Trade.SlippageBps) / 10000
	return raydium.EstimateAmountOut(lamports, inReserve, outReserve, slippage)
}
