package monitor

import (
	"net/http"
	"sync/atomic"
	"time"

	"raydium-bot/internal/config"
	"raydium-bot/internal/global"

	"github.com/gin-gonic/gin"
	"github.com/zeromicro/go-zero/core/logx"
)

// Stats counts what the monitor has seen since it started.
type Stats struct {
	Started       time.Time
	Notifications atomic.Uint64
	Deduped       atomic.Uint64
	Pools         atomic.Uint64
	Swaps         atomic.Uint64
	Snipes        atomic.Uint64
	Errors        atomic.Uint64
}

// ServeStatus exposes the monitor counters over HTTP. Blocks for the lifetime
// of the server.
func (p *RaydiumMonitor) ServeStatus(addr string) {
	r := gin.Default()
	r.GET("/status", p.getStatus)
	r.GET("/version", getVersion)
	if err := r.Run(addr); err != nil {
		logx.Errorf("status server on %s: %v", addr, err)
	}
}

func getVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"version": global.Version})
}

func (p *RaydiumMonitor) getStatus(c *gin.Context) {
	rules := config.GetWatchRules()
	c.JSON(http.StatusOK, gin.H{
		"program":       p.svcCtx.Config.WatchProgramID(),
		"slot":          global.GetSlot(),
		"blockhash":     global.GetBlockHash().String(),
		"uptime":        time.Since(p.stats.Started).String(),
		"notifications": p.stats.Notifications.Load(),
		"deduped":       p.stats.Deduped.Load(),
		"pools":         p.stats.Pools.Load(),
		"swaps":         p.stats.Swaps.Load(),
		"snipes":        p.stats.Snipes.Load(),
		"errors":        p.stats.Errors.Load(),
		"targets":       len(rules.Targets),
		"blacklist":     len(rules.Blacklist),
	})
}
