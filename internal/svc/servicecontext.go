package svc

import (
	"raydium-bot/internal/client"
	"raydium-bot/internal/config"

	"github.com/gagliardetto/solana-go/rpc"
)

type ServiceContext struct {
	Config config.Config

	RpcClient *rpc.Client
	Raydium   *client.RaydiumAPI
	RugCheck  *client.RugCheckAPI
}

func NewServiceContext(c config.Config) *ServiceContext {
	return &ServiceContext{
		Config:    c,
		RpcClient: client.NewRPC(c.Rpc.HttpUrl),
		Raydium:   client.NewRaydiumAPI(c.Api.BaseHost, c.Api.SwapHost),
		RugCheck:  client.NewRugCheckAPI(c.Trade.RugCheckHost),
	}
}
