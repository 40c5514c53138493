package client

import (
	"fmt"
)

const DefaultRugCheckHost = "https://api.rugcheck.xyz"

// RugCheckAPI talks to the rugcheck.xyz token report endpoint. The report is
// advisory; callers treat a fetch failure as no signal, not as a rejection.
type RugCheckAPI struct {
	BaseHost string
}

func NewRugCheckAPI(baseHost string) *RugCheckAPI {
	if baseHost == "" {
		baseHost = DefaultRugCheckHost
	}
	return &RugCheckAPI{BaseHost: baseHost}
}

type TokenRisk struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Score       int    `json:"score"`
	Level       string `json:"level"`
}

// TokenReport is the subset of the rugcheck report the safety screen reads.
type TokenReport struct {
	CreatorBalance uint64 `json:"creatorBalance"`
	Token          struct {
		MintAuthority   *string `json:"mintAuthority"`
		FreezeAuthority *string `json:"freezeAuthority"`
		Supply          int64   `json:"supply"`
		Decimals        int     `json:"decimals"`
	} `json:"token"`
	Risks                []TokenRisk `json:"risks"`
	Score                int         `json:"score"`
	Rugged               bool        `json:"rugged"`
	TotalMarketLiquidity float64     `json:"totalMarketLiquidity"`
}

// Risky reports the first disqualifying finding. A creator still holding a
// balance counts: historically that is the wallet that dumps into the fresh
// pool.
func (r *TokenReport) Risky() (string, bool) {
	if r.Rugged {
		return "token marked rugged", true
	}
	for _, risk := range r.Risks {
		if risk.Level == "danger" {
			return risk.Name, true
		}
	}
	if r.CreatorBalance > 0 {
		return "creator still holds a balance", true
	}
	return "", false
}

// FetchTokenReport pulls the report for one mint.
func (a *RugCheckAPI) FetchTokenReport(mint string) (*TokenReport, error) {
	url := fmt.Sprintf("%s/v1/tokens/%s/report", a.BaseHost, mint)

	var report TokenReport
	if err := getJSON(url, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
