package parser

import (
	"strings"

	"raydium-bot/internal/solparser/consts"
)

// LogClassification is the verdict over one notification's log lines. A
// transaction can be both PoolCreated and Swap when it carries both
// instructions; RouterLines collects swap2/multiswap router invocations,
// which are reported but never extracted.
type LogClassification struct {
	PoolCreated bool
	Swap        bool
	RouterLines []string
}

// Unknown reports that no line matched a known entry point.
func (c LogClassification) Unknown() bool {
	return !c.PoolCreated && !c.Swap
}

// ClassifyLogs inspects every line of a log notification. Matching is
// case-insensitive: the pool marker anywhere in the line, the swap marker as
// line suffix. Every line is evaluated so a multi-instruction transaction
// reports all of its categories.
func ClassifyLogs(logs []string) LogClassification {
	var c LogClassification
	for _, line := range logs {
		lower := strings.ToLower(line)
		if strings.Contains(lower, consts.PoolCreatedLogMarker) {
			c.PoolCreated = true
		}
		if strings.HasSuffix(lower, consts.SwapLogSuffix) {
			c.Swap = true
		}
		if strings.HasSuffix(lower, consts.SwapRouter2Suffix) || strings.HasSuffix(lower, consts.MultiSwapSuffix) {
			c.RouterLines = append(c.RouterLines, line)
		}
	}
	return c
}
