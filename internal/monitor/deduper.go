package monitor

import "github.com/bits-and-blooms/bloom/v3"

// TxDeduper drops signatures the subscription already delivered. The mentions
// filter can replay a signature across reconnects, and bursts occasionally
// duplicate. A false positive skips a transaction; it never double-processes
// one.
type TxDeduper struct {
	filter *bloom.BloomFilter
}

func NewTxDeduper(n uint, fpRate float64) *TxDeduper {
	if n == 0 {
		n = 100000
	}
	if fpRate <= 0 {
		fpRate = 0.01
	}
	return &TxDeduper{
		filter: bloom.NewWithEstimates(n, fpRate),
	}
}

// SeenOrAdd reports whether sig was seen before, recording it either way.
func (d *TxDeduper) SeenOrAdd(sig string) bool {
	if d.filter.Test([]byte(sig)) {
		return true
	}
	d.filter.Add([]byte(sig))
	return false
}
