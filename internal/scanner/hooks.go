package scanner

import "time"

// Hooks are optional callbacks fired while a page is being built.
type Hooks struct {
	OnScanRoundTrip func(node string, batch int64, found int, duration time.Duration, err error)
	OnPipeline      func(node string, commands int, duration time.Duration, err error)
	OnNodeScanned   func(node string, result *NodeScanResult, duration time.Duration, err error)
}

func (h *Hooks) scanRoundTrip(node string, batch int64, found int, duration time.Duration, err error) {
	if h != nil && h.OnScanRoundTrip != nil {
		h.OnScanRoundTrip(node, batch, found, duration, err)
	}
}

func (h *Hooks) pipeline(node string, commands int, duration time.Duration, err error) {
	if h != nil && h.OnPipeline != nil {
		h.OnPipeline(node, commands, duration, err)
	}
}

func (h *Hooks) nodeScanned(node string, result *NodeScanResult, duration time.Duration, err error) {
	if h != nil && h.OnNodeScanned != nil {
		h.OnNodeScanned(node, result, duration, err)
	}
}
