package shared

import "time"

// RenderObserver receives one sample per document render.
type RenderObserver interface {
	ObserveRender(kind, format string, elapsed time.Duration, err error)
}

// NopObserver discards render samples.
type NopObserver struct{}

func (NopObserver) ObserveRender(string, string, time.Duration, error) {}

// ObserverOrNop returns o, or a NopObserver when o is nil.
func ObserverOrNop(o RenderObserver) RenderObserver {
	if o == nil {
		return NopObserver{}
	}
	return o
}
