package session

import "time"

// SignalKind identifies a platform-delivered interaction event.
type SignalKind string

const (
	SignalPointerDown SignalKind = "pointer-down"
	SignalPointerMove SignalKind = "pointer-move"
	SignalKeyPress    SignalKind = "key-press"
	SignalScroll      SignalKind = "scroll"
	SignalTouchStart  SignalKind = "touch-start"
)

// Signal is one observed user interaction. A zero At is stamped with the
// controller clock on receipt.
type Signal struct {
	Kind SignalKind
	At   time.Time
}

// SignalSource is the interaction-observer port. Platform adapters (DOM
// bridge, terminal input, IPC heartbeat) deliver their events on the
// returned channel; the monitor turns each one into an ActivityTick.
type SignalSource interface {
	Signals() <-chan Signal
}

// ChanSource is the simplest SignalSource: a channel the host pushes
// signals into. Closing the channel ends the subscription.
type ChanSource chan Signal

func (c ChanSource) Signals() <-chan Signal { return c }

// watchActivity consumes the signal source until it closes or the
// controller stops. Signals may be coalesced upstream; all that matters is
// that LastActivity lands no earlier than the last real interaction.
func (c *Controller) watchActivity(src SignalSource) {
	defer c.wg.Done()
	for {
		select {
		case sig, ok := <-src.Signals():
			if !ok {
				return
			}
			at := sig.At
			if at.IsZero() {
				at = c.now()
			}
			c.dispatch(ActivityTick{At: at})
		case <-c.stopCh:
			return
		}
	}
}
