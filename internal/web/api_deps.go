package web

import (
	"image"
	"time"

	"github.com/mini-display/minidisplay/internal/state"
)

// StatusStore is the read side of state.Store.
type StatusStore interface {
	Snapshot() state.State
	Frame() (*image.RGBA, state.FrameInfo)
}

type APIV1Deps struct {
	Store StatusStore
	// Active lists the widgets in cycle order.
	Active []string
	// Available lists every widget name that can be configured.
	Available []string
	Now       func() time.Time
}

func (d APIV1Deps) withDefaults() APIV1Deps {
	out := d
	if out.Store == nil {
		out.Store = state.NewStore()
	}
	if out.Now == nil {
		out.Now = time.Now
	}
	return out
}
