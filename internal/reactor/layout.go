package reactor

import (
	"time"

	"github.com/ryanthedev/reactor/internal/types"
	"github.com/ryanthedev/reactor/internal/windowstate"
)

// runLayoutPass asks the layout engine for every window's target rect
// on (space, workspace), then reconciles that to app workers. Animation
// is suppressed outright for a workspace switch or resize, or whenever
// the config disables it; otherwise it runs cooperatively inside this
// goroutine via a time.Ticker, never handing control back to the event
// loop until the animation settles, matching the design's single-writer
// constraint.
func (r *Reactor) runLayoutPass(space types.SpaceId, ws types.VirtualWorkspaceId, suppressAnimation bool) {
	placements, err := r.Layouts.CalculateLayout(space, ws)
	if err != nil {
		return
	}

	targets := make(map[types.WindowId]types.Rect, len(placements))
	for _, p := range placements {
		if r.skipLayoutFor[p.Window] {
			continue
		}
		targets[p.Window] = p.Rect
	}
	if len(targets) == 0 {
		return
	}

	suppress := suppressAnimation || !r.cfg.Animation.Enabled
	if suppress {
		r.commitFrames(targets)
		return
	}
	r.animateFrames(targets)
}

// commitFrames writes every target frame immediately in one batch per
// application, sharing a single transaction id per app the way a
// batched reactor-initiated write is required to.
func (r *Reactor) commitFrames(targets map[types.WindowId]types.Rect) {
	byApp := make(map[types.AppId]map[types.WindowId]types.Rect)
	for window, rect := range targets {
		set, ok := byApp[window.App]
		if !ok {
			set = make(map[types.WindowId]types.Rect)
			byApp[window.App] = set
		}
		set[window] = rect
	}

	for app, frames := range byApp {
		txid := r.Tx.BeginBatch(frames)
		a, ok := r.Windows.App(app)
		if !ok || a.Handle == nil {
			continue
		}
		for window := range frames {
			if w, ok := r.Windows.Window(window); ok {
				w.LastTxId = txid
			}
		}
		a.Handle.Send(windowstate.Request{
			Kind:        windowstate.ReqSetBatchWindowFrame,
			BatchFrames: frames,
			TxId:        txid,
		})
	}
}

// animateFrames steps every window linearly from its current frame to
// its target over the configured duration/fps, committing the exact
// target on the final tick so floating-point drift never leaves a
// window short of its destination.
func (r *Reactor) animateFrames(targets map[types.WindowId]types.Rect) {
	steps := int(r.cfg.Animation.Duration * float64(r.cfg.Animation.FPS))
	if steps < 1 {
		steps = 1
	}

	start := make(map[types.WindowId]types.Rect, len(targets))
	for window := range targets {
		if w, ok := r.Windows.Window(window); ok {
			start[window] = w.Frame
		} else {
			start[window] = targets[window]
		}
	}

	interval := time.Duration(float64(time.Second) / float64(r.cfg.Animation.FPS))
	if interval <= 0 {
		interval = time.Second / 60
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for step := 1; step <= steps; step++ {
		<-ticker.C
		if step == steps {
			r.commitFrames(targets)
			continue
		}
		t := float64(step) / float64(steps)
		frames := make(map[types.WindowId]types.Rect, len(targets))
		for window, target := range targets {
			frames[window] = lerpRect(start[window], target, t)
		}
		r.sendIntermediateFrames(frames)
	}
}

func (r *Reactor) sendIntermediateFrames(frames map[types.WindowId]types.Rect) {
	byApp := make(map[types.AppId]map[types.WindowId]types.Rect)
	for window, rect := range frames {
		set, ok := byApp[window.App]
		if !ok {
			set = make(map[types.WindowId]types.Rect)
			byApp[window.App] = set
		}
		set[window] = rect
	}
	for app, set := range byApp {
		a, ok := r.Windows.App(app)
		if !ok || a.Handle == nil {
			continue
		}
		a.Handle.Send(windowstate.Request{
			Kind:                windowstate.ReqSetBatchWindowFrame,
			BatchFrames:         set,
			AnimationSuppressed: false,
		})
	}
}

func lerpRect(a, b types.Rect, t float64) types.Rect {
	return types.Rect{
		X:      a.X + (b.X-a.X)*t,
		Y:      a.Y + (b.Y-a.Y)*t,
		Width:  a.Width + (b.Width-a.Width)*t,
		Height: a.Height + (b.Height-a.Height)*t,
	}
}
