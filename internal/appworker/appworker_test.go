package appworker

import (
	"testing"
	"time"

	"github.com/ryanthedev/reactor/internal/events"
	"github.com/ryanthedev/reactor/internal/types"
	"github.com/ryanthedev/reactor/internal/windowstate"
)

func TestSendReceivesWorkerResponse(t *testing.T) {
	h := NewHandle(func(req windowstate.Request) windowstate.Response {
		return windowstate.Response{Windows: []events.WindowInfo{{Title: "ok"}}}
	}, time.Second)
	defer h.Stop()

	resp := h.Send(windowstate.Request{Kind: windowstate.ReqGetVisibleWindows})
	if resp.Err != nil || len(resp.Windows) != 1 || resp.Windows[0].Title != "ok" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestSendSerializesCallsToSameWorker(t *testing.T) {
	var order []int
	done := make(chan struct{})
	h := NewHandle(func(req windowstate.Request) windowstate.Response {
		order = append(order, int(req.Window.Index))
		return windowstate.Response{}
	}, time.Second)
	defer h.Stop()

	go func() {
		h.Send(windowstate.Request{Window: types.WindowId{Index: 1}})
		h.Send(windowstate.Request{Window: types.WindowId{Index: 2}})
		close(done)
	}()
	<-done

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("expected calls in order [1 2], got %v", order)
	}
}

func TestSendTimesOutOnSlowWorker(t *testing.T) {
	h := NewHandle(func(req windowstate.Request) windowstate.Response {
		time.Sleep(50 * time.Millisecond)
		return windowstate.Response{}
	}, 5*time.Millisecond)
	defer h.Stop()

	resp := h.Send(windowstate.Request{})
	if resp.Err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestSendAfterStopReturnsError(t *testing.T) {
	h := NewHandle(func(windowstate.Request) windowstate.Response { return windowstate.Response{} }, time.Second)
	h.Stop()

	resp := h.Send(windowstate.Request{})
	if resp.Err == nil {
		t.Fatal("expected error after handle stopped")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	h := NewHandle(func(windowstate.Request) windowstate.Response { return windowstate.Response{} }, time.Second)
	h.Stop()
	h.Stop()
}
