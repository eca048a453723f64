package types

import (
	"fmt"

	"github.com/ryanthedev/reactor/internal/slotarena"
)

// AppId identifies a running application for the lifetime of its process.
type AppId uint32

// WindowId is (application id, per-app window index). Stable for the
// window's lifetime, independent of any compositor-assigned id.
type WindowId struct {
	App   AppId
	Index uint32
}

// String renders a WindowId for logs and replay journals.
func (w WindowId) String() string {
	return fmt.Sprintf("%d.%d", w.App, w.Index)
}

// WindowServerId is an opaque 32-bit id assigned by the compositor.
type WindowServerId uint32

// SpaceId is an opaque per-display workspace/surface id assigned by the
// compositor. It is distinct from VirtualWorkspaceId, which is this
// reactor's own partitioning within a space.
type SpaceId uint64

// VirtualWorkspaceId is a generationally-safe slot key within the
// workspace manager: a stale id can never alias a later allocation at the
// same slot index, because the arena bumps the generation on every reuse.
type VirtualWorkspaceId slotarena.Key

// LayoutId is a generationally-safe slot key within a layout system.
type LayoutId slotarena.Key

// Valid reports whether the id refers to a currently-live slot. The zero
// value is never valid: generation 0 is reserved so a zero-valued id can
// never be mistaken for a real allocation.
func (v VirtualWorkspaceId) Valid() bool { return slotarena.Key(v).Valid() }

// String renders a VirtualWorkspaceId for logs and dump output.
func (v VirtualWorkspaceId) String() string {
	return fmt.Sprintf("%d.%d", v.Index, v.Gen)
}

// Valid reports whether the id refers to a currently-live slot.
func (l LayoutId) Valid() bool { return slotarena.Key(l).Valid() }

// TransactionId is a per-window monotonically-increasing 32-bit counter.
// Overflow wraps harmlessly because comparisons between transaction ids
// are always equality checks, never ordering checks.
type TransactionId uint32

// Next returns the transaction id following t, wrapping on overflow.
func (t TransactionId) Next() TransactionId {
	return t + 1
}

// ContainerKind is the kind of an interior node in the Traditional layout
// system's container tree.
type ContainerKind int

const (
	ContainerHorizontal ContainerKind = iota
	ContainerVertical
	ContainerTabbed
	ContainerStacked
)

func (k ContainerKind) String() string {
	switch k {
	case ContainerHorizontal:
		return "horizontal"
	case ContainerVertical:
		return "vertical"
	case ContainerTabbed:
		return "tabbed"
	case ContainerStacked:
		return "stacked"
	default:
		return "unknown"
	}
}
