package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ryanthedev/reactor/internal/floating"
	"github.com/ryanthedev/reactor/internal/workspace"
)

func TestLoadMissingFileReturnsEmptySnapshot(t *testing.T) {
	snap, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if snap.Version != Version {
		t.Fatalf("Version = %d, want %d", snap.Version, Version)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")

	original := &Snapshot{
		Workspaces: []workspace.DisplaySnapshot{
			{Display: 0, Active: 1, Workspaces: []workspace.WorkspaceSnapshot{{Name: "main"}, {Name: "side"}}},
		},
		Floating: []floating.SpaceSnapshot{
			{Space: 1},
		},
		Layouts: []LayoutSnapshot{
			{Space: 1, Workspace: 0, Blob: map[string]interface{}{"kind": "leaf"}},
		},
	}

	require.NoError(t, Save(path, original))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, original.Workspaces, loaded.Workspaces)
	require.Equal(t, original.Floating, loaded.Floating)
	require.Len(t, loaded.Layouts, 1)
	require.Equal(t, "leaf", loaded.Layouts[0].Blob.(map[string]interface{})["kind"])
}

func TestSaveIsAtomicNoStaleTempFileOnSuccess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	if err := Save(path, &Snapshot{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("expected no leftover temp file after a successful save")
	}
}
