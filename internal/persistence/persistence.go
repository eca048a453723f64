// Package persistence saves and restores the reactor's durable state
// to a single YAML file: workspace assignments, floating membership,
// and per-layout serialized trees. Grounded in the teacher's
// internal/state/persistence.go (LoadStateFrom/SaveTo), generalized
// from JSON to YAML to match this package's config file format and
// carrying forward the same missing-file-is-not-an-error and
// atomic-temp-file-plus-rename write discipline.
package persistence

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ryanthedev/reactor/internal/floating"
	"github.com/ryanthedev/reactor/internal/workspace"
)

// Version is bumped whenever Snapshot's shape changes in a way that
// requires migration on load.
const Version = 1

const (
	// DefaultStateDir is the directory under $HOME holding the state file.
	DefaultStateDir = ".local/state/reactor"
	// DefaultStateFile is the state file name within DefaultStateDir.
	DefaultStateFile = "state.yaml"
)

// LayoutSnapshot is one (space, workspace)'s serialized layout tree.
// Blob is whatever the owning layout system's Serialize returned; it
// round-trips through YAML as a generic map.
type LayoutSnapshot struct {
	Space     uint64      `yaml:"space"`
	Workspace uint32      `yaml:"workspace_index"`
	Blob      interface{} `yaml:"blob"`
}

// Snapshot is the full persisted state of the reactor.
type Snapshot struct {
	Version    int                          `yaml:"version"`
	Workspaces []workspace.DisplaySnapshot  `yaml:"workspaces,omitempty"`
	Floating   []floating.SpaceSnapshot     `yaml:"floating,omitempty"`
	Layouts    []LayoutSnapshot             `yaml:"layouts,omitempty"`
}

// GetStatePath returns the default state file path under the user's
// home directory.
func GetStatePath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, DefaultStateDir, DefaultStateFile)
}

// Load reads and parses the state file at path. A missing file is not
// an error: it returns an empty Snapshot at the current Version, the
// same way a fresh install has no prior state to resume from.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Snapshot{Version: Version}, nil
		}
		return nil, fmt.Errorf("persistence: read state file: %w", err)
	}

	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("persistence: parse state file: %w", err)
	}
	if snap.Version < Version {
		snap = migrate(snap)
	}
	return &snap, nil
}

// migrate upgrades an older snapshot to the current Version. There is
// only one version so far; this is the seam future migrations hang
// off of.
func migrate(old Snapshot) Snapshot {
	old.Version = Version
	return old
}

// Save writes snap to path atomically: it marshals to a temp file in
// the same directory, then renames over the destination so a reader
// (or a crash mid-write) never observes a partially written file.
func Save(path string, snap *Snapshot) error {
	snap.Version = Version

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("persistence: create state directory: %w", err)
	}

	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("persistence: marshal state: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("persistence: write temp state file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("persistence: rename temp state file: %w", err)
	}
	return nil
}
