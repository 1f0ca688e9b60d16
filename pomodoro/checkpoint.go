package pomodoro

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/yuhanbo/pomotask/types"
)

// Checkpoint is the on-disk timer state, written after each completed
// work period so the session counter survives restarts.
type Checkpoint struct {
	CompletedPomodoros int    `yaml:"completedPomodoros"`
	CurrentTaskID      string `yaml:"currentTaskId,omitempty"`
}

// SaveCheckpoint writes the checkpoint as YAML. The parent directory is
// created if needed.
func SaveCheckpoint(fs afero.Fs, path string, cp Checkpoint) error {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	data, err := yaml.Marshal(cp)
	if err != nil {
		return &types.PersistenceError{Path: path, Op: "marshal", Err: err}
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &types.PersistenceError{Path: path, Op: "write", Err: err}
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return &types.PersistenceError{Path: path, Op: "write", Err: err}
	}
	return nil
}

// LoadCheckpoint reads a previously saved checkpoint. A missing file is
// not an error; it yields the zero checkpoint.
func LoadCheckpoint(fs afero.Fs, path string) (Checkpoint, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return Checkpoint{}, nil
		}
		return Checkpoint{}, &types.PersistenceError{Path: path, Op: "read", Err: err}
	}
	var cp Checkpoint
	if err := yaml.Unmarshal(data, &cp); err != nil {
		return Checkpoint{}, &types.PersistenceError{Path: path, Op: "parse", Err: err}
	}
	return cp, nil
}

// Restore seeds the completed-period counter from a checkpoint. It only
// has an effect while the timer is idle.
func (t *Timer) Restore(cp Checkpoint) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateIdle {
		return
	}
	t.completed = cp.CompletedPomodoros
}

// Snapshot captures the current checkpoint state.
func (t *Timer) Snapshot() Checkpoint {
	t.mu.Lock()
	defer t.mu.Unlock()
	cp := Checkpoint{CompletedPomodoros: t.completed}
	if t.current != nil {
		cp.CurrentTaskID = t.current.ID
	}
	return cp
}
