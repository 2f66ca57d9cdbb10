package core

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
)

// WorkspaceSetting fixes the grid the editor opens with.
type WorkspaceSetting struct {
	Qubits  int `toml:"qubits"`
	Columns int `toml:"columns"`
}

// PlaybackSetting tunes how run snapshots are replayed.
type PlaybackSetting struct {
	IntervalMillis int `toml:"interval_millis"`
}

// Setting holds the workspace tuning loaded from the TOML setting file.
type Setting struct {
	Workspace WorkspaceSetting `toml:"workspace"`
	Playback  PlaybackSetting  `toml:"playback"`
}

// NewSetting returns the built-in defaults.
func NewSetting() Setting {
	return Setting{
		Workspace: WorkspaceSetting{Qubits: 3, Columns: 6},
		Playback:  PlaybackSetting{IntervalMillis: 400},
	}
}

// LoadSetting reads the setting file at path and clamps it to usable
// ranges. A missing file is not an error: the tool must start on a bare
// machine, so the defaults come back instead.
func LoadSetting(path string, maxQubits int) (Setting, error) {
	setting := NewSetting()
	if _, err := os.Stat(path); err != nil {
		zap.L().Info(fmt.Sprintf("setting file %s not found, using defaults", path))
		setting.clamp(maxQubits)
		return setting, nil
	}
	if _, err := toml.DecodeFile(path, &setting); err != nil {
		zap.L().Error(fmt.Sprintf("failed to parse setting file %s. Reason:%s", path, err))
		return NewSetting(), err
	}
	setting.clamp(maxQubits)
	zap.L().Debug(fmt.Sprintf("setting is %+v", setting))
	return setting, nil
}

func (s *Setting) clamp(maxQubits int) {
	if s.Workspace.Qubits < 1 {
		s.Workspace.Qubits = 1
	}
	if maxQubits > 0 && s.Workspace.Qubits > maxQubits {
		s.Workspace.Qubits = maxQubits
	}
	if s.Workspace.Columns < 1 {
		s.Workspace.Columns = 1
	}
	if s.Workspace.Columns > 32 {
		s.Workspace.Columns = 32
	}
	if s.Playback.IntervalMillis < 50 {
		s.Playback.IntervalMillis = 50
	}
}
