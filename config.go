// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wsrender

import (
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
)

// RenderConfig holds the runtime-tunable flags this package reads
// (the two runtime configuration flags) plus the workspace grid
// size, which is fixed at manager construction but still belongs in
// config rather than code.
type RenderConfig struct {
	// NoDamageTrack forces the full output rect into every
	// make_current call, disabling partial-repaint tracking. Useful
	// when debugging a damage-tracking bug in a scene-graph collaborator.
	NoDamageTrack bool `toml:"no_damage_track"`

	// DamageDebug forces the full output rect into the swap damage and
	// clears the default buffer to DamageDebugColor before drawing. On
	// the workspace-stream path the scene is read from the current
	// stream's buffer, not the default buffer, so the fill is not shown
	// on screen; with a custom renderer it lies under whatever the
	// renderer draws.
	DamageDebug bool `toml:"damage_debug"`

	// DamageDebugColor is the fill color used when DamageDebug is set,
	// as RGBA in [0,1]. Defaults to opaque yellow.
	DamageDebugColor [4]float32 `toml:"-"`

	// ConstantRedrawDefault seeds the scheduler's constant_redraw
	// counter at construction (0 or 1 contributing source).
	ConstantRedrawDefault bool `toml:"constant_redraw_default"`

	// GridWidth and GridHeight size the fixed workspace-stream grid.
	// Both must be positive; NewManager rejects non-positive values.
	GridWidth  int `toml:"grid_width"`
	GridHeight int `toml:"grid_height"`
}

// DefaultConfig returns the configuration a host gets without reading
// any file: damage tracking on, debug overlay off, a 3x3 workspace grid.
func DefaultConfig() RenderConfig {
	return RenderConfig{
		DamageDebugColor: [4]float32{1, 1, 0, 1},
		GridWidth:        3,
		GridHeight:       3,
	}
}

// LoadConfig reads a TOML document at path and merges it onto
// [DefaultConfig]. A missing file is not an error; it yields the
// defaults unchanged.
func LoadConfig(path string) (RenderConfig, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("wsrender: reading config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("wsrender: parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// WatchConfig watches path for changes and invokes onChange with the
// freshly reloaded configuration whenever the file is written. It runs
// the watch loop on its own goroutine and returns a stop function; the
// caller must call stop to release the underlying fsnotify watcher.
//
// Parse errors during a reload are logged (at error level, via
// [Logger]) and otherwise ignored — the previous configuration keeps
// applying until a valid file shows up.
func WatchConfig(path string, onChange func(RenderConfig)) (stop func() error, err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("wsrender: creating config watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("wsrender: watching config %s: %w", path, err)
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := LoadConfig(path)
				if err != nil {
					Logger().Error("wsrender: config reload failed", "path", path, "error", err)
					continue
				}
				onChange(cfg)
			case werr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				Logger().Error("wsrender: config watcher error", "error", werr)
			case <-done:
				return
			}
		}
	}()

	return func() error {
		close(done)
		return watcher.Close()
	}, nil
}
