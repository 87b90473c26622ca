// Package config provides ambient configuration for a headless
// snescore instance: emulation region/timing, debug/tracing toggles,
// and save-state paths. There is no window, audio-backend, or
// input-key-mapping configuration here — §1 places the GUI front-end,
// audio playback hardware, and ROM/file picking outside this module's
// scope, so there is no consumer for those fields.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the full set of ambient settings this module consults.
type Config struct {
	Emulation EmulationConfig `json:"emulation"`
	Debug     DebugConfig     `json:"debug"`
	Paths     PathsConfig     `json:"paths"`

	configPath string
	loaded     bool
}

// EmulationConfig controls timing and accuracy knobs.
type EmulationConfig struct {
	Region        string `json:"region"`         // "NTSC" only; PAL timing is a Non-goal
	CycleAccuracy bool   `json:"cycle_accuracy"` // always true in this core; kept for config compatibility
}

// DebugConfig controls the Debugger substrate at startup.
type DebugConfig struct {
	EnableLogging bool   `json:"enable_logging"`
	TraceFilter   string `json:"trace_filter"` // compiled via debug.Compile
	MaxLogEvents  int    `json:"max_log_events"`
}

// PathsConfig names filesystem locations save-state and ROM loading
// consult; the module itself never performs the file-picking UI the
// spec excludes, only these path values.
type PathsConfig struct {
	SaveStateDir string `json:"save_state_dir"`
	SRAMDir      string `json:"sram_dir"`
}

// Default returns the documented baseline configuration.
func Default() Config {
	return Config{
		Emulation: EmulationConfig{Region: "NTSC", CycleAccuracy: true},
		Debug:     DebugConfig{EnableLogging: false, MaxLogEvents: 4096},
		Paths:     PathsConfig{SaveStateDir: "saves", SRAMDir: "sram"},
	}
}

// Load reads and parses a JSON config file, falling back to Default
// for any fields the file omits.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg.configPath = path
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	cfg.configPath = path
	cfg.loaded = true
	return cfg, nil
}

// Save writes the config back out as indented JSON, creating parent
// directories as needed.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: creating directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: marshaling: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}

func (c Config) Loaded() bool { return c.loaded }
