// Package config holds the service settings and the externalized rule
// vocabulary: the teacher→subject table, keyword stems and short-name
// map are configuration data, not logic, so institutions can adjust
// them without touching the engine.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/diario-app/diario/internal/classify"
	"github.com/diario-app/diario/internal/model"
)

// ChangeGroup is one change-type keyword group. Groups are tested in
// list order, so the yaml order is the classification priority.
type ChangeGroup struct {
	Type     string   `yaml:"type"`
	Keywords []string `yaml:"keywords"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API.
	Listen string `yaml:"listen"`

	// LookaheadDays is the alert horizon from today, inclusive.
	LookaheadDays int `yaml:"lookahead_days"`

	// MaxTestAlerts caps the test alert list.
	MaxTestAlerts int `yaml:"max_test_alerts"`

	// Teachers maps a teacher surname fragment to the subject that
	// teacher grades under. Curated per institution.
	Teachers map[string]string `yaml:"teachers"`

	// TestKeywords are the stems that flag a graded assessment.
	TestKeywords []string `yaml:"test_keywords"`

	// ScheduleKeywords are the stems that flag a timetable change.
	ScheduleKeywords []string `yaml:"schedule_keywords"`

	// ChangeTypes are the per-type stem groups, in priority order.
	ChangeTypes []ChangeGroup `yaml:"change_types"`

	// ShortNames maps a lowercase canonical subject name to its
	// compact display label.
	ShortNames map[string]string `yaml:"short_names"`
}

// Default returns the in-memory default configuration with the
// curated ClasseViva vocabulary.
func Default() *Config {
	rules := classify.DefaultRuleset()
	cfg := &Config{
		Listen:           "127.0.0.1:8000",
		LookaheadDays:    14,
		MaxTestAlerts:    6,
		TestKeywords:     rules.TestStems,
		ScheduleKeywords: rules.ScheduleStems,
		Teachers: map[string]string{
			"MIGLINO":    "geografia",
			"VISENTIN":   "lingua e letteratura italiana",
			"VENTURA":    "lingua e letteratura italiana",
			"BONIARDI":   "seconda lingua comunitaria",
			"VIRGILLI":   "scienze integrate (scienze della terra e biologia)",
			"IANNELLO":   "matematica",
			"ERBA":       "economia aziendale",
			"TETTAMANTI": "diritto ed economia",
			"NATALE":     "scienze integrate (fisica)",
			"DE CARLO":   "informatica",
			"CAMPI":      "lingua inglese",
		},
		ShortNames: map[string]string{
			"lingua e letteratura italiana": "Italiano",
			"seconda lingua comunitaria":    "Francese",
			"lingua inglese":                "Inglese",
			"scienze integrate (scienze della terra e biologia)": "Scienze Terra",
			"scienze integrate (fisica)":                         "Fisica",
			"economia aziendale":                                 "Economia",
			"diritto ed economia":                                "Diritto/Eco",
		},
	}
	for _, g := range rules.ChangeGroups {
		cfg.ChangeTypes = append(cfg.ChangeTypes, ChangeGroup{
			Type:     string(g.Type),
			Keywords: g.Stems,
		})
	}
	return cfg
}

// Ruleset converts the configured vocabulary into the matcher used by
// the detectors.
func (c *Config) Ruleset() *classify.Ruleset {
	groups := make([]classify.ChangeGroup, 0, len(c.ChangeTypes))
	for _, g := range c.ChangeTypes {
		groups = append(groups, classify.ChangeGroup{
			Type:  model.ChangeType(g.Type),
			Stems: g.Keywords,
		})
	}
	return classify.NewRuleset(c.TestKeywords, c.ScheduleKeywords, groups)
}

// Load reads the yaml config at path. A missing file is not an error:
// the defaults are written there (0600, credentials-ready) and
// returned. Empty fields in an existing file fall back to defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg := Default()
		if err := Save(path, cfg); err != nil {
			return nil, fmt.Errorf("write default config: %w", err)
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes cfg as yaml with owner-only permissions.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// DefaultPath resolves the config file location:
// $DIARIO_CONFIG, then $XDG_CONFIG_HOME/diario/config.yaml,
// then ~/.config/diario/config.yaml.
func DefaultPath() (string, error) {
	if p := os.Getenv("DIARIO_CONFIG"); p != "" {
		return p, nil
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "diario", "config.yaml"), nil
}

// applyDefaults fills zero-valued fields from Default so a partial
// config file stays usable.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.LookaheadDays <= 0 {
		c.LookaheadDays = def.LookaheadDays
	}
	if c.MaxTestAlerts <= 0 {
		c.MaxTestAlerts = def.MaxTestAlerts
	}
	if len(c.Teachers) == 0 {
		c.Teachers = def.Teachers
	}
	if len(c.TestKeywords) == 0 {
		c.TestKeywords = def.TestKeywords
	}
	if len(c.ScheduleKeywords) == 0 {
		c.ScheduleKeywords = def.ScheduleKeywords
	}
	if len(c.ChangeTypes) == 0 {
		c.ChangeTypes = def.ChangeTypes
	}
	if len(c.ShortNames) == 0 {
		c.ShortNames = def.ShortNames
	}
}
