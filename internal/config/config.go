package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/notemgr/notemgr/internal/match"
)

const (
	appName = "notemgr"

	DefaultCommitPrefix     = "update"
	DefaultCommitTimeLayout = "02-01-06 15:04"
)

// Config holds the settings of a notemgr run.
type Config struct {
	Editor           string   `yaml:"editor"`
	ExcludeDirs      []string `yaml:"exclude_dirs"`
	Matcher          string   `yaml:"matcher"`
	MatchOn          string   `yaml:"match_on"`
	CommitPrefix     string   `yaml:"commit_prefix"`
	CommitTimeLayout string   `yaml:"commit_time_layout"`
	Sync             bool     `yaml:"sync"`
	Push             bool     `yaml:"push"`
}

// Flags carries command-line overrides. Zero values leave settings alone.
type Flags struct {
	ConfigPath string
	Editor     string
	NoSync     bool
	NoPush     bool
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Matcher:          "fuzzy",
		MatchOn:          "path",
		CommitPrefix:     DefaultCommitPrefix,
		CommitTimeLayout: DefaultCommitTimeLayout,
		Sync:             true,
		Push:             true,
	}
}

// Load builds the configuration for the vault at root. Later sources win:
// defaults, config file, <root>/.env, NOTEMGR_* environment variables, flags.
func Load(root string, flags Flags) (*Config, error) {
	cfg := Default()

	path := flags.ConfigPath
	explicit := path != ""
	if !explicit {
		path = os.Getenv("NOTEMGR_CONFIG")
		explicit = path != ""
	}
	if !explicit {
		path = GetConfigPath()
	}
	if err := loadFile(cfg, path, explicit); err != nil {
		return nil, err
	}

	dotenv, err := readDotenv(filepath.Join(root, ".env"))
	if err != nil {
		return nil, err
	}
	if err := applyEnv(cfg, lookupFunc(dotenv)); err != nil {
		return nil, err
	}

	if flags.Editor != "" {
		cfg.Editor = flags.Editor
	}
	if flags.NoSync {
		cfg.Sync = false
	}
	if flags.NoPush {
		cfg.Push = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetConfigPath returns the default config file location under
// $XDG_CONFIG_HOME.
func GetConfigPath() string {
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if _, err := match.NewScorer(c.Matcher); err != nil {
		return err
	}
	if _, err := match.NewTarget(c.MatchOn); err != nil {
		return err
	}
	if strings.TrimSpace(c.CommitTimeLayout) == "" {
		return errors.New("commit_time_layout must not be empty")
	}
	return nil
}

// CommitMessage formats the sync commit message for t.
func (c *Config) CommitMessage(t time.Time) string {
	stamp := t.Format(c.CommitTimeLayout)
	if c.CommitPrefix == "" {
		return stamp
	}
	return c.CommitPrefix + " " + stamp
}

// Selector builds the match.Selector described by the settings.
func (c *Config) Selector() (match.Selector, error) {
	scorer, err := match.NewScorer(c.Matcher)
	if err != nil {
		return match.Selector{}, err
	}
	target, err := match.NewTarget(c.MatchOn)
	if err != nil {
		return match.Selector{}, err
	}
	return match.Selector{Scorer: scorer, Target: target}, nil
}

func loadFile(cfg *Config, path string, required bool) error {
	//nolint:gosec // G304: path comes from the user's own flags or environment
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func readDotenv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return values, nil
}

// lookupFunc prefers the process environment over .env values.
func lookupFunc(dotenv map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup("NOTEMGR_EDITOR"); ok && v != "" {
		cfg.Editor = v
	}
	if v, ok := lookup("NOTEMGR_EXCLUDE_DIRS"); ok {
		cfg.ExcludeDirs = ParseList(v)
	}
	if v, ok := lookup("NOTEMGR_MATCHER"); ok && v != "" {
		cfg.Matcher = v
	}
	if v, ok := lookup("NOTEMGR_MATCH_ON"); ok && v != "" {
		cfg.MatchOn = v
	}
	if v, ok := lookup("NOTEMGR_COMMIT_PREFIX"); ok {
		cfg.CommitPrefix = v
	}
	if v, ok := lookup("NOTEMGR_COMMIT_TIME_LAYOUT"); ok && v != "" {
		cfg.CommitTimeLayout = v
	}
	if v, ok := lookup("NOTEMGR_SYNC"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid NOTEMGR_SYNC: %w", err)
		}
		cfg.Sync = b
	}
	if v, ok := lookup("NOTEMGR_PUSH"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid NOTEMGR_PUSH: %w", err)
		}
		cfg.Push = b
	}
	return nil
}

// ParseList splits a comma- or colon-separated list, dropping blanks.
func ParseList(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ':'
	})
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
