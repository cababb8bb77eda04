package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up when none is given.
const DefaultFile = ".lintrun.yaml"

const defaultCheckerTimeout = 5 * time.Minute

var ErrInvalid = errors.New("invalid configuration")

// Checker describes one external style checker to run inside the prepared
// context. Args are passed through untouched so a checker's own defaults
// and ignore-file conventions apply.
type Checker struct {
	Name    string   `yaml:"name"`
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
	Timeout Duration `yaml:"timeout"`
}

// Watch tunes watch mode.
type Watch struct {
	// Extensions are the file suffixes that trigger a re-run.
	Extensions []string `yaml:"extensions"`
	// Debounce coalesces bursts of write events into one run.
	Debounce   Duration `yaml:"debounce"`
}

// Config is the .lintrun.yaml file.
type Config struct {
	Name       string    `yaml:"name"`
	ProjectDir string    `yaml:"project_dir"`
	EnvDir     string    `yaml:"env_dir"`
	Checkers   []Checker `yaml:"checkers"`
	Watch      Watch     `yaml:"watch"`
}

// Default is the configuration used when no file is present: a single
// flake8 pass over the project tree, checkers resolved from an in-tree
// .venv environment.
func Default() Config {
	return Config{
		Name:       "lintrun",
		ProjectDir: ".",
		EnvDir:     ".venv",
		Checkers: []Checker{
			{
				Name:    "flake8",
				Command: "flake8",
				Args:    []string{"."},
				Timeout: Duration(defaultCheckerTimeout),
			},
		},
		Watch: Watch{
			Extensions: []string{".py"},
			Debounce:   Duration(100 * time.Millisecond),
		},
	}
}

// Load reads the configuration at path. An empty path means "use the
// default file if it exists, otherwise the built-in defaults". A path the
// caller named explicitly must exist and parse.
func Load(path string) (Config, error) {
	explicit := path != ""
	if path == "" {
		path = DefaultFile
	}

	f, err := os.Open(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	defer f.Close()

	cfg := Default()
	cfg.Checkers = nil
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: parsing %s: %v", ErrInvalid, path, err)
	}
	if len(cfg.Checkers) == 0 {
		cfg.Checkers = Default().Checkers
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes the configuration to path, creating or replacing the file.
func Save(cfg Config, path string) error {
	if path == "" {
		path = DefaultFile
	}
	d, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(d)
	return err
}

// Validate rejects configurations that cannot produce a meaningful run.
func (c Config) Validate() error {
	if c.ProjectDir == "" {
		return fmt.Errorf("%w: project_dir must not be empty", ErrInvalid)
	}
	if c.EnvDir == "" {
		return fmt.Errorf("%w: env_dir must not be empty", ErrInvalid)
	}
	for i, ch := range c.Checkers {
		if ch.Command == "" {
			return fmt.Errorf("%w: checker %d has no command", ErrInvalid, i)
		}
		if ch.Timeout < 0 {
			return fmt.Errorf("%w: checker %q has negative timeout", ErrInvalid, ch.Name)
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.ProjectDir == "" {
		c.ProjectDir = "."
	}
	if c.EnvDir == "" {
		c.EnvDir = ".venv"
	}
	for i := range c.Checkers {
		if c.Checkers[i].Name == "" {
			c.Checkers[i].Name = c.Checkers[i].Command
		}
		if c.Checkers[i].Timeout == 0 {
			c.Checkers[i].Timeout = Duration(defaultCheckerTimeout)
		}
	}
	if len(c.Watch.Extensions) == 0 {
		c.Watch.Extensions = []string{".py"}
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = Duration(100 * time.Millisecond)
	}
}
