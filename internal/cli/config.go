package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/lockbridge/pkg/errors"
)

// Config is the optional config file.
//
//	[convert]
//	force = false
//	jobs = 4
//
//	[sources]
//	tarball_host = "codeload.github.com"
type Config struct {
	Convert ConvertConfig `toml:"convert"`
	Sources SourcesConfig `toml:"sources"`

	path string // file the config was read from, if any
}

// ConvertConfig holds defaults for the convert command flags.
type ConvertConfig struct {
	Force bool `toml:"force"`
	Jobs  int  `toml:"jobs"`
}

// SourcesConfig configures source reference encoding.
type SourcesConfig struct {
	TarballHost string `toml:"tarball_host"`
}

// configPath returns the default config file location using the XDG
// standard (~/.config/lockbridge/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads the config file at path, or at the default location
// when path is empty. A missing default file yields the zero Config; a
// missing explicit file is an error.
func loadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			return Config{}, nil
		}
		path = p
	}

	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "config %s", path)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errs.New(errs.ErrCodeInvalidConfig, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Convert.Jobs < 0 {
		return Config{}, errs.New(errs.ErrCodeInvalidConfig, "config %s: convert.jobs must not be negative", path)
	}
	if strings.ContainsAny(cfg.Sources.TarballHost, "/:") {
		return Config{}, errs.New(errs.ErrCodeInvalidConfig, "config %s: sources.tarball_host must be a bare host name, got %q", path, cfg.Sources.TarballHost)
	}

	cfg.path = path
	return cfg, nil
}
