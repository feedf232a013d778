package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	sgerrors "github.com/sisugv/sisugv/pkg/errors"
	"github.com/sisugv/sisugv/pkg/sisu"
)

// Environment variables that override the config file.
const (
	envAPIURL           = "SISUGV_API_URL"
	envUniversityID     = "SISUGV_UNIVERSITY_ID"
	envCurriculumPrefix = "SISUGV_CURRICULUM_PREFIX"
	envCacheURL         = "SISUGV_CACHE_URL"
	envLanguage         = "SISUGV_LANG"
	envRetries          = "SISUGV_RETRIES"
)

// Config holds settings that can come from the config file or the
// environment. Command-line flags override both.
type Config struct {
	APIURL           string   `toml:"api_url"`
	UniversityID     string   `toml:"university_id"`
	CurriculumPrefix string   `toml:"curriculum_prefix"`
	Language         string   `toml:"language"`
	CacheURL         string   `toml:"cache_url"`
	CacheDir         string   `toml:"cache_dir"`
	Retries          int      `toml:"retries"`
	AlsoRecommended  bool     `toml:"also_recommended"`
	TableLabels      bool     `toml:"table_labels"`
	Blacklist        []string `toml:"blacklist"`
	ExtraData        string   `toml:"extradata"`
}

func defaultConfig() Config {
	return Config{
		APIURL:       sisu.DefaultBaseURL,
		UniversityID: sisu.DefaultUniversityID,
	}
}

// loadConfig reads the TOML file at path on top of the defaults. A missing
// file is fine unless the path was given explicitly. Unknown keys and
// syntax errors are CONFIG_ERROR coded errors.
func loadConfig(path string, explicit bool) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return defaultConfig(), nil
		}
		return cfg, sgerrors.Wrap(sgerrors.ErrCodeConfig, err, "cannot read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, sgerrors.New(sgerrors.ErrCodeConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if cfg.CacheDir != "" && !filepath.IsAbs(cfg.CacheDir) {
		cfg.CacheDir = filepath.Join(filepath.Dir(path), cfg.CacheDir)
	}
	return cfg, nil
}

// applyEnv overrides cfg with the SISUGV_* environment variables that are
// set.
func applyEnv(cfg *Config, getenv func(string) string) error {
	for env, dst := range map[string]*string{
		envAPIURL:           &cfg.APIURL,
		envUniversityID:     &cfg.UniversityID,
		envCurriculumPrefix: &cfg.CurriculumPrefix,
		envCacheURL:         &cfg.CacheURL,
		envLanguage:         &cfg.Language,
	} {
		if v := strings.TrimSpace(getenv(env)); v != "" {
			*dst = v
		}
	}
	if v := strings.TrimSpace(getenv(envRetries)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return sgerrors.New(sgerrors.ErrCodeConfig, "%s must be a non-negative integer, got %q", envRetries, v)
		}
		cfg.Retries = n
	}
	return nil
}

func (c Config) validate() error {
	if err := sgerrors.ValidateURL(c.APIURL); err != nil {
		return sgerrors.Wrap(sgerrors.ErrCodeConfig, err, "invalid API URL %q", c.APIURL)
	}
	if c.Retries < 0 {
		return sgerrors.New(sgerrors.ErrCodeConfig, "retries must not be negative")
	}
	return nil
}

// configPath returns the default config file path
// ($XDG_CONFIG_HOME/sisugv/config.toml).
func configPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}
