package config

import (
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/teranos/gaspar/errors"
)

// EnvPrefix prefixes environment overrides, e.g. GASPAR_CONTROLLERS_SERVICEPORT
const EnvPrefix = "GASPAR"

// Load reads the configuration from path, or from the first gaspar.* file
// found walking up from the working directory when path is empty.
func Load(path string) (*Config, error) {
	if path == "" {
		path = FindProjectConfig()
		if path == "" {
			return nil, errors.WithHint(
				errors.Newf("no configuration file found (looked for %s)", strings.Join(ConfigFileNames, ", ")),
				"run 'gaspar init' to create one, or pass --config")
		}
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}

	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal config from %s", path)
	}

	// Viper folds keys to lower case; type names are case-sensitive
	translations, err := readTranslations(path)
	if err != nil {
		return nil, err
	}
	cfg.CustomTypeTranslations = translations

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	cfg.Path = abs

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if cfg.Controllers.ServiceHost == "" {
		cfg.Controllers.ServiceHost = cfg.Controllers.ServiceName
	}
	for i := range cfg.Models.Output {
		cfg.Models.Output[i].Type = cfg.Models.Output[i].Kind()
	}
	for i := range cfg.Controllers.Output {
		cfg.Controllers.Output[i].Type = cfg.Controllers.Output[i].Kind()
	}
	return &cfg, nil
}

// newViper initializes Viper with environment binding and defaults
func newViper() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
	return v
}

// FindProjectConfig searches for a gaspar config file by walking up the
// directory tree. Returns "" when none is found.
func FindProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return findConfigFrom(dir)
}

func findConfigFrom(dir string) string {
	for {
		for _, name := range ConfigFileNames {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return ""
		}
		dir = parent
	}
}

// Dir is the directory relative paths resolve against
func (c *Config) Dir() string {
	if c.Path == "" {
		wd, _ := os.Getwd()
		return wd
	}
	return filepath.Dir(c.Path)
}

// Resolve makes p absolute relative to the config file's directory
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir(), p)
}

// RootDir is the absolute source root
func (c *Config) RootDir() string {
	root := c.Root
	if root == "" {
		root = "."
	}
	return c.Resolve(root)
}

// MarkerAttribute is the attribute gating exports. onlyWhenAttributed may
// name the attribute or be a flag-like value ("true"), which selects the
// default ExportFor marker.
func (c *Config) MarkerAttribute() string {
	switch strings.ToLower(strings.TrimSpace(c.OnlyWhenAttributed)) {
	case "", "true", "yes", "1":
		return DefaultMarkerAttribute
	}
	return strings.TrimSpace(c.OnlyWhenAttributed)
}

// readTranslations decodes customTypeTranslations straight from the file so
// the keys keep their case.
func readTranslations(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}

	var doc struct {
		CustomTypeTranslations map[string]string `json:"customTypeTranslations" yaml:"customTypeTranslations" toml:"customTypeTranslations"`
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &doc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	case ".toml":
		err = toml.Unmarshal(data, &doc)
	default:
		return nil, errors.Newf("unsupported config file extension %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode customTypeTranslations in %s", path)
	}
	return doc.CustomTypeTranslations, nil
}
