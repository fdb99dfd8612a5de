package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/gaspar/errors"
)

// Sample is the starter configuration written by 'gaspar init'
func Sample() *Config {
	return &Config{
		Root:               ".",
		OnlyWhenAttributed: DefaultMarkerAttribute,
		CustomTypeTranslations: map[string]string{
			"JsonElement": "any",
		},
		Models: ModelConfig{
			Selection: Selection{
				Include: []string{"**/Models/**/*.cs"},
				Output: []Output{
					{Type: OutputTypeScript, Location: "generated/models.ts"},
					{Type: OutputProto, Location: "generated/models.proto", PackageNamespace: "api"},
				},
			},
			NumericEnums: true,
		},
		Controllers: ControllerConfig{
			Selection: Selection{
				Include: []string{"**/Controllers/**/*.cs"},
				Output: []Output{
					{Type: OutputAngular, Location: "generated/api.service.ts", ModelPath: "./models"},
					{Type: OutputOcelot, Location: "generated/ocelot.json"},
				},
			},
			ServiceName:   "api",
			ServiceScheme: DefaultServiceScheme,
			ServicePort:   80,
		},
	}
}

// WriteSample writes the sample configuration to path. The format follows
// the extension (.toml, .yaml, .yml) unless format is given explicitly.
// Existing files are never overwritten.
func WriteSample(path, format string) error {
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(path), ".")
	}

	if _, err := os.Stat(path); err == nil {
		return errors.WithHint(errors.Newf("%s already exists", path), "remove it first or choose another path")
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(format) {
	case "toml":
		data, err = toml.Marshal(Sample())
	case "yaml", "yml":
		data, err = yaml.Marshal(Sample())
	default:
		return errors.Newf("unsupported config format %q (use toml or yaml)", format)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to encode sample config as %s", format)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.Wrapf(err, "failed to create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
