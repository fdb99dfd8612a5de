// Package config loads and validates the generator configuration.
package config

import "strings"

// Output types
const (
	OutputAngular    = "angular"
	OutputTypeScript = "typescript"
	OutputOcelot     = "ocelot"
	OutputProto      = "proto"
	OutputCSharp     = "csharp"
)

// OutputTypes lists every accepted output type
var OutputTypes = []string{OutputAngular, OutputTypeScript, OutputOcelot, OutputProto, OutputCSharp}

// IsOutputType reports whether t names an output type, ignoring case
func IsOutputType(t string) bool {
	t = strings.ToLower(strings.TrimSpace(t))
	for _, known := range OutputTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Default values applied when the configuration omits them
const (
	DefaultMarkerAttribute     = "ExportFor"
	DefaultServiceScheme       = "http"
	DefaultErrorMessageGeneric = "Generic"
)

// Config represents the gaspar configuration
type Config struct {
	// Path of the file the configuration was read from; relative paths
	// (root, output locations) resolve against its directory
	Path string `mapstructure:"-" toml:"-" yaml:"-"`

	Root                   string            `mapstructure:"root" toml:"root" yaml:"root"`
	OnlyWhenAttributed     string            `mapstructure:"onlyWhenAttributed" toml:"onlyWhenAttributed" yaml:"onlyWhenAttributed"`
	CustomTypeTranslations map[string]string `mapstructure:"customTypeTranslations" toml:"customTypeTranslations,omitempty" yaml:"customTypeTranslations,omitempty"`

	Models      ModelConfig      `mapstructure:"models" toml:"models" yaml:"models"`
	Controllers ControllerConfig `mapstructure:"controllers" toml:"controllers" yaml:"controllers"`
}

// UseAttribute reports whether exports are gated on a marker attribute.
// "false", "no" and "0" switch gating off like an empty value.
func (c *Config) UseAttribute() bool {
	switch strings.ToLower(strings.TrimSpace(c.OnlyWhenAttributed)) {
	case "", "false", "no", "0":
		return false
	}
	return true
}

// Selection is the include/exclude/output triple shared by models and controllers
type Selection struct {
	Include []string `mapstructure:"include" toml:"include" yaml:"include"`
	Exclude []string `mapstructure:"exclude" toml:"exclude,omitempty" yaml:"exclude,omitempty"`
	Output  []Output `mapstructure:"output" toml:"output" yaml:"output" validate:"dive"`
}

// ModelConfig configures model and enum generation
type ModelConfig struct {
	Selection                        `mapstructure:",squash" yaml:",inline"`
	CamelCaseEnums                   bool `mapstructure:"camelCaseEnums" toml:"camelCaseEnums" yaml:"camelCaseEnums"`
	NumericEnums                     bool `mapstructure:"numericEnums" toml:"numericEnums" yaml:"numericEnums"`
	StringLiteralTypesInsteadOfEnums bool `mapstructure:"stringLiteralTypesInsteadOfEnums" toml:"stringLiteralTypesInsteadOfEnums" yaml:"stringLiteralTypesInsteadOfEnums"`
}

// ControllerConfig configures controller generation
type ControllerConfig struct {
	Selection     `mapstructure:",squash" yaml:",inline"`
	ServiceName   string `mapstructure:"serviceName" toml:"serviceName" yaml:"serviceName"`
	ServiceHost   string `mapstructure:"serviceHost" toml:"serviceHost,omitempty" yaml:"serviceHost,omitempty"`
	ServiceScheme string `mapstructure:"serviceScheme" toml:"serviceScheme,omitempty" yaml:"serviceScheme,omitempty" validate:"omitempty,oneof=http https"`
	ServicePort   int    `mapstructure:"servicePort" toml:"servicePort" yaml:"servicePort" validate:"gte=0,lte=65535"`
	SecureService bool   `mapstructure:"secureService" toml:"secureService,omitempty" yaml:"secureService,omitempty"`
	Gateway       string `mapstructure:"gateway" toml:"gateway,omitempty" yaml:"gateway,omitempty"`
}

// Host is the downstream host, falling back to the service name
func (c ControllerConfig) Host() string {
	if c.ServiceHost != "" {
		return c.ServiceHost
	}
	return c.ServiceName
}

// Scheme is the downstream scheme; secureService forces https
func (c ControllerConfig) Scheme() string {
	if c.SecureService {
		return "https"
	}
	if c.ServiceScheme != "" {
		return c.ServiceScheme
	}
	return DefaultServiceScheme
}

// Output is one generated artifact
type Output struct {
	Type     string `mapstructure:"type" toml:"type" yaml:"type" validate:"required,outputtype"`
	Location string `mapstructure:"location" toml:"location" yaml:"location" validate:"required"`

	// Angular
	HelperFile          string `mapstructure:"helperFile" toml:"helperFile,omitempty" yaml:"helperFile,omitempty"`
	ModelPath           string `mapstructure:"modelPath" toml:"modelPath,omitempty" yaml:"modelPath,omitempty"`
	ErrorHandlerPath    string `mapstructure:"errorHandlerPath" toml:"errorHandlerPath,omitempty" yaml:"errorHandlerPath,omitempty"`
	DefaultErrorMessage string `mapstructure:"defaultErrorMessage" toml:"defaultErrorMessage,omitempty" yaml:"defaultErrorMessage,omitempty"`

	// Angular and Ocelot
	URLPrefix string `mapstructure:"urlPrefix" toml:"urlPrefix,omitempty" yaml:"urlPrefix,omitempty"`

	// Proto
	PackageNamespace string `mapstructure:"packageNamespace" toml:"packageNamespace,omitempty" yaml:"packageNamespace,omitempty"`

	// Ocelot
	NoAuth        bool `mapstructure:"noAuth" toml:"noAuth,omitempty" yaml:"noAuth,omitempty"`
	ExcludeScopes bool `mapstructure:"excludeScopes" toml:"excludeScopes,omitempty" yaml:"excludeScopes,omitempty"`
}

// Kind returns the output type in its canonical lower-case spelling;
// files written for the PascalCase enum ("TypeScript") are accepted.
func (o Output) Kind() string {
	return strings.ToLower(strings.TrimSpace(o.Type))
}

// ErrorMessage is the default error message mode, Generic when unset
func (o Output) ErrorMessage() string {
	if o.DefaultErrorMessage == "" {
		return DefaultErrorMessageGeneric
	}
	return o.DefaultErrorMessage
}
