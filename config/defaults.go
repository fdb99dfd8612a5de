package config

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("root", ".")
	v.SetDefault("onlyWhenAttributed", "")

	// Models
	v.SetDefault("models.include", []string{"**/*.cs"})
	v.SetDefault("models.camelCaseEnums", false)
	v.SetDefault("models.numericEnums", false)
	v.SetDefault("models.stringLiteralTypesInsteadOfEnums", false)

	// Controllers
	v.SetDefault("controllers.include", []string{"**/*Controller.cs"})
	v.SetDefault("controllers.serviceScheme", DefaultServiceScheme)
	v.SetDefault("controllers.servicePort", 80)
}

// ConfigFileNames are the file names searched for, in preference order
var ConfigFileNames = []string{"gaspar.json", "gaspar.yaml", "gaspar.yml", "gaspar.toml"}
