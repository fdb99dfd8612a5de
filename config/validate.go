package config

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/teranos/gaspar/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("outputtype", func(fl validator.FieldLevel) bool {
		return IsOutputType(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errors.Newf("%s: failed %q validation (value %v)", configKey(fe.Namespace()), fe.Tag(), fe.Value())
		}
		return errors.Wrap(err, "config validation failed")
	}

	if len(c.Models.Output) == 0 && len(c.Controllers.Output) == 0 {
		return errors.WithHint(errors.New("no outputs configured"),
			"add at least one entry to models.output or controllers.output")
	}

	for i, out := range c.Models.Output {
		if out.Kind() == OutputOcelot {
			return errors.Newf("models.output[%d].type: ocelot only renders controllers", i)
		}
	}

	for i, out := range c.Controllers.Output {
		kind := out.Kind()
		if kind == OutputTypeScript || kind == OutputProto {
			return errors.Newf("controllers.output[%d].type: %s only renders models", i, out.Type)
		}
		if kind == OutputOcelot && c.Controllers.ServiceName == "" {
			return errors.Newf("controllers.serviceName cannot be empty when controllers.output[%d] is ocelot", i)
		}
		if kind == OutputAngular && c.Controllers.ServiceName == "" {
			return errors.Newf("controllers.serviceName cannot be empty when controllers.output[%d] is angular", i)
		}
	}

	if c.Models.StringLiteralTypesInsteadOfEnums && c.Models.NumericEnums {
		return errors.New("models.numericEnums and models.stringLiteralTypesInsteadOfEnums are mutually exclusive")
	}

	return nil
}

// configKey turns a validator namespace ("Config.Models.Selection.Output[0].Type")
// into the camelCase key path used in config files ("models.output[0].type").
func configKey(namespace string) string {
	parts := strings.Split(namespace, ".")
	var out []string
	for i, p := range parts {
		if i == 0 || p == "Selection" {
			continue
		}
		out = append(out, lowerFirst(p))
	}
	key := strings.Join(out, ".")
	key = strings.ReplaceAll(key, "uRLPrefix", "urlPrefix")
	return key
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
