// Package ocelot renders controller routes as an Ocelot API gateway
// routing document.
package ocelot

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/teranos/gaspar/config"
	"github.com/teranos/gaspar/errors"
	"github.com/teranos/gaspar/ir"
)

// AuthenticationProviderKey is the Ocelot authentication scheme every route uses
const AuthenticationProviderKey = "Bearer"

// Converter renders ocelot.json route documents
type Converter struct {
	controllers config.ControllerConfig
	indent      int
}

// New creates an Ocelot converter
func New(cfg *config.Config) *Converter {
	return &Converter{controllers: cfg.Controllers}
}

// Comment emits nothing: the document is strict JSON
func (c *Converter) Comment(text string, followingBlankLines int) []string {
	return nil
}

// ControllerHelperFile is empty
func (c *Converter) ControllerHelperFile(out config.Output) ([]string, error) {
	return []string{}, nil
}

// ControllerHeader opens the Routes array
func (c *Converter) ControllerHeader(out config.Output, customTypes []string) ([]string, error) {
	c.indent += 2
	return []string{
		"{",
		`    "Routes": [`,
		"",
	}, nil
}

// ControllerFooter closes the Routes array
func (c *Converter) ControllerFooter() ([]string, error) {
	c.indent -= 2
	return []string{
		"    ]",
		"}",
	}, nil
}

// Route is one gateway rule: a path pattern and a verb
type Route struct {
	Path   string
	Method string
}

// Routes collapses actions into unique gateway rules. Everything from the
// first placeholder on becomes the catch-all "{url}", so "users/{id}" and
// "users/{name}" under the same verb share one rule.
func Routes(actions []ir.ControllerAction) []Route {
	var out []Route
	seen := make(map[Route]bool)
	for _, a := range actions {
		r := Route{Path: a.Route, Method: a.HTTPMethod}
		if i := strings.Index(a.Route, "{"); i >= 0 {
			r.Path = a.Route[:i] + "{url}"
		}
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

// Scopes returns the quoted scope list for a verb: reads need read, write or
// admin; POST and PUT need write or admin; everything else needs admin.
func Scopes(service, method string) string {
	scopes := fmt.Sprintf(`"%s.admin"`, service)
	if method == "POST" || method == "PUT" || method == "GET" {
		scopes = fmt.Sprintf(`"%s.write", %s`, service, scopes)
	}
	if method == "GET" {
		scopes = fmt.Sprintf(`"%s.read", %s`, service, scopes)
	}
	return scopes
}

// ConvertController renders one rule per unique (route, verb). The trailing
// comma is dropped on the last rule of the last controller.
func (c *Converter) ConvertController(actions []ir.ControllerAction, outputClassName string, out config.Output, lastController bool) ([]string, error) {
	var lines []string

	routes := Routes(actions)
	service := c.controllers.ServiceName
	for i, r := range routes {
		lastAction := i == len(routes)-1

		lines = append(lines,
			"        {",
			fmt.Sprintf(`            "DownstreamPathTemplate": "/%s",`, r.Path),
			fmt.Sprintf(`            "DownstreamScheme": "%s",`, c.controllers.Scheme()),
			`            "DownstreamHostAndPorts": [{`,
			fmt.Sprintf(`                "Host": "%s",`, c.controllers.Host()),
			fmt.Sprintf(`                "Port": %d`, c.controllers.ServicePort),
			"            }],",
			fmt.Sprintf(`            "UpstreamPathTemplate": "%s/%s",`, out.URLPrefix, r.Path),
			fmt.Sprintf(`            "UpstreamHttpMethod": [ "%s" ]%s`, r.Method, comma(!out.NoAuth)),
		)
		if !out.NoAuth {
			lines = append(lines,
				`            "AuthenticationOptions": {`,
				fmt.Sprintf(`                "AuthenticationProviderKey": "%s"%s`, AuthenticationProviderKey, comma(!out.ExcludeScopes)),
			)
			if !out.ExcludeScopes {
				lines = append(lines, fmt.Sprintf(`                "AllowedScopes": [ %s ]`, Scopes(service, r.Method)))
			}
			lines = append(lines, "            }")
		}
		lines = append(lines, "        }"+comma(!(lastAction && lastController)))
	}

	lines = append(lines, "")
	return lines, nil
}

func comma(b bool) string {
	if b {
		return ","
	}
	return ""
}

// Validate checks that the assembled document is well-formed JSON
func (c *Converter) Validate(lines []string) error {
	doc := []byte(strings.Join(lines, "\n"))
	if !jsoniter.Valid(doc) {
		return errors.WithHint(
			errors.New("generated ocelot document is not valid JSON"),
			"check that controllers.serviceName and output.urlPrefix contain no quotes")
	}

	var parsed struct {
		Routes []jsoniter.RawMessage `json:"Routes"`
	}
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(doc, &parsed); err != nil {
		return errors.Wrap(err, "generated ocelot document has no Routes array")
	}
	return nil
}

// ModelHeader is not supported: gateway documents carry no models
func (c *Converter) ModelHeader(out config.Output) ([]string, error) {
	return nil, errors.UnsupportedOperation("ocelot", "ModelHeader")
}

// ConvertModel is not supported
func (c *Converter) ConvertModel(m ir.Model) ([]string, error) {
	return nil, errors.UnsupportedOperation("ocelot", "ConvertModel")
}

// ConvertEnum is not supported
func (c *Converter) ConvertEnum(e ir.EnumModel) ([]string, error) {
	return nil, errors.UnsupportedOperation("ocelot", "ConvertEnum")
}
