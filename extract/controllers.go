package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/teranos/gaspar/decl"
	"github.com/teranos/gaspar/ir"
	"github.com/teranos/gaspar/logger"
)

// ControllerSuffix is stripped from controller names to form output names
const ControllerSuffix = "Controller"

// httpVerbs maps verb attributes to HTTP methods, in lookup order
var httpVerbs = []struct {
	attr   string
	method string
}{
	{"HttpGet", "GET"},
	{"HttpPost", "POST"},
	{"HttpPut", "PUT"},
	{"HttpDelete", "DELETE"},
	{"HttpPatch", "PATCH"},
}

// Broken-action reasons
const (
	ReasonMultipleBodies   = "more than one [FromBody] parameter"
	ReasonFormParameter    = "form parameters are not supported"
	ReasonHeaderParameter  = "header parameters are not supported"
	reasonUnboundRouteTmpl = "route parameter {%s} has no matching method parameter"
)

// IsController reports whether td is an HTTP controller: a public
// non-abstract class named *Controller or attributed [ApiController].
func IsController(td decl.TypeDecl) bool {
	if td.Kind != decl.KindClass || !td.Modifiers.Public() || td.Modifiers.Has("abstract") {
		return false
	}
	return strings.HasSuffix(td.Name, ControllerSuffix) || td.Attributes.Has("ApiController")
}

// ExtractController projects a controller class and its actions. It returns
// false when the class is not a controller or no action is exported.
func (x *Extractor) ExtractController(source string, td decl.TypeDecl) (*ir.Controller, bool) {
	if !IsController(td) {
		return nil, false
	}
	export, exported := x.resolver.Resolve(td.Attributes)

	c := &ir.Controller{
		Name:       td.Name,
		OutputName: strings.TrimSuffix(td.Name, ControllerSuffix),
		Export:     export,
		Source:     source,
	}
	classRoute := ""
	if a, ok := td.Attributes.Find("Route"); ok {
		if tmpl, ok := a.Positional(0); ok {
			classRoute = replaceToken(decl.Unquote(tmpl), "controller", c.OutputName)
		}
	}

	seen := map[string]int{}
	for _, m := range td.Methods {
		action, ok := x.action(c, classRoute, m, export, exported)
		if !ok {
			continue
		}
		seen[action.OutputActionName]++
		if n := seen[action.OutputActionName]; n > 1 {
			action.OutputActionName = fmt.Sprintf("%s%d", action.OutputActionName, n)
		}
		if action.IsBroken() {
			x.log.Debugw("Controller action is broken, emitting stub",
				logger.FieldController, c.Name, logger.FieldAction, action.ActionName,
				logger.FieldReason, action.BadMethodReason)
		}
		c.Actions = append(c.Actions, action)
	}

	if len(c.Actions) == 0 {
		x.log.Debugw("Skipping controller without exported actions",
			logger.FieldController, c.Name, logger.FieldFile, source)
		return nil, false
	}
	return c, true
}

func (x *Extractor) action(c *ir.Controller, classRoute string, m decl.Method, parent ir.ExportDescriptor, parentOK bool) (ir.ControllerAction, bool) {
	if !m.Modifiers.Public() || m.Modifiers.Static() || m.Attributes.Has("NonAction") {
		return ir.ControllerAction{}, false
	}
	verb, template, ok := httpVerb(m.Attributes)
	if !ok {
		return ir.ControllerAction{}, false
	}
	export, ok := x.resolver.ResolveAction(m.Attributes, parent, parentOK)
	if !ok {
		return ir.ControllerAction{}, false
	}

	a := ir.ControllerAction{
		ActionName:         m.Name,
		OutputActionName:   m.Name,
		HTTPMethod:         verb,
		ReturnType:         UnwrapReturnType(m.ReturnType),
		ReturnTypeOverride: export.ReturnTypeOverride,
		Export:             export,
	}
	if an, ok := m.Attributes.Find("ActionName"); ok {
		if v, ok := an.Positional(0); ok && decl.Unquote(v) != "" {
			a.OutputActionName = decl.Unquote(v)
		}
	}
	if template == "" {
		if r, ok := m.Attributes.Find("Route"); ok {
			if v, ok := r.Positional(0); ok {
				template = decl.Unquote(v)
			}
		}
	}
	template = replaceToken(template, "action", a.OutputActionName)
	a.Route = CombineRoutes(classRoute, template)

	var reasons []string
	addReason := func(r string) {
		for _, have := range reasons {
			if have == r {
				return
			}
		}
		reasons = append(reasons, r)
	}

	placeholders := RouteParameters(a.Route)
	inRoute := map[string]bool{}
	for _, p := range placeholders {
		inRoute[strings.ToLower(p)] = true
	}
	bound := map[string]string{}
	bodies := 0

	for _, p := range m.Parameters {
		switch {
		case isServiceParameter(p):
			continue
		case p.Attributes.Has("FromBody"):
			bodies++
			a.BodyType = p.Type
			continue
		case p.Attributes.Has("FromForm") || isFormFile(p.Type):
			addReason(ReasonFormParameter)
			continue
		case p.Attributes.Has("FromHeader"):
			addReason(ReasonHeaderParameter)
			continue
		}

		param := ir.Parameter{Identifier: p.Name, Type: p.Type, DefaultValue: p.Default}
		if p.Attributes.Has("FromRoute") || inRoute[strings.ToLower(p.Name)] {
			bound[strings.ToLower(p.Name)] = p.Name
		} else {
			param.IsQuery = true
		}
		a.Parameters = append(a.Parameters, param)
	}

	if bodies > 1 {
		addReason(ReasonMultipleBodies)
	}
	for _, ph := range placeholders {
		if _, ok := bound[strings.ToLower(ph)]; !ok {
			addReason(fmt.Sprintf(reasonUnboundRouteTmpl, ph))
		}
	}
	a.Route = renamePlaceholders(a.Route, bound)
	a.BadMethodReason = strings.Join(reasons, "; ")
	return a, true
}

// httpVerb finds the verb attribute and its template
func httpVerb(attrs decl.Attributes) (method, template string, ok bool) {
	for _, v := range httpVerbs {
		a, found := attrs.Find(v.attr)
		if !found {
			continue
		}
		if t, ok := a.Positional(0); ok {
			template = decl.Unquote(t)
		} else if t, ok := a.Named("template"); ok {
			template = decl.Unquote(t)
		}
		return v.method, template, true
	}
	return "", "", false
}

func isServiceParameter(p decl.Parameter) bool {
	if p.Attributes.Has("FromServices") {
		return true
	}
	t := p.Type
	if i := strings.LastIndex(t, "."); i >= 0 {
		t = t[i+1:]
	}
	return t == "CancellationToken"
}

func isFormFile(t string) bool {
	return strings.Contains(t, "IFormFile")
}

var tokenPattern = regexp.MustCompile(`(?i)\[(controller|action)\]`)

// replaceToken substitutes the [controller] or [action] route token
func replaceToken(template, token, value string) string {
	return tokenPattern.ReplaceAllStringFunc(template, func(m string) string {
		if strings.EqualFold(m[1:len(m)-1], token) {
			return value
		}
		return m
	})
}

var placeholderPattern = regexp.MustCompile(`\{\*{0,2}([A-Za-z_][A-Za-z0-9_]*)[^}]*\}`)

// CombineRoutes joins a controller template and an action template. An
// action template starting with "/" or "~/" replaces the controller's.
// Constraints, defaults and optional markers are stripped from
// placeholders: "{id:int?}" becomes "{id}".
func CombineRoutes(classRoute, actionRoute string) string {
	var route string
	switch {
	case strings.HasPrefix(actionRoute, "~/"):
		route = actionRoute[2:]
	case strings.HasPrefix(actionRoute, "/"):
		route = actionRoute
	case classRoute == "":
		route = actionRoute
	case actionRoute == "":
		route = classRoute
	default:
		route = strings.TrimRight(classRoute, "/") + "/" + strings.TrimLeft(actionRoute, "/")
	}
	route = strings.Trim(route, "/")
	return placeholderPattern.ReplaceAllString(route, "{$1}")
}

// renamePlaceholders spells each placeholder like the parameter bound to
// it, so clients can interpolate the parameter by name: "{Id}" -> "{id}".
func renamePlaceholders(route string, bound map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(route, func(m string) string {
		name := placeholderPattern.FindStringSubmatch(m)[1]
		if ident, ok := bound[strings.ToLower(name)]; ok {
			return "{" + ident + "}"
		}
		return m
	})
}

// RouteParameters returns the placeholder names of a normalised route
func RouteParameters(route string) []string {
	var out []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(route, -1) {
		out = append(out, m[1])
	}
	return out
}

var voidReturns = map[string]bool{
	"void":          true,
	"Task":          true,
	"ValueTask":     true,
	"IActionResult": true,
	"ActionResult":  true,
}

var returnWrappers = []string{"Task", "ValueTask", "ActionResult"}

// UnwrapReturnType strips Task<>, ValueTask<> and ActionResult<> wrappers;
// untyped results become "void".
func UnwrapReturnType(t string) string {
	t = strings.TrimSpace(t)
	for {
		name, inner, generic := splitGeneric(t)
		if !generic {
			if voidReturns[shortName(t)] {
				return "void"
			}
			return t
		}
		unwrapped := false
		for _, w := range returnWrappers {
			if shortName(name) == w {
				t = inner
				unwrapped = true
				break
			}
		}
		if !unwrapped {
			return t
		}
	}
}

// splitGeneric splits "Name<Inner>" into its parts
func splitGeneric(t string) (name, inner string, ok bool) {
	open := strings.IndexByte(t, '<')
	if open < 0 || !strings.HasSuffix(t, ">") {
		return t, "", false
	}
	return strings.TrimSpace(t[:open]), strings.TrimSpace(t[open+1 : len(t)-1]), true
}

func shortName(t string) string {
	if i := strings.LastIndex(t, "."); i >= 0 {
		return t[i+1:]
	}
	return t
}
