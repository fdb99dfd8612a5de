// Package angular renders controllers as an Angular HttpClient service
// namespace. Models and enums are delegated to the TypeScript converter.
package angular

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/teranos/gaspar/config"
	"github.com/teranos/gaspar/ir"
	"github.com/teranos/gaspar/typegen/typescript"
)

// Error message modes understood by the generated ServiceErrorHelper
const (
	ErrorMessageNone           = "None"
	ErrorMessageGeneric        = "Generic"
	ErrorMessageServerResponse = "ServerResponse"
)

// Converter renders Angular service clients
type Converter struct {
	ts          *typescript.Converter
	serviceName string
	indent      int
}

// New creates an Angular converter
func New(cfg *config.Config) *Converter {
	return &Converter{
		ts:          typescript.New(cfg),
		serviceName: cfg.Controllers.ServiceName,
	}
}

// Comment renders a line comment at the current indentation
func (c *Converter) Comment(text string, followingBlankLines int) []string {
	lines := []string{strings.Repeat(" ", c.indent*4) + "//" + text}
	for i := 0; i < followingBlankLines; i++ {
		lines = append(lines, "")
	}
	return lines
}

// ModelHeader is empty
func (c *Converter) ModelHeader(out config.Output) ([]string, error) {
	return []string{}, nil
}

// ConvertModel delegates to the TypeScript converter
func (c *Converter) ConvertModel(m ir.Model) ([]string, error) {
	return c.ts.ConvertModel(m)
}

// ConvertEnum delegates to the TypeScript converter
func (c *Converter) ConvertEnum(e ir.EnumModel) ([]string, error) {
	return c.ts.ConvertEnum(e)
}

// ControllerHelperFile renders the shared response and error helpers. It is
// inlined into the client when no helper file is configured.
func (c *Converter) ControllerHelperFile(out config.Output) ([]string, error) {
	hasHandler := out.ErrorHandlerPath != ""

	lines := []string{
		`import { Injectable } from "@angular/core";`,
		`import { of } from "rxjs";`,
	}
	if hasHandler {
		lines = append(lines, fmt.Sprintf(`import { ServiceErrorHandler } from "%s";`, out.ErrorHandlerPath))
	}
	lines = append(lines,
		"",
		"export class ServiceResponse<T> {",
		"    data: T | null;",
		"    error: ActionResultError | null;",
		"    success: boolean;",
		"    hasError: boolean;",
		"    constructor(data: T | null, error: ActionResultError | null) {",
		"        this.data = data;",
		"        this.error = error;",
		"        this.success = error == null;",
		"        this.hasError = error != null;",
		"    }",
		"}",
		"export interface ActionResultError {",
		"    detail: string,",
		"    instance: string,",
		"    status: number,",
		"    title: string,",
		"    traceId: string,",
		"    type: string,",
		"}",
		"export enum ServiceErrorMessage {",
		"    "+ErrorMessageNone+",",
		"    "+ErrorMessageGeneric+",",
		"    "+ErrorMessageServerResponse+",",
		"}",
		"",
		"@Injectable({ providedIn: 'root' })",
		"export class ServiceErrorHelper {",
	)
	if hasHandler {
		lines = append(lines,
			"    constructor(private errorHandler: ServiceErrorHandler) {",
			"    }",
		)
	}
	lines = append(lines, "    handler<T>(error: ActionResultError, showError: ServiceErrorMessage) {")
	if hasHandler {
		lines = append(lines,
			"        if (showError != ServiceErrorMessage.None) {",
			"            this.errorHandler.showError(showError == ServiceErrorMessage.ServerResponse && error?.detail ? error.detail : null);",
			"        }",
		)
	}
	lines = append(lines,
		"        return of(new ServiceResponse<T>(null, error));",
		"    }",
		"}",
		"",
	)
	return lines, nil
}

// ControllerHeader renders imports and opens the service namespace.
// customTypes are the raw type expressions used by the actions.
func (c *Converter) ControllerHeader(out config.Output, customTypes []string) ([]string, error) {
	imports := c.importTypes(customTypes)

	lines := []string{
		`import { HttpClient } from "@angular/common/http";`,
		`import { catchError, map } from "rxjs/operators";`,
	}
	if len(imports) > 0 {
		lines = append(lines, fmt.Sprintf(`import { %s } from "%s";`, strings.Join(imports, ", "), out.ModelPath))
	}

	if out.HelperFile == "" {
		lines = append(lines, `import { Observable } from "rxjs";`)
		helper, err := c.ControllerHelperFile(out)
		if err != nil {
			return nil, err
		}
		lines = append(lines, helper...)
	} else {
		lines = append(lines,
			`import { Injectable } from "@angular/core";`,
			`import { Observable } from "rxjs";`,
			fmt.Sprintf(`import { ServiceResponse, ServiceErrorHelper, ServiceErrorMessage } from "%s";`, HelperImportPath(out.HelperFile)),
			"",
		)
	}

	lines = append(lines, fmt.Sprintf("export namespace %sService {", strcase.ToCamel(c.serviceName)), "")
	c.indent++
	return lines, nil
}

// HelperImportPath is the module specifier of the helper file, which is
// written next to the client
func HelperImportPath(helperFile string) string {
	base := filepath.ToSlash(helperFile)
	return "./" + strings.TrimSuffix(base, filepath.Ext(base))
}

// importTypes returns the user types referenced by the actions, deduplicated
// in first-seen order, without TypeScript built-ins.
func (c *Converter) importTypes(customTypes []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, t := range customTypes {
		for _, name := range c.ts.Translator().UserTypes(t) {
			if typescript.Builtins[name] || seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// ControllerFooter closes the service namespace
func (c *Converter) ControllerFooter() ([]string, error) {
	c.indent--
	return []string{"}"}, nil
}

// ConvertController renders one injectable client class
func (c *Converter) ConvertController(actions []ir.ControllerAction, outputClassName string, out config.Output, lastController bool) ([]string, error) {
	lines := []string{
		"    @Injectable({ providedIn: 'root' })",
		fmt.Sprintf("    export class %sController {", outputClassName),
		"        constructor(private http: HttpClient, private errorHelper: ServiceErrorHelper) {",
		"        }",
	}

	for _, action := range actions {
		lines = append(lines, c.convertAction(action, out)...)
	}

	lines = append(lines, "    }", "    ")
	return lines, nil
}

func (c *Converter) convertAction(action ir.ControllerAction, out config.Output) []string {
	name := typescript.Identifier(action.OutputActionName)
	params := strings.Join(c.parameters(action, out), ", ")

	if action.IsBroken() {
		return []string{
			fmt.Sprintf("        /** @deprecated This method is broken: %s */", action.BadMethodReason),
			fmt.Sprintf("        %s(%s) {", name, params),
			"        }",
		}
	}

	url := out.URLPrefix + "/" + strings.ReplaceAll(action.Route, "{", "${") + queryString(action.Parameters)

	method := strings.ToLower(action.HTTPMethod)
	bodyParam := ""
	switch {
	case method == "post" || method == "put":
		if action.BodyType != "" {
			bodyParam = ", body"
		} else {
			bodyParam = ", null"
		}
	case method == "delete" && action.BodyType != "":
		bodyParam = ", { body: body }"
	}

	returnType := c.ts.ParseType(action.EffectiveReturnType())

	showError := "ServiceErrorMessage." + ErrorMessageNone
	if out.ErrorHandlerPath != "" {
		showError = "showError"
	}

	return []string{
		fmt.Sprintf("        %s(%s): Observable<ServiceResponse<%s>> {", name, params, returnType),
		fmt.Sprintf("            return this.http.%s<%s>(`%s`%s).pipe(", method, returnType, url, bodyParam),
		"                map(data => new ServiceResponse(data, null)),",
		fmt.Sprintf("                catchError(error => this.errorHelper.handler<%s>(error, %s))", returnType, showError),
		"            );",
		"        }",
	}
}

// parameters renders the method signature parameters
func (c *Converter) parameters(action ir.ControllerAction, out config.Output) []string {
	var params []string
	for _, p := range action.Parameters {
		param := fmt.Sprintf("%s: %s", p.Identifier, c.ts.ParseType(p.Type))
		if p.DefaultValue != nil {
			if *p.DefaultValue == "null" && !strings.Contains(param, "null") {
				param += " | null"
			}
			param += " = " + strings.ReplaceAll(*p.DefaultValue, `"`, "'")
		}
		params = append(params, param)
	}
	if action.BodyType != "" {
		params = append(params, "body: "+c.ts.ParseType(action.BodyType))
	}
	if out.ErrorHandlerPath != "" {
		params = append(params, "showError = ServiceErrorMessage."+out.ErrorMessage())
	}
	return params
}

// queryString renders "?a=${a ?? ''}&b=${b ?? ''}" for the query-bound parameters
func queryString(params []ir.Parameter) string {
	var parts []string
	for _, p := range params {
		if p.IsQuery {
			parts = append(parts, fmt.Sprintf("%s=${%s ?? ''}", p.Identifier, p.Identifier))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "?" + strings.Join(parts, "&")
}
