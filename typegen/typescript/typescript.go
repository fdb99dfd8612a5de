// Package typescript renders models and enums as TypeScript declarations.
package typescript

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/teranos/gaspar/config"
	"github.com/teranos/gaspar/decl"
	"github.com/teranos/gaspar/errors"
	"github.com/teranos/gaspar/ir"
	"github.com/teranos/gaspar/typegen/translate"
	"github.com/teranos/gaspar/typegen/util"
)

// TypeTable is the built-in C# to TypeScript mapping
var TypeTable = map[string]string{
	"string":         "string",
	"String":         "string",
	"char":           "string",
	"Char":           "string",
	"Guid":           "string",
	"DateTime":       "string",
	"DateTimeOffset": "string",
	"DateOnly":       "string",
	"TimeOnly":       "string",
	"TimeSpan":       "string",
	"Uri":            "string",
	"bool":           "boolean",
	"Boolean":        "boolean",
	"byte":           "number",
	"sbyte":          "number",
	"short":          "number",
	"ushort":         "number",
	"int":            "number",
	"uint":           "number",
	"long":           "number",
	"ulong":          "number",
	"float":          "number",
	"double":         "number",
	"decimal":        "number",
	"Byte":           "number",
	"Int16":          "number",
	"Int32":          "number",
	"Int64":          "number",
	"UInt16":         "number",
	"UInt32":         "number",
	"UInt64":         "number",
	"Single":         "number",
	"Double":         "number",
	"Decimal":        "number",
	"object":         "any",
	"Object":         "any",
	"dynamic":        "any",
	"void":           "void",
}

// Builtins are TypeScript types that never need importing
var Builtins = map[string]bool{
	"string":  true,
	"number":  true,
	"boolean": true,
	"any":     true,
	"unknown": true,
	"void":    true,
	"null":    true,
	"object":  true,
	"Date":    true,
	"Record":  true,
	"Array":   true,
}

// Rules returns the TypeScript translation rules
func Rules() translate.Rules {
	return translate.Rules{
		Table: TypeTable,
		Collection: func(elem string) string {
			if strings.Contains(elem, " | ") {
				return "(" + elem + ")[]"
			}
			return elem + "[]"
		},
		Dictionary: func(key, value string) string {
			return fmt.Sprintf("{ [key: %s]: %s }", key, value)
		},
		Nullable: func(t string) string {
			if strings.HasSuffix(t, " | null") {
				return t
			}
			return t + " | null"
		},
		Generic: func(name string, args []string) string {
			return name + "<" + strings.Join(args, ", ") + ">"
		},
	}
}

// Converter renders TypeScript model files
type Converter struct {
	models     config.ModelConfig
	translator *translate.Translator
	indent     int
}

// New creates a TypeScript converter
func New(cfg *config.Config) *Converter {
	return &Converter{
		models:     cfg.Models,
		translator: translate.New(Rules(), cfg.CustomTypeTranslations),
	}
}

// Translator exposes the type translator to converters that build on this one
func (c *Converter) Translator() *translate.Translator {
	return c.translator
}

// ParseType translates a C# type expression
func (c *Converter) ParseType(t string) string {
	return c.translator.Translate(t)
}

// Identifier converts a member or action name the way the service serialises it
func Identifier(name string) string {
	return util.JSONCamelCase(name)
}

// Comment renders a line comment at the current indentation
func (c *Converter) Comment(text string, followingBlankLines int) []string {
	lines := []string{strings.Repeat(" ", c.indent*4) + "//" + text}
	for i := 0; i < followingBlankLines; i++ {
		lines = append(lines, "")
	}
	return lines
}

// ModelHeader is empty: model files need no imports
func (c *Converter) ModelHeader(out config.Output) ([]string, error) {
	return []string{}, nil
}

// ConvertModel renders an interface; Enumeration-pattern models render as enums
func (c *Converter) ConvertModel(m ir.Model) ([]string, error) {
	if m.IsEnumeration() {
		return c.ConvertEnum(m.AsEnum())
	}

	lines := []string{fmt.Sprintf("export interface %s {", m.Name)}
	for _, p := range m.Members() {
		lines = append(lines, fmt.Sprintf("    %s: %s;", Identifier(p.Identifier), c.ParseType(p.Type)))
	}
	lines = append(lines, "}", "")
	return lines, nil
}

// ConvertEnum renders a string-literal union, a numeric enum or a string
// enum depending on the model configuration.
func (c *Converter) ConvertEnum(e ir.EnumModel) ([]string, error) {
	var lines []string

	if c.models.StringLiteralTypesInsteadOfEnums {
		literals := make([]string, 0, len(e.Values))
		for _, v := range e.Values {
			literals = append(literals, "'"+c.stringValue(v)+"'")
		}
		if len(literals) == 0 {
			literals = append(literals, "never")
		}
		lines = append(lines, fmt.Sprintf("export type %s = %s;", e.Identifier, strings.Join(literals, " | ")), "")
		return lines, nil
	}

	lines = append(lines, fmt.Sprintf("export enum %s {", e.Identifier))
	for i, v := range e.Values {
		if c.models.NumericEnums {
			value := fmt.Sprint(i)
			if v.Value != nil {
				value = *v.Value
			}
			lines = append(lines, fmt.Sprintf("    %s = %s,", v.Name, value))
		} else {
			lines = append(lines, fmt.Sprintf("    %s = '%s',", v.Name, c.stringValue(v)))
		}
	}
	lines = append(lines, "}", "")
	return lines, nil
}

// stringValue is the serialised form of an enum member: a string literal
// value when the member carries one, the (optionally camel-cased) name otherwise.
func (c *Converter) stringValue(v ir.EnumValue) string {
	if v.Value != nil && decl.IsStringLiteral(*v.Value) {
		return strings.ReplaceAll(decl.Unquote(*v.Value), "'", "\\'")
	}
	if c.models.CamelCaseEnums {
		return strcase.ToLowerCamel(v.Name)
	}
	return v.Name
}

// ControllerHeader is not supported: plain TypeScript has no client
func (c *Converter) ControllerHeader(out config.Output, customTypes []string) ([]string, error) {
	return nil, errors.UnsupportedOperation("typescript", "ControllerHeader")
}

// ControllerHelperFile is not supported
func (c *Converter) ControllerHelperFile(out config.Output) ([]string, error) {
	return nil, errors.UnsupportedOperation("typescript", "ControllerHelperFile")
}

// ConvertController is not supported
func (c *Converter) ConvertController(actions []ir.ControllerAction, outputClassName string, out config.Output, lastController bool) ([]string, error) {
	return nil, errors.UnsupportedOperation("typescript", "ConvertController")
}

// ControllerFooter is not supported
func (c *Converter) ControllerFooter() ([]string, error) {
	return nil, errors.UnsupportedOperation("typescript", "ControllerFooter")
}
