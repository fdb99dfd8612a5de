// Package proto renders models and enums as a proto3 schema.
package proto

import (
	"fmt"
	"strings"

	"github.com/teranos/gaspar/config"
	"github.com/teranos/gaspar/decl"
	"github.com/teranos/gaspar/errors"
	"github.com/teranos/gaspar/ir"
	"github.com/teranos/gaspar/typegen/translate"
	"github.com/teranos/gaspar/typegen/util"
)

// MessagePrefix keeps generated messages out of the way of well-known types
const MessagePrefix = "Proto_"

// TypeTable is the built-in C# to proto3 scalar mapping
var TypeTable = map[string]string{
	"string": "string",
	"String": "string",
	"double": "double",
	"float":  "float",
	"int":    "int32",
	"long":   "int64",
	"uint":   "uint32",
	"ulong":  "uint64",
	"bool":   "bool",
}

// Rules returns the proto3 translation rules. Nullable markers are dropped:
// proto3 has no nullable scalars.
func Rules() translate.Rules {
	return translate.Rules{
		Table: TypeTable,
		Collection: func(elem string) string {
			return "repeated " + elem
		},
		Dictionary: func(key, value string) string {
			return fmt.Sprintf("map<%s, %s>", key, value)
		},
		Prefix: prefix,
	}
}

func prefix(name string) string {
	if strings.HasPrefix(name, "repeated") || strings.HasPrefix(name, "map<") {
		return name
	}
	return MessagePrefix + name
}

// Implementors maps a base type to the types deriving from it, in first-seen
// order without duplicates.
type Implementors struct {
	order map[string][]string
	seen  map[string]map[string]bool
}

// NewImplementors creates an empty accumulator
func NewImplementors() *Implementors {
	return &Implementors{
		order: make(map[string][]string),
		seen:  make(map[string]map[string]bool),
	}
}

// Add records that impl derives from base
func (im *Implementors) Add(base, impl string) {
	if im.seen[base] == nil {
		im.seen[base] = make(map[string]bool)
	}
	if im.seen[base][impl] {
		return
	}
	im.seen[base][impl] = true
	im.order[base] = append(im.order[base], impl)
}

// Of returns the implementors of base
func (im *Implementors) Of(base string) []string {
	if im == nil {
		return nil
	}
	return im.order[base]
}

// Converter renders proto3 schemas
type Converter struct {
	models     config.ModelConfig
	translator *translate.Translator
}

// New creates a proto converter
func New(cfg *config.Config) *Converter {
	return &Converter{
		models:     cfg.Models,
		translator: translate.New(Rules(), cfg.CustomTypeTranslations),
	}
}

// Comment renders a line comment
func (c *Converter) Comment(text string, followingBlankLines int) []string {
	lines := []string{"//" + text}
	for i := 0; i < followingBlankLines; i++ {
		lines = append(lines, "")
	}
	return lines
}

// ModelHeader renders the syntax line and the optional package
func (c *Converter) ModelHeader(out config.Output) ([]string, error) {
	lines := []string{`syntax = "proto3";`}
	if out.PackageNamespace != "" {
		lines = append(lines, fmt.Sprintf("package %s;", out.PackageNamespace))
	}
	lines = append(lines, "")
	return lines, nil
}

// ConvertModels renders non-interface models first, recording which types
// derive from which, then interfaces with a oneof over their implementors.
func (c *Converter) ConvertModels(models []ir.Model) ([]string, error) {
	var lines []string
	implementors := NewImplementors()

	for _, m := range models {
		if m.IsInterface() {
			continue
		}
		converted, err := c.convertModel(m, nil)
		if err != nil {
			return nil, err
		}
		lines = append(lines, converted...)

		for _, base := range m.BaseClasses {
			implementors.Add(base, m.Name)
		}
	}

	for _, m := range models {
		if !m.IsInterface() {
			continue
		}
		converted, err := c.convertModel(m, implementors)
		if err != nil {
			return nil, err
		}
		lines = append(lines, converted...)
	}
	return lines, nil
}

// ConvertModel renders a single message with no oneof
func (c *Converter) ConvertModel(m ir.Model) ([]string, error) {
	return c.convertModel(m, nil)
}

func (c *Converter) convertModel(m ir.Model, implementors *Implementors) ([]string, error) {
	if m.IsEnumeration() {
		return c.ConvertEnum(numericEnumeration(m.AsEnum()))
	}

	lines := []string{fmt.Sprintf("message %s {", prefix(MessageName(m.Name)))}

	n := 1
	for _, p := range m.Members() {
		lines = append(lines, fmt.Sprintf("    %s %s = %d;", c.ParseType(p.Type), FieldName(p.Identifier), n))
		n++
	}

	if impls := implementors.Of(m.Name); len(impls) > 0 {
		lines = append(lines, "    oneof subtype {")
		for _, impl := range impls {
			name := MessageName(impl)
			lines = append(lines, fmt.Sprintf("      %s %s = %d;", prefix(name), FieldName(name), n))
			n++
		}
		lines = append(lines, "    }")
	}

	lines = append(lines, "}", "")
	return lines, nil
}

// ConvertEnum renders a proto3 enum. Only numeric enums can be expressed;
// the check happens before anything is rendered.
func (c *Converter) ConvertEnum(e ir.EnumModel) ([]string, error) {
	if c.models.StringLiteralTypesInsteadOfEnums {
		return nil, errors.UnsupportedConfiguration("models.stringLiteralTypesInsteadOfEnums",
			"string literal types instead of enums are not supported in proto3")
	}
	if !c.models.NumericEnums {
		return nil, errors.UnsupportedConfiguration("models.numericEnums",
			"non-numeric enums are not supported in proto3")
	}

	ev := newEnumValues(e.Identifier)
	lines := []string{fmt.Sprintf("enum %s {", prefix(e.Identifier))}
	for i, v := range e.Values {
		value, err := ev.assign(v.Name, i, v.Value)
		if err != nil {
			return nil, err
		}
		// Enum values share the package scope in proto3, hence the type prefix
		lines = append(lines, fmt.Sprintf("    %s_%s = %d;", e.Identifier, v.Name, value))
	}
	lines = append(lines, "}", "")
	return lines, nil
}

// numericEnumeration drops string values of an Enumeration-pattern model;
// proto enums are numeric, so those members fall back to their index.
func numericEnumeration(e ir.EnumModel) ir.EnumModel {
	values := make([]ir.EnumValue, len(e.Values))
	for i, v := range e.Values {
		if v.Value != nil && decl.IsStringLiteral(*v.Value) {
			v.Value = nil
		}
		values[i] = v
	}
	e.Values = values
	return e
}

// ParseType translates a C# type expression
func (c *Converter) ParseType(t string) string {
	return c.translator.Translate(t)
}

// FieldName converts a member name the way the JSON serializer names it
func FieldName(identifier string) string {
	if i := strings.IndexByte(identifier, ' '); i >= 0 {
		identifier = identifier[:i]
	}
	return util.JSONCamelCase(identifier)
}

// MessageName drops a generic parameter list: messages cannot be generic
func MessageName(name string) string {
	if i := strings.IndexByte(name, '<'); i >= 0 {
		return name[:i]
	}
	return name
}

// ControllerHeader is not supported: proto output carries models only
func (c *Converter) ControllerHeader(out config.Output, customTypes []string) ([]string, error) {
	return nil, errors.UnsupportedOperation("proto", "ControllerHeader")
}

// ControllerHelperFile is not supported
func (c *Converter) ControllerHelperFile(out config.Output) ([]string, error) {
	return nil, errors.UnsupportedOperation("proto", "ControllerHelperFile")
}

// ConvertController is not supported
func (c *Converter) ConvertController(actions []ir.ControllerAction, outputClassName string, out config.Output, lastController bool) ([]string, error) {
	return nil, errors.UnsupportedOperation("proto", "ConvertController")
}

// ControllerFooter is not supported
func (c *Converter) ControllerFooter() ([]string, error) {
	return nil, errors.UnsupportedOperation("proto", "ControllerFooter")
}
