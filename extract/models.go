package extract

import (
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/gaspar/decl"
	"github.com/teranos/gaspar/ir"
	"github.com/teranos/gaspar/logger"
)

// EnumerationBase is the base class that marks the enumeration-class pattern
const EnumerationBase = "Enumeration"

// Extractor turns type declarations into IR entities.
type Extractor struct {
	resolver *Resolver
	log      *zap.SugaredLogger
}

// New creates an extractor using resolver for export gating
func New(resolver *Resolver) *Extractor {
	return &Extractor{
		resolver: resolver,
		log:      logger.ComponentLogger("extract"),
	}
}

var modelKinds = map[decl.Kind]ir.Kind{
	decl.KindClass:     ir.KindClass,
	decl.KindInterface: ir.KindInterface,
	decl.KindRecord:    ir.KindRecord,
	decl.KindStruct:    ir.KindStruct,
}

// Extract projects td, declared in source, into a *ir.Model or *ir.EnumModel.
// It returns false for non-public declarations, declarations excluded by
// export gating and kinds that have no model shape.
func (x *Extractor) Extract(source string, td decl.TypeDecl) (ir.Entity, bool) {
	if !td.Modifiers.Public() {
		return nil, false
	}
	export, ok := x.resolver.Resolve(td.Attributes)
	if !ok {
		x.log.Debugw("Skipping declaration without export marker",
			logger.FieldModel, td.Name, logger.FieldFile, source)
		return nil, false
	}

	if td.Kind == decl.KindEnum {
		return x.enum(source, td, export), true
	}
	kind, ok := modelKinds[td.Kind]
	if !ok {
		x.log.Debugw("Skipping unclassifiable declaration",
			logger.FieldModel, td.Name, logger.FieldKind, string(td.Kind), logger.FieldFile, source)
		return nil, false
	}

	m := &ir.Model{
		Name:        td.FullName(),
		BaseClasses: append([]string{}, td.BaseTypes...),
		Kind:        kind,
		Export:      export,
		Source:      source,
	}
	iface := td.Kind == decl.KindInterface

	if td.Kind == decl.KindRecord {
		for _, p := range td.RecordParams {
			if p.Attributes.Has("JsonIgnore") {
				continue
			}
			m.Fields = append(m.Fields, ir.Property{Identifier: p.Name, Type: p.Type})
		}
	} else {
		for _, f := range td.Fields {
			if !memberVisible(f.Modifiers, iface) || f.Const || f.Attributes.Has("JsonIgnore") {
				continue
			}
			m.Fields = append(m.Fields, ir.PropertyFromField(f))
		}
	}
	for _, p := range td.Properties {
		if !memberVisible(p.Modifiers, iface) || p.Attributes.Has("JsonIgnore") {
			continue
		}
		m.Properties = append(m.Properties, ir.PropertyFromMember(p))
	}

	if hasBase(td.BaseTypes, EnumerationBase) {
		m.Enumerations = enumerationValues(td.Fields)
	}
	return m, true
}

func (x *Extractor) enum(source string, td decl.TypeDecl, export ir.ExportDescriptor) *ir.EnumModel {
	e := &ir.EnumModel{
		Identifier: td.Name,
		Values:     make([]ir.EnumValue, 0, len(td.EnumMembers)),
		Export:     export,
		Source:     source,
	}
	for _, m := range td.EnumMembers {
		v := ir.EnumValue{Name: m.Name}
		if m.Value != nil {
			val := strings.TrimSpace(*m.Value)
			v.Value = &val
		}
		e.Values = append(e.Values, v)
	}
	return e
}

// memberVisible reports whether a member is part of the exported shape:
// accessible from outside and not static. Interface members without an
// access modifier are implicitly public.
func memberVisible(mods decl.Modifiers, iface bool) bool {
	if mods.Static() || mods.Has("const") {
		return false
	}
	if iface && !mods.Explicit() {
		return true
	}
	return mods.Public()
}

func hasBase(bases []string, name string) bool {
	for _, b := range bases {
		if b == name || strings.HasSuffix(b, "."+name) {
			return true
		}
	}
	return false
}

// enumerationValues builds the value map of an enumeration class from its
// static fields. The value is the literal initializer or the first literal
// argument of a constructor call, nil when neither is present.
func enumerationValues(fields []decl.Field) []ir.EnumValue {
	values := []ir.EnumValue{}
	for _, f := range fields {
		if !f.Modifiers.Static() || f.Attributes.Has("JsonIgnore") {
			continue
		}
		for _, v := range f.Variables {
			ev := ir.EnumValue{Name: v.Name}
			if lit, ok := enumerationLiteral(v.Initializer); ok {
				ev.Value = &lit
			}
			values = append(values, ev)
		}
	}
	return values
}

func enumerationLiteral(init string) (string, bool) {
	init = strings.TrimSpace(init)
	if init == "" {
		return "", false
	}
	if isLiteral(init) {
		return init, true
	}
	if !strings.HasPrefix(init, "new") {
		return "", false
	}
	open := strings.IndexByte(init, '(')
	end := strings.LastIndexByte(init, ')')
	if open < 0 || end <= open {
		return "", false
	}
	for _, arg := range splitTopLevel(init[open+1 : end]) {
		if isLiteral(arg) {
			return arg, true
		}
	}
	return "", false
}

// isLiteral accepts string, char, numeric and boolean literals
func isLiteral(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if decl.IsStringLiteral(s) || (len(s) >= 3 && s[0] == '\'' && s[len(s)-1] == '\'') {
		return true
	}
	if s == "true" || s == "false" {
		return true
	}
	c := s[0]
	if c == '-' && len(s) > 1 {
		c = s[1]
	}
	return c >= '0' && c <= '9'
}

// splitTopLevel splits an argument list at commas outside brackets and
// string literals.
func splitTopLevel(s string) []string {
	var out []string
	depth, start := 0, 0
	inString := false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '"' && (i == 0 || s[i-1] != '\\'):
			inString = !inString
		case inString:
		case c == '(' || c == '<' || c == '[' || c == '{':
			depth++
		case c == ')' || c == '>' || c == ']' || c == '}':
			depth--
		case c == ',' && depth == 0:
			out = append(out, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	if rest := strings.TrimSpace(s[start:]); rest != "" {
		out = append(out, rest)
	}
	return out
}
