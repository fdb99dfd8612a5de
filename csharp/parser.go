//go:build cgo

// Package csharp turns C# source into the decl node contract using the
// tree-sitter C# grammar. Only declarations are read; method bodies and
// expressions are kept as raw text where the extractor needs them.
package csharp

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"

	"github.com/teranos/gaspar/decl"
	"github.com/teranos/gaspar/errors"
	"github.com/teranos/gaspar/logger"
)

// Parser wraps a tree-sitter parser configured for C#.
// A Parser is not safe for concurrent use.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a new C# parser.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(csharp.GetLanguage())
	return &Parser{parser: p}
}

// ParseFiles parses every file in rel, resolved against root. The returned
// files keep the slash-relative path so IR entities carry stable sources.
func (p *Parser) ParseFiles(ctx context.Context, root string, rel []string) ([]decl.File, error) {
	files := make([]decl.File, 0, len(rel))
	for _, r := range rel {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		src, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(r)))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", r)
		}
		f, err := p.ParseFile(ctx, r, src)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	logger.Debugw("Parsed source files", logger.FieldCount, len(files))
	return files, nil
}

// ParseFile parses one C# compilation unit. Syntax errors do not fail the
// parse; tree-sitter recovers and the declarations it could read are kept.
func (p *Parser) ParseFile(ctx context.Context, path string, src []byte) (decl.File, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return decl.File{}, errors.Wrapf(err, "failed to parse %s", path)
	}
	root := tree.RootNode()
	if root.HasError() {
		logger.Warnw("Source file has syntax errors, continuing with recovered declarations",
			logger.FieldFile, path)
	}

	w := &walker{src: src}
	f := decl.File{Path: path}
	f.Types = w.members(root, &f.Namespace)
	return f, nil
}

type walker struct {
	src []byte
}

func (w *walker) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(w.src)
}

// field returns the first child present under any of the given field names.
// Grammar releases renamed a few fields (type/returns), so callers pass both.
func field(n *sitter.Node, names ...string) *sitter.Node {
	for _, name := range names {
		if c := n.ChildByFieldName(name); c != nil {
			return c
		}
	}
	return nil
}

func children(n *sitter.Node) []*sitter.Node {
	out := make([]*sitter.Node, 0, n.ChildCount())
	for i := uint32(0); i < n.ChildCount(); i++ {
		if c := n.Child(int(i)); c != nil {
			out = append(out, c)
		}
	}
	return out
}

func childOfType(n *sitter.Node, types ...string) *sitter.Node {
	for _, c := range children(n) {
		for _, t := range types {
			if c.Type() == t {
				return c
			}
		}
	}
	return nil
}

// members collects type declarations below n, descending into namespaces.
func (w *walker) members(n *sitter.Node, namespace *string) []decl.TypeDecl {
	var out []decl.TypeDecl
	for _, c := range children(n) {
		switch c.Type() {
		case "namespace_declaration", "file_scoped_namespace_declaration":
			if *namespace == "" {
				*namespace = w.text(field(c, "name"))
			}
			if body := field(c, "body"); body != nil {
				out = append(out, w.members(body, namespace)...)
			} else {
				out = append(out, w.members(c, namespace)...)
			}
		case "declaration_list":
			out = append(out, w.members(c, namespace)...)
		default:
			if td, ok := w.typeDecl(c); ok {
				out = append(out, td)
			}
		}
	}
	return out
}

var typeKinds = map[string]decl.Kind{
	"class_declaration":         decl.KindClass,
	"interface_declaration":     decl.KindInterface,
	"record_declaration":        decl.KindRecord,
	"record_struct_declaration": decl.KindRecord,
	"struct_declaration":        decl.KindStruct,
	"enum_declaration":          decl.KindEnum,
}

func (w *walker) typeDecl(n *sitter.Node) (decl.TypeDecl, bool) {
	kind, ok := typeKinds[n.Type()]
	if !ok {
		return decl.TypeDecl{}, false
	}
	td := decl.TypeDecl{
		Kind:       kind,
		Name:       w.text(field(n, "name")),
		Modifiers:  w.modifiers(n),
		Attributes: w.attributes(n),
		Line:       int(n.StartPoint().Row) + 1,
	}
	if tp := childOfType(n, "type_parameter_list"); tp != nil {
		for _, c := range children(tp) {
			if c.Type() == "type_parameter" {
				td.TypeParams = append(td.TypeParams, w.typeParamName(c))
			}
		}
	}
	if bl := childOfType(n, "base_list"); bl != nil {
		for _, c := range children(bl) {
			if !c.IsNamed() {
				continue
			}
			td.BaseTypes = append(td.BaseTypes, w.baseType(c))
		}
	}
	if kind == decl.KindRecord {
		if pl := field(n, "parameters"); pl != nil {
			td.RecordParams = w.parameters(pl)
		} else if pl := childOfType(n, "parameter_list"); pl != nil {
			td.RecordParams = w.parameters(pl)
		}
	}

	body := field(n, "body")
	if body == nil {
		body = childOfType(n, "declaration_list", "enum_member_declaration_list")
	}
	if body == nil {
		return td, true
	}

	for _, c := range children(body) {
		switch c.Type() {
		case "field_declaration":
			td.Fields = append(td.Fields, w.fieldDecl(c))
		case "property_declaration":
			td.Properties = append(td.Properties, w.property(c))
		case "method_declaration":
			td.Methods = append(td.Methods, w.method(c))
		case "enum_member_declaration":
			td.EnumMembers = append(td.EnumMembers, w.enumMember(c))
		default:
			if nested, ok := w.typeDecl(c); ok {
				td.Nested = append(td.Nested, nested)
			}
		}
	}
	return td, true
}

// typeParamName drops variance keywords and attributes, "out T" -> "T".
func (w *walker) typeParamName(n *sitter.Node) string {
	if name := field(n, "name"); name != nil {
		return w.text(name)
	}
	if id := childOfType(n, "identifier"); id != nil {
		return w.text(id)
	}
	return w.text(n)
}

// baseType returns the written base type; record primary-constructor
// arguments ("Base(X)") are cut.
func (w *walker) baseType(n *sitter.Node) string {
	if n.Type() == "primary_constructor_base_type" {
		if t := field(n, "type"); t != nil {
			return w.text(t)
		}
		if i := strings.Index(w.text(n), "("); i > 0 {
			return strings.TrimSpace(w.text(n)[:i])
		}
	}
	return w.text(n)
}

func (w *walker) modifiers(n *sitter.Node) decl.Modifiers {
	var mods decl.Modifiers
	for _, c := range children(n) {
		if c.Type() == "modifier" {
			mods = append(mods, strings.TrimSpace(w.text(c)))
		}
	}
	return mods
}

func (w *walker) attributes(n *sitter.Node) decl.Attributes {
	var attrs decl.Attributes
	for _, list := range children(n) {
		if list.Type() != "attribute_list" {
			continue
		}
		// [return: X] targets the return value, not the declaration
		if childOfType(list, "attribute_target_specifier") != nil {
			continue
		}
		for _, a := range children(list) {
			if a.Type() == "attribute" {
				attrs = append(attrs, w.attribute(a))
			}
		}
	}
	return attrs
}

func (w *walker) attribute(n *sitter.Node) decl.Attribute {
	a := decl.Attribute{Name: w.text(field(n, "name"))}
	if a.Name == "" {
		if id := childOfType(n, "identifier", "qualified_name", "generic_name"); id != nil {
			a.Name = w.text(id)
		}
	}
	args := childOfType(n, "attribute_argument_list")
	if args == nil {
		return a
	}
	for _, arg := range children(args) {
		if arg.Type() != "attribute_argument" {
			continue
		}
		a.Args = append(a.Args, w.argument(arg))
	}
	return a
}

// argument reads "Name = value", "name: value" or a positional value.
func (w *walker) argument(n *sitter.Node) decl.Argument {
	var arg decl.Argument
	var value *sitter.Node
	for _, c := range children(n) {
		if !c.IsNamed() {
			continue
		}
		switch c.Type() {
		case "name_equals", "name_colon":
			if id := childOfType(c, "identifier"); id != nil {
				arg.Name = w.text(id)
			} else {
				arg.Name = strings.TrimRight(strings.TrimSpace(w.text(c)), "=:")
				arg.Name = strings.TrimSpace(arg.Name)
			}
		default:
			value = c
		}
	}
	if value != nil {
		arg.Value = w.text(value)
	} else if arg.Name == "" {
		arg.Value = w.text(n)
	}
	// grammars without name_equals expose "Name = value" as an assignment
	if arg.Name == "" && value != nil && value.Type() == "assignment_expression" {
		if left := field(value, "left"); left != nil {
			arg.Name = w.text(left)
			arg.Value = w.text(field(value, "right"))
		}
	}
	return arg
}

func (w *walker) fieldDecl(n *sitter.Node) decl.Field {
	f := decl.Field{
		Modifiers:  w.modifiers(n),
		Attributes: w.attributes(n),
	}
	f.Const = f.Modifiers.Has("const")
	vd := childOfType(n, "variable_declaration")
	if vd == nil {
		return f
	}
	f.Type = w.text(field(vd, "type"))
	for _, c := range children(vd) {
		if c.Type() != "variable_declarator" {
			continue
		}
		v := decl.Variable{Name: w.text(field(c, "name"))}
		if v.Name == "" {
			v.Name = w.text(childOfType(c, "identifier"))
		}
		v.Initializer = w.initializer(c)
		f.Variables = append(f.Variables, v)
	}
	return f
}

// initializer returns the expression after "=", whether the grammar wraps it
// in an equals_value_clause or not.
func (w *walker) initializer(n *sitter.Node) string {
	if eq := childOfType(n, "equals_value_clause"); eq != nil {
		for _, c := range children(eq) {
			if c.IsNamed() {
				return w.text(c)
			}
		}
	}
	seenEquals := false
	for _, c := range children(n) {
		if !c.IsNamed() && w.text(c) == "=" {
			seenEquals = true
			continue
		}
		if seenEquals && c.IsNamed() {
			return w.text(c)
		}
	}
	return ""
}

func (w *walker) property(n *sitter.Node) decl.Property {
	return decl.Property{
		Name:       w.text(field(n, "name")),
		Type:       w.text(field(n, "type")),
		Modifiers:  w.modifiers(n),
		Attributes: w.attributes(n),
	}
}

func (w *walker) method(n *sitter.Node) decl.Method {
	m := decl.Method{
		Name:       w.text(field(n, "name")),
		ReturnType: w.text(field(n, "returns", "type")),
		Modifiers:  w.modifiers(n),
		Attributes: w.attributes(n),
	}
	if pl := field(n, "parameters"); pl != nil {
		m.Parameters = w.parameters(pl)
	} else if pl := childOfType(n, "parameter_list"); pl != nil {
		m.Parameters = w.parameters(pl)
	}
	return m
}

func (w *walker) parameters(n *sitter.Node) []decl.Parameter {
	var params []decl.Parameter
	for _, c := range children(n) {
		if c.Type() != "parameter" {
			continue
		}
		p := decl.Parameter{
			Name:       w.text(field(c, "name")),
			Type:       w.text(field(c, "type")),
			Attributes: w.attributes(c),
		}
		if def := w.initializer(c); def != "" {
			p.Default = &def
		}
		params = append(params, p)
	}
	return params
}

func (w *walker) enumMember(n *sitter.Node) decl.EnumMember {
	m := decl.EnumMember{Name: w.text(field(n, "name"))}
	if m.Name == "" {
		m.Name = w.text(childOfType(n, "identifier"))
	}
	if v := field(n, "value"); v != nil {
		val := w.text(v)
		m.Value = &val
	} else if val := w.initializer(n); val != "" {
		m.Value = &val
	}
	return m
}
