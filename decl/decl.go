// Package decl is the node contract between a source parser and the
// extractor. A parser hands over files of type declarations with their
// attributes, modifiers and members exactly as written; no semantic
// resolution happens here.
package decl

import "strings"

// Kind is the declaration keyword
type Kind string

const (
	KindClass     Kind = "class"
	KindInterface Kind = "interface"
	KindRecord    Kind = "record"
	KindStruct    Kind = "struct"
	KindEnum      Kind = "enum"
)

// Modifiers is the set of modifier keywords written on a declaration
type Modifiers []string

// Has reports whether mod was written
func (m Modifiers) Has(mod string) bool {
	for _, x := range m {
		if x == mod {
			return true
		}
	}
	return false
}

// Public reports whether the public keyword was written
func (m Modifiers) Public() bool { return m.Has("public") }

// Static reports whether the static keyword was written
func (m Modifiers) Static() bool { return m.Has("static") }

// Explicit reports whether any access modifier was written
func (m Modifiers) Explicit() bool {
	return m.Has("public") || m.Has("private") || m.Has("protected") || m.Has("internal")
}

// Argument is one attribute argument. Name is empty for positional ones.
// Value is the raw expression text, string literals keep their quotes.
type Argument struct {
	Name  string
	Value string
}

// Attribute is one attribute application, e.g. [HttpGet("{id}")]
type Attribute struct {
	Name string
	Args []Argument
}

// Is reports whether the attribute is name, with or without the Attribute
// suffix and with or without a namespace qualifier.
func (a Attribute) Is(name string) bool {
	n := a.Name
	if i := strings.LastIndex(n, "."); i >= 0 {
		n = n[i+1:]
	}
	n = strings.TrimSuffix(n, "Attribute")
	return n == strings.TrimSuffix(name, "Attribute")
}

// Positional returns the i-th positional argument
func (a Attribute) Positional(i int) (string, bool) {
	for _, arg := range a.Args {
		if arg.Name != "" {
			continue
		}
		if i == 0 {
			return arg.Value, true
		}
		i--
	}
	return "", false
}

// Named returns the named argument name
func (a Attribute) Named(name string) (string, bool) {
	for _, arg := range a.Args {
		if arg.Name == name {
			return arg.Value, true
		}
	}
	return "", false
}

// Attributes is a flattened attribute list
type Attributes []Attribute

// Find returns the first attribute matching name
func (as Attributes) Find(name string) (Attribute, bool) {
	for _, a := range as {
		if a.Is(name) {
			return a, true
		}
	}
	return Attribute{}, false
}

// Has reports whether an attribute matching name is present
func (as Attributes) Has(name string) bool {
	_, ok := as.Find(name)
	return ok
}

// Variable is one declarator of a field declaration
type Variable struct {
	Name string
	// Initializer is the raw initializer expression, "" when absent
	Initializer string
}

// Field is a field declaration; "int a, b;" has two variables
type Field struct {
	Type       string
	Variables  []Variable
	Modifiers  Modifiers
	Attributes Attributes
	Const      bool
}

// Property is a property declaration
type Property struct {
	Name       string
	Type       string
	Modifiers  Modifiers
	Attributes Attributes
}

// Parameter is a method or primary-constructor parameter
type Parameter struct {
	Name       string
	Type       string
	Attributes Attributes
	// Default is the raw default value expression, nil when absent
	Default *string
}

// Method is a method declaration
type Method struct {
	Name       string
	ReturnType string
	Modifiers  Modifiers
	Attributes Attributes
	Parameters []Parameter
}

// EnumMember is one enum member; Value is the raw value expression or nil
type EnumMember struct {
	Name  string
	Value *string
}

// TypeDecl is a type declaration. TypeParams holds the generic parameter
// names so Name+"<"+TypeParams+">" reproduces the written form.
type TypeDecl struct {
	Kind       Kind
	Name       string
	TypeParams []string
	Modifiers  Modifiers
	Attributes Attributes
	// BaseTypes are the base list entries as written
	BaseTypes []string
	// RecordParams are the primary-constructor parameters of a record
	RecordParams []Parameter
	Fields       []Field
	Properties   []Property
	Methods      []Method
	EnumMembers  []EnumMember
	Nested       []TypeDecl
	Line         int
}

// FullName is the name with its generic parameter list, e.g. "Page<T>"
func (td TypeDecl) FullName() string {
	if len(td.TypeParams) == 0 {
		return td.Name
	}
	return td.Name + "<" + strings.Join(td.TypeParams, ", ") + ">"
}

// File is one parsed source file
type File struct {
	Path      string
	Namespace string
	Types     []TypeDecl
}

// Unquote strips the quotes from a C# string literal (regular, verbatim or
// raw); any other expression is returned unchanged.
func Unquote(expr string) string {
	s := strings.TrimSpace(expr)
	s = strings.TrimPrefix(s, "@")
	if len(s) >= 6 && strings.HasPrefix(s, `"""`) && strings.HasSuffix(s, `"""`) {
		return strings.TrimSpace(s[3 : len(s)-3])
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return expr
}

// IsStringLiteral reports whether expr is a string literal
func IsStringLiteral(expr string) bool {
	s := strings.TrimPrefix(strings.TrimSpace(expr), "@")
	return len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"'
}
