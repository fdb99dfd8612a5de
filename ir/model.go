package ir

import "github.com/teranos/gaspar/decl"

// Kind is the structural tag of a model declaration
type Kind string

const (
	KindClass     Kind = "class"
	KindInterface Kind = "interface"
	KindRecord    Kind = "record"
	KindStruct    Kind = "struct"
)

// Model is the export projection of a class, interface, record or struct.
type Model struct {
	// Name includes the generic parameter list as written, e.g. "Page<T>"
	Name        string
	Fields      []Property
	Properties  []Property
	BaseClasses []string
	// Enumerations is nil unless the declaration derives from Enumeration
	Enumerations []EnumValue
	Kind         Kind
	Export       ExportDescriptor
	Source       string
}

// IsInterface reports whether the model was declared as an interface
func (m Model) IsInterface() bool {
	return m.Kind == KindInterface
}

// IsEnumeration reports whether the model carries an enumeration value map
func (m Model) IsEnumeration() bool {
	return m.Enumerations != nil
}

// Members returns fields followed by properties, the order every converter
// emits them in.
func (m Model) Members() []Property {
	out := make([]Property, 0, len(m.Fields)+len(m.Properties))
	out = append(out, m.Fields...)
	return append(out, m.Properties...)
}

// AsEnum views an Enumeration-pattern model as an EnumModel.
func (m Model) AsEnum() EnumModel {
	return EnumModel{
		Identifier: m.Name,
		Values:     m.Enumerations,
		Export:     m.Export,
		Source:     m.Source,
	}
}

// Property is a field or property member
type Property struct {
	Identifier string
	// Type is the type expression as written, including ? and generics
	Type string
}

// PropertyFromMember builds a Property from a property declaration
func PropertyFromMember(p decl.Property) Property {
	return Property{Identifier: p.Name, Type: p.Type}
}

// PropertyFromField builds a Property from a field declaration. Multi-variable
// declarations ("int a, b;") contribute their first variable.
func PropertyFromField(f decl.Field) Property {
	p := Property{Type: f.Type}
	if len(f.Variables) > 0 {
		p.Identifier = f.Variables[0].Name
	}
	return p
}

// EnumValue is one enum member; a nil Value means "use the member's index"
type EnumValue struct {
	Name  string
	Value *string
}

// EnumModel is an enum declaration
type EnumModel struct {
	Identifier string
	Values     []EnumValue
	Export     ExportDescriptor
	Source     string
}
