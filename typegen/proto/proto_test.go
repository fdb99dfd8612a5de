package proto

import (
	"context"
	"strings"
	"testing"

	"github.com/bufbuild/protocompile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/teranos/gaspar/config"
	"github.com/teranos/gaspar/errors"
	"github.com/teranos/gaspar/ir"
)

func strPtr(s string) *string { return &s }

func newConverter(mc config.ModelConfig) *Converter {
	return New(&config.Config{Models: mc})
}

// compile runs the generated schema through a real proto compiler
func compile(t *testing.T, lines []string) protoreflect.FileDescriptor {
	t.Helper()
	src := strings.Join(lines, "\n")
	compiler := protocompile.Compiler{
		Resolver: &protocompile.SourceResolver{
			Accessor: protocompile.SourceAccessorFromMap(map[string]string{"models.proto": src}),
		},
	}
	files, err := compiler.Compile(context.Background(), "models.proto")
	require.NoError(t, err, "generated proto:\n%s", src)
	require.Len(t, files, 1)
	return files[0]
}

func animals() []ir.Model {
	return []ir.Model{
		{
			Name:       "IAnimal",
			Kind:       ir.KindInterface,
			Properties: []ir.Property{{Identifier: "Name", Type: "string"}},
		},
		{
			Name:        "Dog",
			Kind:        ir.KindClass,
			BaseClasses: []string{"IAnimal"},
			Properties:  []ir.Property{{Identifier: "Name", Type: "string"}, {Identifier: "Tricks", Type: "List<string>"}},
		},
		{
			Name:        "Cat",
			Kind:        ir.KindClass,
			BaseClasses: []string{"IAnimal"},
			Fields:      []ir.Property{{Identifier: "Lives", Type: "int"}},
			Properties:  []ir.Property{{Identifier: "Name", Type: "string"}},
		},
	}
}

func TestConvertModels_OneofGrouping(t *testing.T) {
	c := newConverter(config.ModelConfig{})

	lines, err := c.ConvertModels(animals())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"message Proto_Dog {",
		"    string name = 1;",
		"    repeated string tricks = 2;",
		"}",
		"",
		"message Proto_Cat {",
		"    int32 lives = 1;",
		"    string name = 2;",
		"}",
		"",
		"message Proto_IAnimal {",
		"    string name = 1;",
		"    oneof subtype {",
		"      Proto_Dog dog = 2;",
		"      Proto_Cat cat = 3;",
		"    }",
		"}",
		"",
	}, lines)

	header, err := c.ModelHeader(config.Output{PackageNamespace: "zoo"})
	require.NoError(t, err)
	fd := compile(t, append(header, lines...))

	assert.Equal(t, protoreflect.FullName("zoo"), fd.Package())
	animal := fd.Messages().ByName("Proto_IAnimal")
	require.NotNil(t, animal)
	oneof := animal.Oneofs().ByName("subtype")
	require.NotNil(t, oneof)
	require.Equal(t, 2, oneof.Fields().Len())
	assert.Equal(t, protoreflect.FieldNumber(2), oneof.Fields().Get(0).Number())
	assert.Equal(t, protoreflect.Name("Proto_Dog"), oneof.Fields().Get(0).Message().Name())
	assert.Equal(t, protoreflect.FieldNumber(3), oneof.Fields().Get(1).Number())
}

func TestConvertModels_AccumulatorIsPerCall(t *testing.T) {
	c := newConverter(config.ModelConfig{})

	_, err := c.ConvertModels(animals())
	require.NoError(t, err)

	// A second batch without implementors gets no oneof
	lines, err := c.ConvertModels(animals()[:1])
	require.NoError(t, err)
	assert.NotContains(t, strings.Join(lines, "\n"), "oneof")
}

func TestConvertModels_DuplicateBaseListed(t *testing.T) {
	c := newConverter(config.ModelConfig{})
	models := animals()
	models[1].BaseClasses = []string{"IAnimal", "IAnimal"}

	lines, err := c.ConvertModels(models)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(strings.Join(lines, "\n"), "Proto_Dog dog"))
}

func TestConvertModel_Types(t *testing.T) {
	c := New(&config.Config{CustomTypeTranslations: map[string]string{"Guid": "string"}})

	lines, err := c.ConvertModel(ir.Model{
		Name: "Order",
		Properties: []ir.Property{
			{Identifier: "ID", Type: "Guid"},
			{Identifier: "Total", Type: "double?"},
			{Identifier: "Lines", Type: "OrderLine[]"},
			{Identifier: "Tags", Type: "Dictionary<string, string>"},
			{Identifier: "Customer", Type: "Customer"},
			{Identifier: "Quantities", Type: "IDictionary<string, long>"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"message Proto_Order {",
		"    string id = 1;",
		"    double total = 2;",
		"    repeated Proto_OrderLine lines = 3;",
		"    map<string, string> tags = 4;",
		"    Proto_Customer customer = 5;",
		"    map<string, int64> quantities = 6;",
		"}",
		"",
	}, lines)
}

func TestConvertModel_GenericNameDropsParameters(t *testing.T) {
	c := newConverter(config.ModelConfig{})
	lines, err := c.ConvertModel(ir.Model{Name: "Page<T>", Properties: []ir.Property{{Identifier: "Total", Type: "long"}}})
	require.NoError(t, err)
	assert.Equal(t, "message Proto_Page {", lines[0])
}

func TestConvertEnum(t *testing.T) {
	c := newConverter(config.ModelConfig{NumericEnums: true})

	lines, err := c.ConvertEnum(ir.EnumModel{
		Identifier: "Color",
		Values: []ir.EnumValue{
			{Name: "Red"},
			{Name: "Green", Value: strPtr("4")},
			{Name: "Blue"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"enum Proto_Color {",
		"    Color_Red = 0;",
		"    Color_Green = 4;",
		"    Color_Blue = 2;",
		"}",
		"",
	}, lines)

	header, err := c.ModelHeader(config.Output{})
	require.NoError(t, err)
	fd := compile(t, append(header, lines...))
	enum := fd.Enums().ByName("Proto_Color")
	require.NotNil(t, enum)
	assert.Equal(t, protoreflect.EnumNumber(4), enum.Values().ByName("Color_Green").Number())
}

func TestConvertEnum_FlagExpressions(t *testing.T) {
	c := newConverter(config.ModelConfig{NumericEnums: true})

	lines, err := c.ConvertEnum(ir.EnumModel{
		Identifier: "Perm",
		Values: []ir.EnumValue{
			{Name: "None", Value: strPtr("0")},
			{Name: "Read", Value: strPtr("1 << 0")},
			{Name: "Write", Value: strPtr("1 << 1")},
			{Name: "Admin", Value: strPtr("1 << 2")},
			{Name: "ReadWrite", Value: strPtr("Read | Perm.Write")},
			{Name: "All", Value: strPtr("(ReadWrite | Admin) & ~None")},
			{Name: "Big", Value: strPtr("0x10_00")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"enum Proto_Perm {",
		"    Perm_None = 0;",
		"    Perm_Read = 1;",
		"    Perm_Write = 2;",
		"    Perm_Admin = 4;",
		"    Perm_ReadWrite = 3;",
		"    Perm_All = 7;",
		"    Perm_Big = 4096;",
		"}",
		"",
	}, lines)
}

func TestConvertEnum_UnreadableValue(t *testing.T) {
	c := newConverter(config.ModelConfig{NumericEnums: true})

	tests := []struct {
		name  string
		value string
	}{
		{"unknown member", "Missing | 1"},
		{"cast", "(int)Other.Value"},
		{"overflow", "1L << 40"},
		{"trailing garbage", "1 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, err := c.ConvertEnum(ir.EnumModel{
				Identifier: "Perm",
				Values:     []ir.EnumValue{{Name: "Read", Value: strPtr("1")}, {Name: "Odd", Value: strPtr(tt.value)}},
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "enum Perm member Odd")
			assert.Empty(t, lines)
		})
	}
}

func TestConvertEnum_UnsupportedConfiguration(t *testing.T) {
	color := ir.EnumModel{Identifier: "Color", Values: []ir.EnumValue{{Name: "Red"}}}

	tests := []struct {
		name   string
		models config.ModelConfig
		key    string
	}{
		{"string literals", config.ModelConfig{StringLiteralTypesInsteadOfEnums: true}, "models.stringLiteralTypesInsteadOfEnums"},
		{"string enums", config.ModelConfig{}, "models.numericEnums"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, err := newConverter(tt.models).ConvertEnum(color)
			require.Error(t, err)
			assert.True(t, errors.IsUnsupportedConfiguration(err))
			assert.Equal(t, tt.key, errors.ConfigKey(err))
			assert.Empty(t, lines, "no partial enum content")
		})
	}
}

func TestConvertModel_EnumerationPattern(t *testing.T) {
	c := newConverter(config.ModelConfig{NumericEnums: true})
	lines, err := c.ConvertModel(ir.Model{
		Name:        "Status",
		BaseClasses: []string{"Enumeration"},
		Enumerations: []ir.EnumValue{
			{Name: "Active", Value: strPtr("2")},
			{Name: "Closed", Value: strPtr(`"closed"`)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"enum Proto_Status {",
		"    Status_Active = 2;",
		"    Status_Closed = 1;",
		"}",
		"",
	}, lines)
}

func TestModelHeader(t *testing.T) {
	c := newConverter(config.ModelConfig{})

	lines, err := c.ModelHeader(config.Output{})
	require.NoError(t, err)
	assert.Equal(t, []string{`syntax = "proto3";`, ""}, lines)

	lines, err = c.ModelHeader(config.Output{PackageNamespace: "acme.api"})
	require.NoError(t, err)
	assert.Equal(t, []string{`syntax = "proto3";`, "package acme.api;", ""}, lines)
}

func TestControllerOperationsUnsupported(t *testing.T) {
	c := newConverter(config.ModelConfig{})
	_, err := c.ConvertController(nil, "Users", config.Output{}, true)
	assert.True(t, errors.IsUnsupportedOperation(err))
	_, err = c.ControllerHeader(config.Output{}, nil)
	assert.True(t, errors.IsUnsupportedOperation(err))
}

func TestTypeTableIsPure(t *testing.T) {
	c := newConverter(config.ModelConfig{})
	for k, v := range TypeTable {
		assert.Equal(t, v, c.ParseType(k))
	}
}
