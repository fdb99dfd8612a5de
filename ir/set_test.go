package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetFiltersByTarget(t *testing.T) {
	s := &Set{}
	s.Add(&Model{Name: "User", Export: ExportDescriptor{Targets: TargetAll}, Source: "Models/User.cs"})
	s.Add(&Model{Name: "Secret", Export: ExportDescriptor{Targets: TargetTypeScript}, Source: "Models/Secret.cs"})
	s.Add(&EnumModel{Identifier: "Color", Export: ExportDescriptor{Targets: TargetFrontEnd}, Source: "Models/Color.cs"})

	assert.Len(t, s.ModelsFor(TargetTypeScript, nil), 2)
	require.Len(t, s.ModelsFor(TargetProto, nil), 1)
	assert.Equal(t, "User", s.ModelsFor(TargetProto, nil)[0].Name)
	assert.Len(t, s.EnumsFor(TargetProto, nil), 1)
	assert.Empty(t, s.EnumsFor(TargetOcelot, nil))

	onlySecret := func(src string) bool { return src == "Models/Secret.cs" }
	assert.Len(t, s.ModelsFor(TargetTypeScript, onlySecret), 1)
}

func TestControllersForDropsEmptyControllers(t *testing.T) {
	s := &Set{Controllers: []Controller{
		{
			Name:       "UsersController",
			OutputName: "Users",
			Actions: []ControllerAction{
				{ActionName: "Get", Export: ExportDescriptor{Targets: TargetAngular}},
				{ActionName: "Delete", Export: ExportDescriptor{Targets: TargetOcelot}},
			},
		},
		{
			Name:       "AdminController",
			OutputName: "Admin",
			Actions:    []ControllerAction{{ActionName: "Wipe", Export: ExportDescriptor{Targets: TargetOcelot}}},
		},
	}}

	got := s.ControllersFor(TargetAngular, nil)
	require.Len(t, got, 1)
	require.Len(t, got[0].Actions, 1)
	assert.Equal(t, "Get", got[0].Actions[0].ActionName)

	// Source set untouched
	assert.Len(t, s.Controllers[0].Actions, 2)
}

func TestModelHelpers(t *testing.T) {
	m := Model{
		Name:       "Point",
		Fields:     []Property{{Identifier: "X", Type: "int"}},
		Properties: []Property{{Identifier: "Label", Type: "string"}},
		Kind:       KindRecord,
	}
	assert.False(t, m.IsInterface())
	assert.False(t, m.IsEnumeration())
	assert.Equal(t, []Property{{"X", "int"}, {"Label", "string"}}, m.Members())

	m.Enumerations = []EnumValue{}
	assert.True(t, m.IsEnumeration())

	a := ControllerAction{ReturnType: "User", ReturnTypeOverride: "UserDto", BadMethodReason: "x"}
	assert.Equal(t, "UserDto", a.EffectiveReturnType())
	assert.True(t, a.IsBroken())
}
