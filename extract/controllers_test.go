package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/gaspar/decl"
	"github.com/teranos/gaspar/ir"
)

func attr(name string, positional ...string) decl.Attribute {
	a := decl.Attribute{Name: name}
	for _, p := range positional {
		a.Args = append(a.Args, decl.Argument{Value: p})
	}
	return a
}

func param(name, typ string, attrs ...string) decl.Parameter {
	p := decl.Parameter{Name: name, Type: typ}
	for _, a := range attrs {
		p.Attributes = append(p.Attributes, decl.Attribute{Name: a})
	}
	return p
}

func usersController(methods ...decl.Method) decl.TypeDecl {
	return decl.TypeDecl{
		Kind:       decl.KindClass,
		Name:       "UsersController",
		Modifiers:  public,
		Attributes: decl.Attributes{attr("ApiController"), attr("Route", `"api/[controller]"`)},
		BaseTypes:  []string{"ControllerBase"},
		Methods:    methods,
	}
}

func TestExtractController(t *testing.T) {
	x := New(NewResolver("ExportFor", false))
	td := usersController(
		decl.Method{
			Name:       "Get",
			ReturnType: "Task<ActionResult<User>>",
			Modifiers:  decl.Modifiers{"public", "async"},
			Attributes: decl.Attributes{attr("HttpGet", `"{id:int}"`)},
			Parameters: []decl.Parameter{
				param("id", "int"),
				{Name: "expand", Type: "string", Default: strPtr("null")},
				param("ct", "CancellationToken"),
			},
		},
		decl.Method{
			Name:       "Create",
			ReturnType: "IActionResult",
			Modifiers:  public,
			Attributes: decl.Attributes{attr("HttpPost")},
			Parameters: []decl.Parameter{
				param("user", "User", "FromBody"),
				param("logger", "ILogger", "FromServices"),
			},
		},
		decl.Method{
			Name:       "Helper",
			ReturnType: "void",
			Modifiers:  public,
		},
		decl.Method{
			Name:       "Skipped",
			ReturnType: "void",
			Modifiers:  public,
			Attributes: decl.Attributes{attr("HttpGet"), attr("NonAction")},
		},
	)

	c, ok := x.ExtractController("Controllers/UsersController.cs", td)
	require.True(t, ok)
	assert.Equal(t, "UsersController", c.Name)
	assert.Equal(t, "Users", c.OutputName)
	require.Len(t, c.Actions, 2)

	get := c.Actions[0]
	assert.Equal(t, "Get", get.ActionName)
	assert.Equal(t, "GET", get.HTTPMethod)
	assert.Equal(t, "api/Users/{id}", get.Route)
	assert.Equal(t, "User", get.ReturnType)
	assert.False(t, get.IsBroken())
	require.Len(t, get.Parameters, 2)
	assert.False(t, get.Parameters[0].IsQuery)
	assert.True(t, get.Parameters[1].IsQuery)
	assert.Equal(t, "null", *get.Parameters[1].DefaultValue)

	create := c.Actions[1]
	assert.Equal(t, "POST", create.HTTPMethod)
	assert.Equal(t, "api/Users", create.Route)
	assert.Equal(t, "User", create.BodyType)
	assert.Equal(t, "void", create.ReturnType)
	assert.Empty(t, create.Parameters)
}

func TestExtractControllerBrokenActions(t *testing.T) {
	x := New(NewResolver("ExportFor", false))
	td := usersController(
		decl.Method{
			Name:       "Merge",
			ReturnType: "void",
			Modifiers:  public,
			Attributes: decl.Attributes{attr("HttpPost", `"merge"`)},
			Parameters: []decl.Parameter{param("a", "User", "FromBody"), param("b", "User", "FromBody")},
		},
		decl.Method{
			Name:       "Upload",
			ReturnType: "void",
			Modifiers:  public,
			Attributes: decl.Attributes{attr("HttpPost", `"upload"`)},
			Parameters: []decl.Parameter{param("file", "IFormFile")},
		},
		decl.Method{
			Name:       "Lookup",
			ReturnType: "User",
			Modifiers:  public,
			Attributes: decl.Attributes{attr("HttpGet", `"{name}"`)},
			Parameters: []decl.Parameter{param("tenant", "string", "FromHeader")},
		},
	)

	c, ok := x.ExtractController("c.cs", td)
	require.True(t, ok)
	require.Len(t, c.Actions, 3)

	assert.Equal(t, ReasonMultipleBodies, c.Actions[0].BadMethodReason)
	assert.Equal(t, ReasonFormParameter, c.Actions[1].BadMethodReason)
	assert.Equal(t,
		ReasonHeaderParameter+"; route parameter {name} has no matching method parameter",
		c.Actions[2].BadMethodReason)
}

func TestExtractControllerRenamesPlaceholdersToParameters(t *testing.T) {
	x := New(NewResolver("ExportFor", false))
	td := usersController(decl.Method{
		Name:       "Get",
		ReturnType: "User",
		Modifiers:  public,
		Attributes: decl.Attributes{attr("HttpGet", `"{Id:int}/orders/{ORDER?}"`)},
		Parameters: []decl.Parameter{param("id", "int"), param("order", "string")},
	})

	c, ok := x.ExtractController("Controllers/UsersController.cs", td)
	require.True(t, ok)
	require.Len(t, c.Actions, 1)

	a := c.Actions[0]
	assert.Equal(t, "api/Users/{id}/orders/{order}", a.Route)
	assert.Empty(t, a.BadMethodReason)
	assert.Empty(t, a.QueryParameters())
}

func TestExtractControllerActionNamesAndOverloads(t *testing.T) {
	x := New(NewResolver("ExportFor", false))
	td := usersController(
		decl.Method{Name: "Get", ReturnType: "User", Modifiers: public,
			Attributes: decl.Attributes{attr("HttpGet", `"{id}"`)}, Parameters: []decl.Parameter{param("id", "int")}},
		decl.Method{Name: "Get", ReturnType: "List<User>", Modifiers: public,
			Attributes: decl.Attributes{attr("HttpGet")}},
		decl.Method{Name: "Search", ReturnType: "List<User>", Modifiers: public,
			Attributes: decl.Attributes{attr("HttpGet"), attr("Route", `"find/[action]"`), attr("ActionName", `"Find"`)}},
		decl.Method{Name: "Health", ReturnType: "string", Modifiers: public,
			Attributes: decl.Attributes{attr("HttpGet", `"~/health"`)}},
	)

	c, ok := x.ExtractController("c.cs", td)
	require.True(t, ok)
	require.Len(t, c.Actions, 4)
	assert.Equal(t, "Get", c.Actions[0].OutputActionName)
	assert.Equal(t, "Get2", c.Actions[1].OutputActionName)
	assert.Equal(t, "Find", c.Actions[2].OutputActionName)
	assert.Equal(t, "Search", c.Actions[2].ActionName)
	assert.Equal(t, "api/Users/find/Find", c.Actions[2].Route)
	assert.Equal(t, "health", c.Actions[3].Route)
}

func TestExtractControllerGating(t *testing.T) {
	x := New(NewResolver("ExportFor", true))
	td := usersController(
		decl.Method{Name: "Get", ReturnType: "User", Modifiers: public,
			Attributes: decl.Attributes{attr("HttpGet")}},
		decl.Method{Name: "Post", ReturnType: "User", Modifiers: public,
			Attributes: decl.Attributes{attr("HttpPost"), exportFor("GasparType.Ocelot",
				decl.Argument{Name: "ReturnTypeOverride", Value: `"UserDto"`})}},
	)

	c, ok := x.ExtractController("c.cs", td)
	require.True(t, ok)
	require.Len(t, c.Actions, 1)
	assert.Equal(t, "Post", c.Actions[0].ActionName)
	assert.Equal(t, ir.TargetOcelot, c.Actions[0].Export.Targets)
	assert.Equal(t, "UserDto", c.Actions[0].EffectiveReturnType())

	td.Methods = td.Methods[:1]
	_, ok = x.ExtractController("c.cs", td)
	assert.False(t, ok)

	td.Attributes = append(td.Attributes, exportFor("GasparType.Angular"))
	c, ok = x.ExtractController("c.cs", td)
	require.True(t, ok)
	assert.Equal(t, ir.TargetAngular, c.Actions[0].Export.Targets)
}

func TestIsController(t *testing.T) {
	assert.True(t, IsController(decl.TypeDecl{Kind: decl.KindClass, Name: "OrdersController", Modifiers: public}))
	assert.True(t, IsController(decl.TypeDecl{Kind: decl.KindClass, Name: "Orders", Modifiers: public,
		Attributes: decl.Attributes{attr("ApiController")}}))
	assert.False(t, IsController(decl.TypeDecl{Kind: decl.KindClass, Name: "BaseController",
		Modifiers: decl.Modifiers{"public", "abstract"}}))
	assert.False(t, IsController(decl.TypeDecl{Kind: decl.KindInterface, Name: "IController", Modifiers: public}))
	assert.False(t, IsController(decl.TypeDecl{Kind: decl.KindClass, Name: "HiddenController"}))
}

func TestCombineRoutes(t *testing.T) {
	tests := []struct {
		class, action, want string
	}{
		{"api/users", "{id:int}", "api/users/{id}"},
		{"api/users/", "/absolute", "absolute"},
		{"api/users", "~/root/{slug?}", "root/{slug}"},
		{"", "health", "health"},
		{"api/users", "", "api/users"},
		{"files", "{*path}", "files/{path}"},
		{"/api/", "{id:min(1)}/items", "api/{id}/items"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CombineRoutes(tt.class, tt.action), "%s + %s", tt.class, tt.action)
	}
}

func TestUnwrapReturnType(t *testing.T) {
	tests := map[string]string{
		"Task<ActionResult<User>>":      "User",
		"ValueTask<List<User>>":         "List<User>",
		"ActionResult<int?>":            "int?",
		"IActionResult":                 "void",
		"Task<IActionResult>":           "void",
		"System.Threading.Tasks.Task":   "void",
		"Task":                          "void",
		"Dictionary<string, User>":      "Dictionary<string, User>",
		"void":                          "void",
		"Task<Dictionary<string, int>>": "Dictionary<string, int>",
	}
	for in, want := range tests {
		assert.Equal(t, want, UnwrapReturnType(in), in)
	}
}

func TestWalk(t *testing.T) {
	files := []decl.File{
		{
			Path: "Models/User.cs",
			Types: []decl.TypeDecl{
				{
					Kind:      decl.KindClass,
					Name:      "User",
					Modifiers: public,
					Nested: []decl.TypeDecl{
						{Kind: decl.KindEnum, Name: "Role", Modifiers: public, EnumMembers: []decl.EnumMember{{Name: "Admin"}}},
					},
				},
				{
					Kind:   decl.KindClass,
					Name:   "Hidden",
					Nested: []decl.TypeDecl{{Kind: decl.KindClass, Name: "Inner", Modifiers: public}},
				},
			},
		},
		{
			Path: "Controllers/UsersController.cs",
			Types: []decl.TypeDecl{usersController(decl.Method{
				Name: "Get", ReturnType: "User", Modifiers: public,
				Attributes: decl.Attributes{attr("HttpGet")},
			})},
		},
	}

	set := Walk(files, NewResolver("ExportFor", false))
	require.Len(t, set.Models, 1)
	assert.Equal(t, "User", set.Models[0].Name)
	require.Len(t, set.Enums, 1)
	assert.Equal(t, "Role", set.Enums[0].Identifier)
	require.Len(t, set.Controllers, 1)
	assert.Equal(t, "Controllers/UsersController.cs", set.Controllers[0].Source)
}
