package translate

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func tsRules() Rules {
	return Rules{
		Table: map[string]string{
			"string":   "string",
			"int":      "number",
			"bool":     "boolean",
			"DateTime": "string",
			"object":   "any",
		},
		Collection: func(elem string) string {
			if strings.Contains(elem, " | ") {
				return "(" + elem + ")[]"
			}
			return elem + "[]"
		},
		Dictionary: func(k, v string) string { return fmt.Sprintf("{ [key: %s]: %s }", k, v) },
		Nullable:   func(t string) string { return t + " | null" },
		Generic: func(name string, args []string) string {
			return name + "<" + strings.Join(args, ", ") + ">"
		},
	}
}

func protoRules() Rules {
	return Rules{
		Table: map[string]string{
			"string": "string",
			"int":    "int32",
			"long":   "int64",
			"bool":   "bool",
		},
		Collection: func(elem string) string { return "repeated " + elem },
		Dictionary: func(k, v string) string { return fmt.Sprintf("map<%s, %s>", k, v) },
		Prefix: func(name string) string {
			if strings.HasPrefix(name, "repeated") || strings.HasPrefix(name, "map<") {
				return name
			}
			return "Proto_" + name
		},
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name  string
		rules Rules
		input string
		want  string
	}{
		// Table
		{"ts primitive", tsRules(), "int", "number"},
		{"ts nullable primitive", tsRules(), "int?", "number | null"},
		{"ts user type", tsRules(), "User", "User"},
		{"ts nullable user type", tsRules(), "User?", "User | null"},
		{"ts qualified primitive", tsRules(), "System.DateTime", "string"},

		// Arrays and collections
		{"ts array", tsRules(), "string[]", "string[]"},
		{"ts list", tsRules(), "List<int>", "number[]"},
		{"ts ienumerable user", tsRules(), "IEnumerable<User>", "User[]"},
		{"ts nested list", tsRules(), "List<List<int>>", "number[][]"},
		{"ts list of nullable", tsRules(), "List<int?>", "(number | null)[]"},
		{"ts nullable list", tsRules(), "List<int>?", "number[] | null"},
		{"ts jagged array", tsRules(), "int[][]", "number[][]"},

		// Dictionaries
		{"ts dictionary", tsRules(), "Dictionary<string, int>", "{ [key: string]: number }"},
		{"ts dictionary nested value", tsRules(), "IDictionary<string, List<User>>", "{ [key: string]: User[] }"},
		{"ts dictionary of dictionary", tsRules(), "Dictionary<string, Dictionary<int, bool>>", "{ [key: string]: { [key: number]: boolean } }"},

		// Generic user types
		{"ts generic", tsRules(), "Page<User>", "Page<User>"},
		{"ts generic nested", tsRules(), "Page<List<int>>", "Page<number[]>"},

		// Proto
		{"proto primitive", protoRules(), "long", "int64"},
		{"proto user type", protoRules(), "User", "Proto_User"},
		{"proto nullable drops marker", protoRules(), "int?", "int32"},
		{"proto nullable user", protoRules(), "User?", "Proto_User"},
		{"proto array", protoRules(), "User[]", "repeated Proto_User"},
		{"proto list primitive", protoRules(), "List<int>", "repeated int32"},
		{"proto list user", protoRules(), "List<User>", "repeated Proto_User"},
		{"proto nested list kept as is", protoRules(), "List<List<int>>", "repeated repeated int32"},
		{"proto map", protoRules(), "Dictionary<string, User>", "map<string, Proto_User>"},
		{"proto map user key", protoRules(), "Dictionary<Guid, int>", "map<Proto_Guid, int32>"},
		{"proto generic drops args", protoRules(), "Page<User>", "Proto_Page"},

		// Unparseable input is a user type
		{"tuple", tsRules(), "(int, string)", "(int, string)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(tt.rules, nil)
			assert.Equal(t, tt.want, tr.Translate(tt.input))
		})
	}
}

func TestTranslate_TableIsPure(t *testing.T) {
	rules := tsRules()
	tr := New(rules, nil)
	for k, v := range rules.Table {
		assert.Equal(t, v, tr.Translate(k), "table entry %s", k)
	}
}

func TestTranslate_CustomOverridesBuiltin(t *testing.T) {
	tr := New(tsRules(), map[string]string{
		"DateTime":                   "Date",
		"JsonElement":                "unknown",
		"Dictionary<string,object>": "Record<string, any>",
	})

	assert.Equal(t, "Date", tr.Translate("DateTime"))
	assert.Equal(t, "Date | null", tr.Translate("DateTime?"))
	assert.Equal(t, "unknown[]", tr.Translate("List<JsonElement>"))
	assert.Equal(t, "Record<string, any>", tr.Translate("Dictionary<string, object>"))
	assert.Equal(t, "number", tr.Translate("int"), "built-ins not overridden survive")
}

func TestTranslate_CustomValuesAreNotPrefixed(t *testing.T) {
	tr := New(protoRules(), map[string]string{"Guid": "string", "Money": "google.type.Money"})

	assert.Equal(t, "string", tr.Translate("Guid"))
	assert.Equal(t, "google.type.Money", tr.Translate("Money"))
	assert.Equal(t, "repeated google.type.Money", tr.Translate("List<Money>"))
	assert.Equal(t, "map<string, google.type.Money>", tr.Translate("Dictionary<Guid, Money>"))
	assert.True(t, tr.IsTableValue("google.type.Money"))
}

func TestTranslate_Deterministic(t *testing.T) {
	tr := New(tsRules(), map[string]string{"A": "X", "B": "Y"})
	first := tr.Translate("Dictionary<string, List<Page<A>>>")
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, tr.Translate("Dictionary<string, List<Page<A>>>"))
	}
}

func TestUserTypes(t *testing.T) {
	tr := New(tsRules(), nil)

	assert.Equal(t, []string{"User"}, tr.UserTypes("List<User>"))
	assert.Equal(t, []string{"Page", "User"}, tr.UserTypes("Page<User>?"))
	assert.Equal(t, []string{"Role", "User"}, tr.UserTypes("Dictionary<Role, User[]>"))
	assert.Empty(t, tr.UserTypes("Dictionary<string, int>"))
	assert.Empty(t, tr.UserTypes("(int, string)"))
}
