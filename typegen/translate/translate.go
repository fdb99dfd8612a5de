package translate

import (
	"strings"

	"github.com/teranos/gaspar/logger"
)

// Rules configures how one target language spells types.
type Rules struct {
	// Table maps C# type names to target types; custom translations are
	// merged over it
	Table map[string]string

	// Collection formats a sequence type given the element type,
	// e.g. TypeScript: "%s[]", proto: "repeated %s"
	Collection func(elem string) string

	// Dictionary formats a map type given key and value types
	Dictionary func(key, value string) string

	// Prefix decorates a user type name, e.g. proto "Proto_%s". Table values
	// are never passed to it. Nil leaves names unchanged.
	Prefix func(name string) string

	// Nullable formats T?, nil drops the marker
	Nullable func(t string) string

	// Generic formats a user generic type given its translated arguments,
	// nil drops the arguments
	Generic func(name string, args []string) string
}

// CollectionNames are the single-argument generics translated as sequences
var CollectionNames = map[string]bool{
	"List":                true,
	"IList":               true,
	"IReadOnlyList":       true,
	"IEnumerable":         true,
	"ICollection":         true,
	"IReadOnlyCollection": true,
	"HashSet":             true,
}

// DictionaryNames are the two-argument generics translated as maps
var DictionaryNames = map[string]bool{
	"Dictionary":          true,
	"IDictionary":         true,
	"SortedDictionary":    true,
	"IReadOnlyDictionary": true,
}

// Translator translates type expressions for one target
type Translator struct {
	rules  Rules
	table  map[string]string
	values map[string]bool
}

// New merges custom over rules.Table; custom entries win. Custom keys are
// canonicalised so "Dictionary<string,object>" and
// "Dictionary<string, object>" are the same key.
func New(rules Rules, custom map[string]string) *Translator {
	t := &Translator{
		rules:  rules,
		table:  make(map[string]string, len(rules.Table)+len(custom)),
		values: make(map[string]bool),
	}
	for k, v := range rules.Table {
		t.table[k] = v
	}
	for k, v := range custom {
		if e, err := Parse(k); err == nil {
			k = e.String()
		}
		t.table[k] = v
	}
	for _, v := range t.table {
		t.values[v] = true
	}
	return t
}

// Lookup returns the table entry for a type name
func (t *Translator) Lookup(name string) (string, bool) {
	v, ok := t.table[name]
	return v, ok
}

// IsTableValue reports whether s is a translation result from the table
func (t *Translator) IsTableValue(s string) bool {
	return t.values[s]
}

// Translate translates a type expression. Input the parser rejects is
// treated as an opaque user type name.
func (t *Translator) Translate(expr string) string {
	expr = strings.TrimSpace(expr)
	if v, ok := t.table[expr]; ok {
		return v
	}

	e, err := Parse(expr)
	if err != nil {
		logger.Debugw("Unparseable type expression, passing through", "type", expr, logger.FieldError, err)
		return t.prefix(expr, false)
	}
	return t.TranslateExpr(e)
}

// TranslateExpr translates a parsed expression
func (t *Translator) TranslateExpr(e *Expr) string {
	s, final := t.translate(e)
	return t.prefix(s, final)
}

// translate returns the translation and whether it is final; non-final
// results are bare user type names still subject to Prefix.
func (t *Translator) translate(e *Expr) (string, bool) {
	// Exact lookup, nullable marker included
	if v, ok := t.lookup(e); ok {
		return v, true
	}

	if e.Nullable {
		inner := t.TranslateExpr(e.NonNullable())
		if t.rules.Nullable == nil {
			return inner, true
		}
		return t.rules.Nullable(inner), true
	}

	// T[]
	if e.Elem != nil {
		return t.collection(t.TranslateExpr(e.Elem)), true
	}

	if CollectionNames[e.Name] && len(e.Args) == 1 {
		arg := e.Args[0]
		var elem string
		if arg.Simple() {
			// Bare identifier: table only
			v, ok := t.lookup(arg)
			if !ok {
				v = arg.Name
			}
			elem = t.prefix(v, ok)
		} else {
			elem = t.TranslateExpr(arg)
		}
		return t.collection(elem), true
	}

	// Key must be a bare identifier; it goes through the table only while the
	// value is translated recursively.
	if DictionaryNames[e.Name] && len(e.Args) == 2 && e.Args[0].Simple() {
		k, ok := t.lookup(e.Args[0])
		if !ok {
			k = e.Args[0].Name
		}
		key := t.prefix(k, ok)
		value := t.TranslateExpr(e.Args[1])
		if t.rules.Dictionary == nil {
			return key, true
		}
		return t.rules.Dictionary(key, value), true
	}

	if len(e.Args) > 0 {
		if t.rules.Generic == nil {
			return e.Name, false
		}
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = t.TranslateExpr(a)
		}
		return t.rules.Generic(t.prefix(e.Name, false), args), true
	}

	return e.Name, false
}

// lookup tries the canonical text, then the unqualified name
func (t *Translator) lookup(e *Expr) (string, bool) {
	canon := e.String()
	if v, ok := t.table[canon]; ok {
		return v, true
	}
	if e.Elem == nil && len(e.Args) == 0 {
		if i := strings.LastIndex(e.Name, "."); i >= 0 {
			short := e.Name[i+1:]
			if e.Nullable {
				short += "?"
			}
			if v, ok := t.table[short]; ok {
				return v, true
			}
		}
	}
	return "", false
}

func (t *Translator) collection(elem string) string {
	if t.rules.Collection == nil {
		return elem
	}
	return t.rules.Collection(elem)
}

func (t *Translator) prefix(s string, final bool) string {
	if final || t.rules.Prefix == nil || t.values[s] {
		return s
	}
	return t.rules.Prefix(s)
}

// UserTypes returns the user type names referenced by expr in first-seen
// order: every leaf name that is neither in the table nor a collection or
// dictionary generic.
func (t *Translator) UserTypes(expr string) []string {
	e, err := Parse(strings.TrimSpace(expr))
	if err != nil {
		return nil
	}
	var out []string
	seen := make(map[string]bool)
	var walk func(e *Expr)
	walk = func(e *Expr) {
		if _, ok := t.lookup(e); ok {
			return
		}
		if e.Nullable {
			walk(e.NonNullable())
			return
		}
		if e.Elem != nil {
			walk(e.Elem)
			return
		}
		isContainer := (CollectionNames[e.Name] && len(e.Args) == 1) || (DictionaryNames[e.Name] && len(e.Args) == 2)
		if !isContainer && !seen[e.Name] {
			seen[e.Name] = true
			out = append(out, e.Name)
		}
		for _, a := range e.Args {
			walk(a)
		}
	}
	walk(e)
	return out
}
