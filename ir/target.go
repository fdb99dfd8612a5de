// Package ir holds the language-neutral intermediate representation produced
// by extraction: models, enumerations and controller actions, each tagged
// with the set of export targets it must be emitted to.
package ir

import (
	"strings"
)

// Target is a bitset of consumer formats a declaration may be emitted to.
// All and FrontEnd are aliases that Expand resolves at consumption time.
type Target uint16

const (
	TargetAll Target = 1 << iota
	TargetFrontEnd
	TargetAngular
	TargetCSharp
	TargetOcelot
	TargetTypeScript
	TargetProto
)

// concreteTargets is every non-alias target
const concreteTargets = TargetAngular | TargetCSharp | TargetOcelot | TargetTypeScript | TargetProto

// frontEndTargets is what the FrontEnd alias stands for
const frontEndTargets = TargetAngular | TargetTypeScript | TargetProto

var targetNames = []struct {
	target Target
	name   string
}{
	{TargetAll, "All"},
	{TargetFrontEnd, "FrontEnd"},
	{TargetAngular, "Angular"},
	{TargetCSharp, "CSharp"},
	{TargetOcelot, "Ocelot"},
	{TargetTypeScript, "TypeScript"},
	{TargetProto, "Proto"},
}

// Expand replaces aliases with the concrete targets they stand for.
func (t Target) Expand() Target {
	out := t & concreteTargets
	if t&TargetAll != 0 {
		out |= concreteTargets
	}
	if t&TargetFrontEnd != 0 {
		out |= frontEndTargets
	}
	return out
}

// Has reports whether every concrete target in other is part of t once both
// are expanded. Has(0) is false.
func (t Target) Has(other Target) bool {
	want := other.Expand()
	return want != 0 && t.Expand()&want == want
}

// String renders the flags the way they are written in source, e.g.
// "Angular | Ocelot".
func (t Target) String() string {
	if t == 0 {
		return "None"
	}
	var parts []string
	for _, tn := range targetNames {
		if t&tn.target != 0 {
			parts = append(parts, tn.name)
		}
	}
	return strings.Join(parts, " | ")
}

// ParseTarget parses a single flag name. Qualified names such as
// "GasparType.Angular" are accepted; matching is case-insensitive.
func ParseTarget(name string) (Target, bool) {
	name = strings.TrimSpace(name)
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	for _, tn := range targetNames {
		if strings.EqualFold(tn.name, name) {
			return tn.target, true
		}
	}
	return 0, false
}

// ParseTargets parses a "|"-separated flag expression. Unknown names are
// returned separately so the caller can report them.
func ParseTargets(expr string) (Target, []string) {
	var out Target
	var unknown []string
	for _, part := range strings.Split(expr, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if t, ok := ParseTarget(part); ok {
			out |= t
		} else {
			unknown = append(unknown, part)
		}
	}
	return out, unknown
}

// ExportDescriptor is what the export target resolver attaches to every IR
// entity. Serializer and Scopes are carried but not consumed by any converter.
type ExportDescriptor struct {
	Targets            Target
	ReturnTypeOverride string
	Serializer         string
	Scopes             []string
}

// For reports whether the entity must be emitted to target.
func (d ExportDescriptor) For(target Target) bool {
	return d.Targets.Has(target)
}
