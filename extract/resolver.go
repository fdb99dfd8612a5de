// Package extract walks parsed declarations into the IR: models, enums and
// controller actions, each tagged with the export targets it resolves to.
package extract

import (
	"strings"

	"github.com/teranos/gaspar/config"
	"github.com/teranos/gaspar/decl"
	"github.com/teranos/gaspar/ir"
	"github.com/teranos/gaspar/logger"
)

// ExportOptions is the override-only attribute; it never makes a
// declaration eligible on its own.
const ExportOptions = "ExportOptions"

// Resolver decides whether a declaration is exported and to which targets.
type Resolver struct {
	marker string
	gating bool
}

// NewResolver creates a resolver for marker. With gating off every
// declaration is exported everywhere unless the marker says otherwise.
func NewResolver(marker string, gating bool) *Resolver {
	if marker == "" {
		marker = config.DefaultMarkerAttribute
	}
	return &Resolver{marker: marker, gating: gating}
}

// ResolverFor builds the resolver described by cfg.onlyWhenAttributed
func ResolverFor(cfg *config.Config) *Resolver {
	return NewResolver(cfg.MarkerAttribute(), cfg.UseAttribute())
}

// Marker is the attribute name the resolver looks for
func (r *Resolver) Marker() string { return r.marker }

// Gating reports whether the marker is required
func (r *Resolver) Gating() bool { return r.gating }

// Resolve returns the export descriptor for a declaration carrying attrs.
// The second result is false when gating excludes the declaration.
func (r *Resolver) Resolve(attrs decl.Attributes) (ir.ExportDescriptor, bool) {
	marker, marked := attrs.Find(r.marker)
	if !marked && r.gating {
		return ir.ExportDescriptor{}, false
	}

	desc := ir.ExportDescriptor{Targets: ir.TargetAll}
	if marked {
		desc = r.fromMarker(marker)
	}
	if opts, ok := attrs.Find(ExportOptions); ok {
		applyOverrides(&desc, opts, false)
	}
	return desc, true
}

// ResolveAction resolves a controller action. An action carrying the marker
// is resolved on its own; otherwise it inherits the controller's targets.
// A controller-level return type override is never inherited.
func (r *Resolver) ResolveAction(attrs decl.Attributes, parent ir.ExportDescriptor, parentOK bool) (ir.ExportDescriptor, bool) {
	if attrs.Has(r.marker) {
		return r.Resolve(attrs)
	}
	if !parentOK {
		return ir.ExportDescriptor{}, false
	}
	desc := parent
	desc.ReturnTypeOverride = ""
	if opts, ok := attrs.Find(ExportOptions); ok {
		applyOverrides(&desc, opts, false)
	}
	return desc, true
}

func (r *Resolver) fromMarker(a decl.Attribute) ir.ExportDescriptor {
	desc := ir.ExportDescriptor{Targets: ir.TargetAll}
	if flags, ok := a.Positional(0); ok {
		targets, unknown := ir.ParseTargets(flags)
		if len(unknown) > 0 {
			logger.Warnw("Unknown export targets ignored",
				logger.FieldTarget, strings.Join(unknown, ", "))
		}
		desc.Targets = targets
	}
	applyOverrides(&desc, a, true)
	return desc
}

// applyOverrides copies the named override arguments of a onto desc. Values
// already set are replaced only when replace is true.
func applyOverrides(desc *ir.ExportDescriptor, a decl.Attribute, replace bool) {
	if v, ok := a.Named("ReturnTypeOverride"); ok && (replace || desc.ReturnTypeOverride == "") {
		desc.ReturnTypeOverride = decl.Unquote(v)
	}
	if v, ok := a.Named("Serializer"); ok && (replace || desc.Serializer == "") {
		desc.Serializer = decl.Unquote(v)
	}
	for _, name := range []string{"ScopesOveride", "ScopesOverride", "Scopes"} {
		if v, ok := a.Named(name); ok && (replace || len(desc.Scopes) == 0) {
			desc.Scopes = stringLiterals(v)
			break
		}
	}
}

// stringLiterals returns the contents of every string literal in expr, e.g.
// `new[] { "a", "b" }` -> [a b].
func stringLiterals(expr string) []string {
	var out []string
	for {
		start := strings.IndexByte(expr, '"')
		if start < 0 {
			return out
		}
		end := strings.IndexByte(expr[start+1:], '"')
		if end < 0 {
			return out
		}
		out = append(out, expr[start+1:start+1+end])
		expr = expr[start+end+2:]
	}
}
