package extract

import (
	"github.com/teranos/gaspar/decl"
	"github.com/teranos/gaspar/ir"
	"github.com/teranos/gaspar/logger"
)

// Walk extracts every declaration in files, nested ones included, in
// (file, declaration) order. Controllers are never emitted as models.
func (x *Extractor) Walk(files []decl.File) *ir.Set {
	set := &ir.Set{}
	for _, f := range files {
		x.walkTypes(set, f.Path, f.Types)
	}
	x.log.Debugw("Extraction complete",
		logger.FieldModel, len(set.Models),
		logger.FieldEnum, len(set.Enums),
		logger.FieldController, len(set.Controllers))
	return set
}

func (x *Extractor) walkTypes(set *ir.Set, source string, types []decl.TypeDecl) {
	for _, td := range types {
		if IsController(td) {
			if c, ok := x.ExtractController(source, td); ok {
				set.Controllers = append(set.Controllers, *c)
			}
		} else if e, ok := x.Extract(source, td); ok {
			set.Add(e)
		}
		// members of a non-public type are unreachable from outside
		if td.Modifiers.Public() {
			x.walkTypes(set, source, td.Nested)
		}
	}
}

// Walk extracts files with the resolver described by marker and gating
func Walk(files []decl.File, resolver *Resolver) *ir.Set {
	return New(resolver).Walk(files)
}
