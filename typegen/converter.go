// Package typegen drives generation: it selects a converter per configured
// output, feeds it the IR entities exported to that output and assembles
// the resulting lines into files.
package typegen

import (
	"strings"

	"github.com/teranos/gaspar/config"
	"github.com/teranos/gaspar/errors"
	"github.com/teranos/gaspar/ir"
	"github.com/teranos/gaspar/typegen/angular"
	"github.com/teranos/gaspar/typegen/ocelot"
	"github.com/teranos/gaspar/typegen/proto"
	"github.com/teranos/gaspar/typegen/typescript"
)

// Converter is implemented by every output backend. Operations a backend
// cannot perform return errors.ErrUnsupportedOperation. Converters keep
// indentation state between header and footer, so one instance serves one
// artifact.
type Converter interface {
	Comment(text string, followingBlankLines int) []string
	ModelHeader(out config.Output) ([]string, error)
	ConvertModel(m ir.Model) ([]string, error)
	ConvertEnum(e ir.EnumModel) ([]string, error)
	ControllerHeader(out config.Output, customTypes []string) ([]string, error)
	ControllerHelperFile(out config.Output) ([]string, error)
	ConvertController(actions []ir.ControllerAction, outputClassName string, out config.Output, lastController bool) ([]string, error)
	ControllerFooter() ([]string, error)
}

// ModelBatchConverter is implemented by backends that need to see every
// model at once, e.g. to group implementors under their interface.
type ModelBatchConverter interface {
	ConvertModels(models []ir.Model) ([]string, error)
}

// Validator is implemented by backends that can check an assembled document
type Validator interface {
	Validate(lines []string) error
}

// Compile-time interface checks
var (
	_ Converter           = (*typescript.Converter)(nil)
	_ Converter           = (*angular.Converter)(nil)
	_ Converter           = (*ocelot.Converter)(nil)
	_ Converter           = (*proto.Converter)(nil)
	_ ModelBatchConverter = (*proto.Converter)(nil)
	_ Validator           = (*ocelot.Converter)(nil)
)

var outputTargets = map[string]ir.Target{
	config.OutputAngular:    ir.TargetAngular,
	config.OutputTypeScript: ir.TargetTypeScript,
	config.OutputOcelot:     ir.TargetOcelot,
	config.OutputProto:      ir.TargetProto,
	config.OutputCSharp:     ir.TargetCSharp,
}

// TargetFor maps an output type to the export target it consumes
func TargetFor(outputType string) (ir.Target, bool) {
	t, ok := outputTargets[strings.ToLower(outputType)]
	return t, ok
}

// NewConverter creates a fresh converter for out
func NewConverter(cfg *config.Config, out config.Output) (Converter, error) {
	switch out.Kind() {
	case config.OutputTypeScript:
		return typescript.New(cfg), nil
	case config.OutputAngular:
		return angular.New(cfg), nil
	case config.OutputOcelot:
		return ocelot.New(cfg), nil
	case config.OutputProto:
		return proto.New(cfg), nil
	case config.OutputCSharp:
		return nil, errors.UnsupportedOperation(config.OutputCSharp, "output generation")
	default:
		return nil, errors.Newf("unknown output type %q", out.Type)
	}
}
