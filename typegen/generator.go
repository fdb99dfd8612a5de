package typegen

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/gaspar/config"
	"github.com/teranos/gaspar/errors"
	"github.com/teranos/gaspar/ir"
	"github.com/teranos/gaspar/logger"
	"github.com/teranos/gaspar/source"
)

// Artifact kinds
const (
	KindModels      = "models"
	KindControllers = "controllers"
	KindHelper      = "helper"
)

// Banner is written at the top of every generated file through the
// converter's Comment; formats without comments emit nothing.
var Banner = []string{
	" <auto-generated>",
	"     This file was generated by gaspar.",
	"     Changes to this file will be lost when the code is regenerated.",
	" </auto-generated>",
}

// Artifact is one generated file
type Artifact struct {
	// Path is absolute, resolved against the configuration directory
	Path    string
	Kind    string
	Output  config.Output
	Content []byte
}

// Generator turns an extracted IR set into artifacts for every output
// configured in models.output and controllers.output.
type Generator struct {
	cfg *config.Config
	log *zap.SugaredLogger
}

// NewGenerator creates a generator for cfg
func NewGenerator(cfg *config.Config) *Generator {
	return &Generator{cfg: cfg, log: logger.ComponentLogger("typegen")}
}

// Generate renders every configured output. An output that fails produces
// no artifact; the remaining outputs still render and all failures are
// returned joined (see errors.Flatten).
func (g *Generator) Generate(set *ir.Set) ([]Artifact, error) {
	var artifacts []Artifact
	var errs []error

	modelSel := source.Matcher{Include: g.cfg.Models.Include, Exclude: g.cfg.Models.Exclude}
	for _, out := range g.cfg.Models.Output {
		a, err := g.generateModels(set, out, modelSel.Match)
		if err != nil {
			errs = append(errs, errors.Wrapf(err, "models output %s", out.Location))
			g.log.Errorw("Model output failed", logger.FieldOutput, out.Location, logger.FieldError, err)
			continue
		}
		artifacts = append(artifacts, a)
	}

	ctrlSel := source.Matcher{Include: g.cfg.Controllers.Include, Exclude: g.cfg.Controllers.Exclude}
	for _, out := range g.cfg.Controllers.Output {
		as, err := g.generateControllers(set, out, ctrlSel.Match)
		if err != nil {
			errs = append(errs, errors.Wrapf(err, "controllers output %s", out.Location))
			g.log.Errorw("Controller output failed", logger.FieldOutput, out.Location, logger.FieldError, err)
			continue
		}
		artifacts = append(artifacts, as...)
	}
	return artifacts, errors.Join(errs...)
}

func (g *Generator) generateModels(set *ir.Set, out config.Output, keep func(string) bool) (Artifact, error) {
	target, ok := TargetFor(out.Type)
	if !ok {
		return Artifact{}, errors.Newf("unknown output type %q", out.Type)
	}
	conv, err := NewConverter(g.cfg, out)
	if err != nil {
		return Artifact{}, err
	}

	models := set.ModelsFor(target, keep)
	enums := set.EnumsFor(target, keep)

	lines := banner(conv)
	header, err := conv.ModelHeader(out)
	if err != nil {
		return Artifact{}, err
	}
	lines = append(lines, header...)

	if batch, ok := conv.(ModelBatchConverter); ok {
		converted, err := batch.ConvertModels(models)
		if err != nil {
			return Artifact{}, err
		}
		lines = append(lines, converted...)
	} else {
		for _, m := range models {
			converted, err := conv.ConvertModel(m)
			if err != nil {
				return Artifact{}, errors.Wrapf(err, "model %s", m.Name)
			}
			lines = append(lines, converted...)
		}
	}

	for _, e := range enums {
		converted, err := conv.ConvertEnum(e)
		if err != nil {
			return Artifact{}, errors.Wrapf(err, "enum %s", e.Identifier)
		}
		lines = append(lines, converted...)
	}

	g.log.Infow("Generated models",
		logger.FieldOutput, out.Location,
		logger.FieldTarget, target.String(),
		logger.FieldModel, len(models),
		logger.FieldEnum, len(enums))

	return Artifact{
		Path:    g.cfg.Resolve(out.Location),
		Kind:    KindModels,
		Output:  out,
		Content: join(lines),
	}, nil
}

func (g *Generator) generateControllers(set *ir.Set, out config.Output, keep func(string) bool) ([]Artifact, error) {
	target, ok := TargetFor(out.Type)
	if !ok {
		return nil, errors.Newf("unknown output type %q", out.Type)
	}
	conv, err := NewConverter(g.cfg, out)
	if err != nil {
		return nil, err
	}

	controllers := set.ControllersFor(target, keep)

	lines := banner(conv)
	header, err := conv.ControllerHeader(out, CustomTypes(controllers))
	if err != nil {
		return nil, err
	}
	lines = append(lines, header...)

	for i, c := range controllers {
		converted, err := conv.ConvertController(c.Actions, c.OutputName, out, i == len(controllers)-1)
		if err != nil {
			return nil, errors.Wrapf(err, "controller %s", c.Name)
		}
		lines = append(lines, converted...)
	}

	footer, err := conv.ControllerFooter()
	if err != nil {
		return nil, err
	}
	lines = append(lines, footer...)

	if v, ok := conv.(Validator); ok {
		if err := v.Validate(lines); err != nil {
			return nil, err
		}
	}

	location := g.cfg.Resolve(out.Location)
	artifacts := []Artifact{{
		Path:    location,
		Kind:    KindControllers,
		Output:  out,
		Content: join(lines),
	}}

	if out.HelperFile != "" {
		helper, err := conv.ControllerHelperFile(out)
		if err != nil {
			return nil, err
		}
		if len(helper) > 0 {
			artifacts = append(artifacts, Artifact{
				Path:    filepath.Join(filepath.Dir(location), filepath.FromSlash(out.HelperFile)),
				Kind:    KindHelper,
				Output:  out,
				Content: join(append(banner(conv), helper...)),
			})
		}
	}

	g.log.Infow("Generated controllers",
		logger.FieldOutput, out.Location,
		logger.FieldTarget, target.String(),
		logger.FieldController, len(controllers))
	return artifacts, nil
}

// CustomTypes collects the type expressions an output's actions reference,
// return type first, then body, then parameters.
func CustomTypes(controllers []ir.Controller) []string {
	var out []string
	for _, c := range controllers {
		for _, a := range c.Actions {
			if rt := a.EffectiveReturnType(); rt != "" && rt != "void" {
				out = append(out, rt)
			}
			if a.BodyType != "" {
				out = append(out, a.BodyType)
			}
			for _, p := range a.Parameters {
				out = append(out, p.Type)
			}
		}
	}
	return out
}

func banner(conv Converter) []string {
	var lines []string
	for i, text := range Banner {
		blank := 0
		if i == len(Banner)-1 {
			blank = 1
		}
		lines = append(lines, conv.Comment(text, blank)...)
	}
	return lines
}

// join assembles lines with a trailing newline
func join(lines []string) []byte {
	return []byte(strings.Join(lines, "\n") + "\n")
}
