package ir

// Entity is implemented by *Model and *EnumModel, the two results of
// extracting a type declaration.
type Entity interface {
	ExportFor() ExportDescriptor
	SourceFile() string
}

func (m *Model) ExportFor() ExportDescriptor     { return m.Export }
func (m *Model) SourceFile() string              { return m.Source }
func (e *EnumModel) ExportFor() ExportDescriptor { return e.Export }
func (e *EnumModel) SourceFile() string          { return e.Source }

// Set is everything extracted in one pass, in (file, declaration) order.
type Set struct {
	Models      []Model
	Enums       []EnumModel
	Controllers []Controller
}

// Add appends an extracted entity
func (s *Set) Add(e Entity) {
	switch v := e.(type) {
	case *Model:
		s.Models = append(s.Models, *v)
	case *EnumModel:
		s.Enums = append(s.Enums, *v)
	}
}

// ModelsFor returns the models exported to target that keep(source) accepts.
// A nil keep accepts everything.
func (s *Set) ModelsFor(target Target, keep func(source string) bool) []Model {
	var out []Model
	for _, m := range s.Models {
		if m.Export.For(target) && (keep == nil || keep(m.Source)) {
			out = append(out, m)
		}
	}
	return out
}

// EnumsFor returns the enums exported to target that keep(source) accepts
func (s *Set) EnumsFor(target Target, keep func(source string) bool) []EnumModel {
	var out []EnumModel
	for _, e := range s.Enums {
		if e.Export.For(target) && (keep == nil || keep(e.Source)) {
			out = append(out, e)
		}
	}
	return out
}

// ControllersFor returns the controllers exported to target with only the
// actions exported to target. Controllers left without actions are dropped.
func (s *Set) ControllersFor(target Target, keep func(source string) bool) []Controller {
	var out []Controller
	for _, c := range s.Controllers {
		if keep != nil && !keep(c.Source) {
			continue
		}
		var actions []ControllerAction
		for _, a := range c.Actions {
			if a.Export.For(target) {
				actions = append(actions, a)
			}
		}
		if len(actions) == 0 {
			continue
		}
		c.Actions = actions
		out = append(out, c)
	}
	return out
}
