package ir

// Controller groups the actions of one controller class under a single
// output class name.
type Controller struct {
	Name       string
	OutputName string
	Actions    []ControllerAction
	Export     ExportDescriptor
	Source     string
}

// ControllerAction is one HTTP-exposed method.
type ControllerAction struct {
	ActionName       string
	OutputActionName string
	// Route has no leading slash and may contain {param} placeholders
	Route      string
	HTTPMethod string
	Parameters []Parameter
	// BodyType is empty when the action takes no request body
	BodyType           string
	ReturnType         string
	ReturnTypeOverride string
	// BadMethodReason is non-empty for actions that cannot be called as
	// generated; they are still emitted as stubs.
	BadMethodReason string
	Export          ExportDescriptor
}

// IsBroken reports whether the action carries a broken-method reason
func (a ControllerAction) IsBroken() bool {
	return a.BadMethodReason != ""
}

// EffectiveReturnType is the override when present, the declared type otherwise
func (a ControllerAction) EffectiveReturnType() string {
	if a.ReturnTypeOverride != "" {
		return a.ReturnTypeOverride
	}
	return a.ReturnType
}

// QueryParameters returns the parameters bound to the query string, in order
func (a ControllerAction) QueryParameters() []Parameter {
	var out []Parameter
	for _, p := range a.Parameters {
		if p.IsQuery {
			out = append(out, p)
		}
	}
	return out
}

// Parameter is an action parameter
type Parameter struct {
	Identifier   string
	Type         string
	DefaultValue *string
	IsQuery      bool
}
