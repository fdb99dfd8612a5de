package logger

import "go.uber.org/zap"

// Standard field names for consistent structured logging across gaspar.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components
	FieldComponent = "component"

	// Sources
	FieldFile = "file"
	FieldLine = "line"
	FieldKind = "kind"

	// Outputs
	FieldOutput   = "output"
	FieldTarget   = "target"
	FieldLocation = "location"

	// IR entities
	FieldModel      = "model"
	FieldEnum       = "enum"
	FieldController = "controller"
	FieldAction     = "action"
	FieldRoute      = "route"

	// Counts and reasons
	FieldCount  = "count"
	FieldReason = "reason"
	FieldError  = "error"

	// Timing
	FieldDurationMS = "duration_ms"
)

// ComponentLogger returns a named logger for a specific component.
//
// Example:
//
//	type Extractor struct {
//	    log *zap.SugaredLogger
//	}
//
//	func NewExtractor() *Extractor {
//	    return &Extractor{log: logger.ComponentLogger("extract")}
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
