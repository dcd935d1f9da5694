package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components
	FieldComponent = "component"
	FieldCommand   = "command"

	// Registry entities
	FieldInterface  = "interface"
	FieldDictionary = "dictionary"
	FieldEnum       = "enum"
	FieldTypedef    = "typedef"
	FieldExtension  = "extension"
	FieldMember     = "member"
	FieldKind       = "kind"

	// Marshalling decisions
	FieldHostType = "host_type"
	FieldWrapper  = "wrapper"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount = "count"
	FieldSize  = "size"

	// Files and paths
	FieldFile     = "file"
	FieldRegistry = "registry"
	FieldSource   = "source"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Generator struct {
//	    log *zap.SugaredLogger
//	}
//
//	func New() *Generator {
//	    return &Generator{log: logger.ComponentLogger("bindgen")}
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
