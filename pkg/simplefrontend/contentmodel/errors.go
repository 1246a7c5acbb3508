package contentmodel

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownFieldType indicates a field definition names a type outside the whitelist
	ErrUnknownFieldType = errors.New("unknown content field type")

	// ErrDuplicateField indicates a field name is already used in the same collection
	ErrDuplicateField = errors.New("duplicate content field name")

	// ErrDuplicateContentType indicates a content type name is already registered in the model
	ErrDuplicateContentType = errors.New("duplicate content type name")

	// ErrInvalidDefinition indicates a content type or field definition is incomplete
	ErrInvalidDefinition = errors.New("invalid content model definition")

	// ErrUnimplemented indicates the operation is not supported by this node of the model
	ErrUnimplemented = errors.New("operation not implemented")
)

// ConfigParsingError reports where in the content model a definition failed
type ConfigParsingError struct {
	Path string
	Err  error
}

func (e *ConfigParsingError) Error() string {
	return fmt.Sprintf("content model error at %s: %v", e.Path, e.Err)
}

func (e *ConfigParsingError) Unwrap() error {
	return e.Err
}
