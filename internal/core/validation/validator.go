package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (e *ValidationErrors) Error() string {
	var msgs []string
	for _, err := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(msgs, "; ")
}

// New returns a single-field validation failure.
func New(field, message string) *ValidationErrors {
	return &ValidationErrors{Errors: []ValidationError{{Field: field, Message: message}}}
}

// Validator checks payloads against JSON schemas. Compiled schemas are
// cached by name; the zero name disables caching.
type Validator struct {
	mu       sync.RWMutex
	compiled map[string]*gojsonschema.Schema
}

func NewValidator() *Validator {
	return &Validator{compiled: make(map[string]*gojsonschema.Schema)}
}

func (v *Validator) Validate(data map[string]interface{}, schema map[string]interface{}) error {
	return v.validate("", data, schema)
}

// ValidateNamed is Validate with the compiled schema cached under name.
func (v *Validator) ValidateNamed(name string, data map[string]interface{}, schema map[string]interface{}) error {
	return v.validate(name, data, schema)
}

func (v *Validator) ValidatePartial(data map[string]interface{}, schema map[string]interface{}) error {
	return v.validate("", data, partial(schema))
}

// ValidatePartialNamed validates a patch: like ValidateNamed but with the
// top-level "required" list dropped.
func (v *Validator) ValidatePartialNamed(name string, data map[string]interface{}, schema map[string]interface{}) error {
	if name != "" {
		name += "#partial"
	}
	return v.validate(name, data, partial(schema))
}

func partial(schema map[string]interface{}) map[string]interface{} {
	if len(schema) == 0 {
		return nil
	}
	partialSchema := make(map[string]interface{}, len(schema))
	for k, val := range schema {
		if k != "required" {
			partialSchema[k] = val
		}
	}
	return partialSchema
}

func (v *Validator) validate(name string, data map[string]interface{}, schema map[string]interface{}) error {
	if len(schema) == 0 {
		// No schema defined, allow any data
		return nil
	}

	compiled, err := v.compile(name, schema)
	if err != nil {
		return err
	}

	dataJSON, err := json.Marshal(data)
	if err != nil {
		return err
	}

	result, err := compiled.Validate(gojsonschema.NewBytesLoader(dataJSON))
	if err != nil {
		return err
	}

	if !result.Valid() {
		var validationErrors []ValidationError
		for _, desc := range result.Errors() {
			validationErrors = append(validationErrors, ValidationError{
				Field:   desc.Field(),
				Message: desc.Description(),
			})
		}
		return &ValidationErrors{Errors: validationErrors}
	}

	return nil
}

func (v *Validator) compile(name string, schema map[string]interface{}) (*gojsonschema.Schema, error) {
	if name != "" {
		v.mu.RLock()
		s, ok := v.compiled[name]
		v.mu.RUnlock()
		if ok {
			return s, nil
		}
	}

	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}

	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	if name != "" {
		v.mu.Lock()
		v.compiled[name] = s
		v.mu.Unlock()
	}
	return s, nil
}

func IsValidationError(err error) bool {
	var ve *ValidationErrors
	return errors.As(err, &ve)
}

func GetValidationErrors(err error) *ValidationErrors {
	var ve *ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
