package jsonschema

import (
	"errors"
	"fmt"
)

// Structural errors abort evaluation entirely; they are never embedded in
// the result tree. Validation failures, by contrast, are always data (see
// result.go's ResultError type).

// ReferenceResolutionError reports a $ref/$dynamicRef/$recursiveRef that
// could not be resolved against the registry.
type ReferenceResolutionError struct {
	URI    string
	Reason string
}

func (e *ReferenceResolutionError) Error() string {
	return fmt.Sprintf("jsonschema: cannot resolve reference %q: %s", e.URI, e.Reason)
}

// ReferenceCycleError reports a $ref cycle that does not descend into new
// instance structure: a purely schema-level cycle.
type ReferenceCycleError struct {
	SchemaURI        string
	InstanceLocation string
}

func (e *ReferenceCycleError) Error() string {
	return fmt.Sprintf("jsonschema: reference cycle at %q revisiting instance location %q without descent", e.SchemaURI, e.InstanceLocation)
}

// MalformedSchemaError reports a schema that is neither a boolean nor an
// object, or a keyword value of the wrong shape.
type MalformedSchemaError struct {
	Location string
	Reason   string
}

func (e *MalformedSchemaError) Error() string {
	return fmt.Sprintf("jsonschema: malformed schema at %q: %s", e.Location, e.Reason)
}

// UnknownVocabularyError reports a $vocabulary entry marked required (true)
// that this engine does not recognize.
type UnknownVocabularyError struct {
	URI string
}

func (e *UnknownVocabularyError) Error() string {
	return fmt.Sprintf("jsonschema: unknown required vocabulary %q", e.URI)
}

// UnknownFormatError reports an unrecognized format name under strict
// format options (onlyKnownFormats).
type UnknownFormatError struct {
	Name string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("jsonschema: unknown format %q", e.Name)
}

// LoaderError wraps a failure from the pluggable reference fetcher.
type LoaderError struct {
	URI   string
	Cause error
}

func (e *LoaderError) Error() string {
	return fmt.Sprintf("jsonschema: loader failed for %q: %v", e.URI, e.Cause)
}

func (e *LoaderError) Unwrap() error { return e.Cause }

// AsStructuralError extracts one of the structural error types from err
// using errors.As, for callers that want to branch on which kind of
// structural failure aborted evaluation.
func AsStructuralError(err error) (target error, ok bool) {
	var refErr *ReferenceResolutionError
	if errors.As(err, &refErr) {
		return refErr, true
	}
	var cycleErr *ReferenceCycleError
	if errors.As(err, &cycleErr) {
		return cycleErr, true
	}
	var malformedErr *MalformedSchemaError
	if errors.As(err, &malformedErr) {
		return malformedErr, true
	}
	var vocabErr *UnknownVocabularyError
	if errors.As(err, &vocabErr) {
		return vocabErr, true
	}
	var formatErr *UnknownFormatError
	if errors.As(err, &formatErr) {
		return formatErr, true
	}
	var loaderErr *LoaderError
	if errors.As(err, &loaderErr) {
		return loaderErr, true
	}
	return nil, false
}
