// Package qerrors provides standardized error types for the ayagraph pipeline.
// Every failure mode in the corpus pipeline maps to one sentinel error here,
// so callers can classify failures with errors.Is regardless of how deeply
// the original cause was wrapped.
package qerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per pipeline stage.
var (
	// ErrNotBuilt indicates a corpus query before Build was called.
	ErrNotBuilt = errors.New("corpus not built")
	// ErrDataLoad indicates a source document was unreadable or missing.
	ErrDataLoad = errors.New("data load failed")
	// ErrDataValidation indicates a source document was present but structurally wrong.
	ErrDataValidation = errors.New("data validation failed")
	// ErrNormalization indicates a text normalization step failed.
	ErrNormalization = errors.New("normalization failed")
	// ErrTokenization indicates verse tokenization failed.
	ErrTokenization = errors.New("tokenization failed")
	// ErrTransliteration indicates a transliteration mapping failed.
	ErrTransliteration = errors.New("transliteration failed")
	// ErrFilter indicates a word filter received invalid bounds or a failing predicate.
	ErrFilter = errors.New("filter failed")
	// ErrGraph indicates graph construction failed.
	ErrGraph = errors.New("graph construction failed")
	// ErrExport indicates a snapshot or summary export failed.
	ErrExport = errors.New("export failed")
)

// LoadError reports a document that could not be read.
type LoadError struct {
	Path    string // file path involved, if any
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("load %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("load: %s", e.Message)
}

func (e *LoadError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrDataLoad
}

// Is lets errors.Is(err, ErrDataLoad) match even when a cause is attached.
func (e *LoadError) Is(target error) bool { return target == ErrDataLoad }

// ValidationError reports a document that parsed but violates the schema.
type ValidationError struct {
	Field   string // offending key or field, if known
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validate %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validate: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrDataValidation
}

func (e *ValidationError) Is(target error) bool { return target == ErrDataValidation }

// StageError wraps a failure from a named pipeline stage while preserving
// the stage's sentinel so errors.Is still classifies it.
type StageError struct {
	Stage    string // "normalize", "tokenize", "transliterate", "filter", "graph", "export"
	Sentinel error  // the sentinel for this stage
	Err      error  // underlying cause
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func (e *StageError) Is(target error) bool { return target == e.Sentinel }

// Normalization wraps err as a normalization-stage failure.
func Normalization(step string, err error) error {
	return &StageError{Stage: "normalize " + step, Sentinel: ErrNormalization, Err: err}
}

// Tokenization wraps err as a tokenization-stage failure.
func Tokenization(err error) error {
	return &StageError{Stage: "tokenize", Sentinel: ErrTokenization, Err: err}
}

// Transliteration wraps err as a transliteration-stage failure.
func Transliteration(err error) error {
	return &StageError{Stage: "transliterate", Sentinel: ErrTransliteration, Err: err}
}

// Filter wraps err as a filter failure.
func Filter(err error) error {
	return &StageError{Stage: "filter", Sentinel: ErrFilter, Err: err}
}

// Filterf builds a filter failure from a format string.
func Filterf(format string, args ...any) error {
	return Filter(fmt.Errorf(format, args...))
}

// Graph wraps err as a graph-construction failure.
func Graph(err error) error {
	return &StageError{Stage: "graph", Sentinel: ErrGraph, Err: err}
}

// Graphf builds a graph-construction failure from a format string.
func Graphf(format string, args ...any) error {
	return Graph(fmt.Errorf(format, args...))
}

// Export wraps err as an export failure.
func Export(err error) error {
	return &StageError{Stage: "export", Sentinel: ErrExport, Err: err}
}
