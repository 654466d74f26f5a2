// Package errors provides the error taxonomy shared by the GFA codec and the
// NameMap layer.
//
// Every error produced by gfakit unwraps to exactly one sentinel, so callers
// can branch with errors.Is or ask KindOf for a machine-readable kind.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for each error kind
var (
	// ErrMalformedField indicates a positional field does not match its grammar
	ErrMalformedField = errors.New("malformed field")
	// ErrUnexpectedRecordKind indicates a line with an unknown record code.
	// Parsers route such lines to custom records instead of failing.
	ErrUnexpectedRecordKind = errors.New("unexpected record kind")
	// ErrOptionalFieldSyntax indicates a bad TAG:TYPE:VALUE group
	ErrOptionalFieldSyntax = errors.New("optional field syntax error")
	// ErrTranslationMiss indicates an identifier or index absent from a name map
	ErrTranslationMiss = errors.New("translation miss")
	// ErrHashMismatch indicates a name map was built from different content
	ErrHashMismatch = errors.New("content hash mismatch")
	// ErrStructural indicates a wrong field count or separator
	ErrStructural = errors.New("structural error")
	// ErrInvalidInput indicates invalid input outside the record grammar
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
)

// ErrorKind is a machine-distinguishable error class.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindMalformedField
	KindUnexpectedRecordKind
	KindOptionalFieldSyntax
	KindTranslationMiss
	KindHashMismatch
	KindStructural
)

var kindNames = map[ErrorKind]string{
	KindUnknown:              "Unknown",
	KindMalformedField:       "MalformedField",
	KindUnexpectedRecordKind: "UnexpectedRecordKind",
	KindOptionalFieldSyntax:  "OptionalFieldSyntaxError",
	KindTranslationMiss:      "TranslationMiss",
	KindHashMismatch:         "HashMismatch",
	KindStructural:           "StructuralError",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Sentinel returns the sentinel error for the kind, or nil for KindUnknown.
func (k ErrorKind) Sentinel() error {
	switch k {
	case KindMalformedField:
		return ErrMalformedField
	case KindUnexpectedRecordKind:
		return ErrUnexpectedRecordKind
	case KindOptionalFieldSyntax:
		return ErrOptionalFieldSyntax
	case KindTranslationMiss:
		return ErrTranslationMiss
	case KindHashMismatch:
		return ErrHashMismatch
	case KindStructural:
		return ErrStructural
	}
	return nil
}

// KindOf reports the kind of the first sentinel found in err's chain.
func KindOf(err error) ErrorKind {
	for _, k := range []ErrorKind{
		KindMalformedField,
		KindOptionalFieldSyntax,
		KindStructural,
		KindTranslationMiss,
		KindHashMismatch,
		KindUnexpectedRecordKind,
	} {
		if errors.Is(err, k.Sentinel()) {
			return k
		}
	}
	return KindUnknown
}

// FieldError describes a single field that failed its grammar.
type FieldError struct {
	Kind     ErrorKind // MalformedField, OptionalFieldSyntax or Structural
	Field    string    // Field name (e.g., "ref1", "length", "tag")
	Position int       // 1-based field position after the record code, 0 if unknown
	Expected string    // Expected grammar, human readable
	Value    string    // Offending bytes
	Start    int       // Byte offset of the field within its line
	End      int       // Byte offset one past the field
	Err      error     // Underlying error, if any
}

func (e *FieldError) Error() string {
	msg := "field error"
	if s := e.Kind.Sentinel(); s != nil {
		msg = s.Error()
	}
	if e.Field != "" {
		msg += " " + e.Field
	}
	if e.Position > 0 {
		msg += fmt.Sprintf(" (field %d, bytes %d-%d)", e.Position, e.Start, e.End)
	} else if e.End > e.Start {
		msg += fmt.Sprintf(" (bytes %d-%d)", e.Start, e.End)
	}
	msg += fmt.Sprintf(": got %q", e.Value)
	if e.Expected != "" {
		msg += ", expected " + e.Expected
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FieldError) Unwrap() []error {
	var errs []error
	if s := e.Kind.Sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// LineError attaches a 1-based line number and record code to an error.
type LineError struct {
	Line   int   // 1-based line number
	Record byte  // Record code, 0 if not identified
	Err    error // Underlying error
}

func (e *LineError) Error() string {
	if e.Record != 0 {
		return fmt.Sprintf("line %d (%c): %v", e.Line, e.Record, e.Err)
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Range returns the offending byte range within the line, if known.
func (e *LineError) Range() (start, end int, ok bool) {
	var fe *FieldError
	if errors.As(e.Err, &fe) {
		return fe.Start, fe.End, true
	}
	return 0, 0, false
}

// TranslationError reports a name or index missing from a name map.
type TranslationError struct {
	Record string // Record type being translated (e.g., "edge")
	Name   string // Identifier that was not found, when translating to indices
	Index  uint64 // Index that was out of range, when translating to names
	ByName bool   // true when Name is the missing key
}

func (e *TranslationError) Error() string {
	if e.ByName {
		return fmt.Sprintf("translation miss: identifier %q of %s not in name map", e.Name, e.Record)
	}
	return fmt.Sprintf("translation miss: index %d of %s out of range", e.Index, e.Record)
}

func (e *TranslationError) Unwrap() error {
	return ErrTranslationMiss
}

// HashMismatchError reports a name map applied to a document it was not built from.
type HashMismatchError struct {
	Want uint64 // Hash stored in the name map
	Got  uint64 // Hash of the document being translated
}

func (e *HashMismatchError) Error() string {
	return fmt.Sprintf("content hash mismatch: name map built from %016x, document is %016x", e.Want, e.Got)
}

func (e *HashMismatchError) Unwrap() error {
	return ErrHashMismatch
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// NotFoundError represents a resource not found error with context
type NotFoundError struct {
	Resource string // Type of resource (e.g., "name map")
	ID       string // Identifier of the resource
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// Helper functions for creating common errors

// NewMalformed creates a FieldError of kind MalformedField.
func NewMalformed(field, expected, value string) *FieldError {
	return &FieldError{Kind: KindMalformedField, Field: field, Expected: expected, Value: value}
}

// NewStructural creates a FieldError of kind Structural.
func NewStructural(field, expected, value string) *FieldError {
	return &FieldError{Kind: KindStructural, Field: field, Expected: expected, Value: value}
}

// NewTagSyntax creates a FieldError of kind OptionalFieldSyntax.
func NewTagSyntax(field, expected, value string) *FieldError {
	return &FieldError{Kind: KindOptionalFieldSyntax, Field: field, Expected: expected, Value: value}
}

// NewNotFound creates a NotFoundError
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
