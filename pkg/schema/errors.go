// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// IssueCode classifies a single validation problem.
type IssueCode string

const (
	// CodeMissing indicates a required field is absent.
	CodeMissing IssueCode = "missing"
	// CodeStringType indicates a text field holds a non-string value.
	CodeStringType IssueCode = "string_type"
	// CodeListType indicates a list field holds something other than a sequence.
	CodeListType IssueCode = "list_type"
	// CodeModelType indicates a record position holds something other than a mapping.
	CodeModelType IssueCode = "model_type"
	// CodeType is a shape mismatch reported by an engine that does not
	// distinguish the kinds above.
	CodeType IssueCode = "type"
)

// ErrSchemaValidation is matched by every *SchemaValidationError through
// errors.Is.
var ErrSchemaValidation = errors.New("schema validation failed")

// Path locates a value inside an input document as a sequence of field
// names and list indices, e.g. genes.0.isoforms.1.transcript_id.
type Path []string

// String renders the path with dot separators. The root renders as "".
func (p Path) String() string {
	return strings.Join(p, ".")
}

func (p Path) field(name string) Path {
	next := make(Path, len(p), len(p)+1)
	copy(next, p)
	return append(next, name)
}

func (p Path) index(i int) Path {
	return p.field(strconv.Itoa(i))
}

// Issue is one validation problem at one location.
type Issue struct {
	Code    IssueCode `json:"code" yaml:"code"`
	Path    Path      `json:"path" yaml:"path"`
	Message string    `json:"message" yaml:"message"`
}

// Field returns the last path segment: the name of the missing or
// mismatched field, or the list index for an element-level problem.
func (i Issue) Field() string {
	if len(i.Path) == 0 {
		return ""
	}
	return i.Path[len(i.Path)-1]
}

// String formats the issue as "path: message [code]".
func (i Issue) String() string {
	loc := i.Path.String()
	if loc == "" {
		loc = "(root)"
	}
	return fmt.Sprintf("%s: %s [%s]", loc, i.Message, i.Code)
}

// SchemaValidationError reports every problem found while building a record.
// Issues are ordered by field declaration order, then list index.
type SchemaValidationError struct {
	// Record names the top-level record being built (Article, Gene, Isoform).
	Record string
	Issues []Issue
}

// Error returns a summary line followed by one line per issue.
func (e *SchemaValidationError) Error() string {
	if e == nil {
		return "schema validation <nil>"
	}
	var b strings.Builder
	noun := "errors"
	if len(e.Issues) == 1 {
		noun = "error"
	}
	fmt.Fprintf(&b, "%d validation %s for %s", len(e.Issues), noun, e.Record)
	for _, is := range e.Issues {
		b.WriteString("\n  ")
		b.WriteString(is.String())
	}
	return b.String()
}

// Is makes errors.Is(err, ErrSchemaValidation) hold.
func (e *SchemaValidationError) Is(target error) bool {
	return target == ErrSchemaValidation
}

// Has reports whether any issue has the given code at the given dotted path.
func (e *SchemaValidationError) Has(code IssueCode, path string) bool {
	for _, is := range e.Issues {
		if is.Code == code && is.Path.String() == path {
			return true
		}
	}
	return false
}

// issues accumulates problems during a build.
type issues []Issue

func (is *issues) add(code IssueCode, p Path, format string, args ...any) {
	*is = append(*is, Issue{Code: code, Path: p, Message: fmt.Sprintf(format, args...)})
}

func (is issues) err(record string) error {
	if len(is) == 0 {
		return nil
	}
	return &SchemaValidationError{Record: record, Issues: is}
}

// describe names the Go shape of a decoded value for messages.
func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, int32, uint64:
		return "number"
	case []any, []string, []map[string]any:
		return "list"
	case map[string]any, map[any]any:
		return "mapping"
	default:
		return fmt.Sprintf("%T", v)
	}
}
