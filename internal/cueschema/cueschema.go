// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cueschema validates decoded Article documents against a CUE
// definition of the records. It is an independent second engine: the same
// required fields and shapes, evaluated by the CUE SDK rather than by the
// hand-written builder in pkg/schema. Problems are reported with the same
// *schema.SchemaValidationError type.
package cueschema

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/pdiddy/isoform-kb/pkg/schema"
)

//go:embed article.cue
var source string

const rootDefinition = "#Article"

// Source returns the CUE text of the record definitions.
func Source() string {
	return source
}

// Validator checks values against #Article. A cue.Context is not safe for
// concurrent use, so calls are serialized.
type Validator struct {
	mu      sync.Mutex
	ctx     *cue.Context
	article cue.Value
}

// New compiles the embedded definitions.
func New() (*Validator, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(source, cue.Filename("article.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compiling article.cue: %w", err)
	}
	def := v.LookupPath(cue.ParsePath(rootDefinition))
	if !def.Exists() {
		return nil, fmt.Errorf("article.cue: %s not defined", rootDefinition)
	}
	return &Validator{ctx: ctx, article: def}, nil
}

// Validate checks a decoded value (as returned by schema.DecodeValue)
// against #Article. It returns nil or a *schema.SchemaValidationError.
func (v *Validator) Validate(data any) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	val := v.ctx.Encode(data)
	if err := val.Err(); err != nil {
		return fmt.Errorf("encoding value for CUE: %w", err)
	}

	err := v.article.Unify(val).Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}
	return toSchemaError(err)
}

// toSchemaError maps CUE errors onto schema issues, one per distinct path
// and code.
func toSchemaError(err error) error {
	out := &schema.SchemaValidationError{Record: "Article"}
	seen := map[string]bool{}

	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		is := schema.Issue{
			Code:    classify(msg),
			Path:    documentPath(e.Path()),
			Message: msg,
		}
		key := string(is.Code) + "@" + is.Path.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out.Issues = append(out.Issues, is)
	}

	if len(out.Issues) == 0 {
		out.Issues = []schema.Issue{{Code: schema.CodeType, Message: err.Error()}}
	}
	return out
}

// documentPath drops the definition labels CUE puts in front of an error
// path, so #Article.genes.0.isoform_name becomes genes.0.isoform_name.
func documentPath(p []string) schema.Path {
	for len(p) > 0 && strings.HasPrefix(p[0], "#") {
		p = p[1:]
	}
	return schema.Path(append([]string(nil), p...))
}

func classify(msg string) schema.IssueCode {
	switch {
	case strings.Contains(msg, "required but not present"),
		strings.Contains(msg, "incomplete value"):
		return schema.CodeMissing
	}
	return schema.CodeType
}
