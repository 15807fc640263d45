// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/isoform-kb/pkg/types"
)

// DefaultIndent is the indentation width used by Marshal.
const DefaultIndent = 2

// FormatFromPath selects an interchange format from a file extension.
func FormatFromPath(path string) (types.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return types.FormatJSON, nil
	case ".yaml", ".yml":
		return types.FormatYAML, nil
	case ".jsonl", ".ndjson":
		return types.FormatJSONL, nil
	}
	return "", fmt.Errorf("cannot infer format from %q: use .json, .yaml, .yml or .jsonl", path)
}

// ToMap converts an Article to its plain structured form: map[string]any
// records and []any lists, with no nil lists. Building the result with
// BuildArticle reproduces an equal Article.
func ToMap(a types.Article) map[string]any {
	genes := make([]any, len(a.Genes))
	for i, g := range a.Genes {
		genes[i] = geneMap(g)
	}
	return map[string]any{
		"article_name": a.ArticleName,
		"authors":      stringList(a.Authors),
		"genes":        genes,
	}
}

func geneMap(g types.Gene) map[string]any {
	isoforms := make([]any, len(g.Isoforms))
	for i, iso := range g.Isoforms {
		isoforms[i] = isoformMap(iso)
	}
	return map[string]any{
		"gene_name": g.GeneName,
		"isoforms":  isoforms,
	}
}

func isoformMap(iso types.Isoform) map[string]any {
	return map[string]any{
		"isoform_name":    iso.IsoformName,
		"transcript_id":   iso.TranscriptID,
		"annotation_type": iso.AnnotationType,
		"cell_types":      iso.CellTypes,
		"functions":       stringList(iso.Functions),
	}
}

func stringList(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// withEmptyLists returns a copy of a in which every nil list is replaced by
// an empty one, so encoders write [] rather than null.
func withEmptyLists(a types.Article) types.Article {
	out := types.Article{
		ArticleName: a.ArticleName,
		Authors:     nonNil(a.Authors),
		Genes:       make([]types.Gene, len(a.Genes)),
	}
	for i, g := range a.Genes {
		ng := types.Gene{GeneName: g.GeneName, Isoforms: make([]types.Isoform, len(g.Isoforms))}
		for j, iso := range g.Isoforms {
			iso.Functions = nonNil(iso.Functions)
			ng.Isoforms[j] = iso
		}
		out.Genes[i] = ng
	}
	return out
}

func nonNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}

// EncodeJSON writes a as JSON with fields in declaration order. An indent of
// zero writes a single line.
func EncodeJSON(w io.Writer, a types.Article, indent int) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}
	if err := enc.Encode(withEmptyLists(a)); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// EncodeLines writes articles as JSON Lines, one compact object per line.
func EncodeLines(w io.Writer, articles []types.Article) error {
	for i, a := range articles {
		if err := EncodeJSON(w, a, 0); err != nil {
			return fmt.Errorf("article %d: %w", i, err)
		}
	}
	return nil
}

// EncodeYAML writes a as a YAML document with fields in declaration order.
func EncodeYAML(w io.Writer, a types.Article, indent int) error {
	if indent <= 0 {
		indent = DefaultIndent
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(indent)
	if err := enc.Encode(withEmptyLists(a)); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

// Encode dispatches to the encoder for f. JSONL writes a single line.
func Encode(w io.Writer, a types.Article, f types.Format, indent int) error {
	switch f {
	case types.FormatJSON:
		return EncodeJSON(w, a, indent)
	case types.FormatJSONL:
		return EncodeJSON(w, a, 0)
	case types.FormatYAML:
		return EncodeYAML(w, a, indent)
	}
	return fmt.Errorf("unsupported output format %q: use json, jsonl or yaml", f)
}

// Marshal encodes a in format f with DefaultIndent.
func Marshal(a types.Article, f types.Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, a, f, DefaultIndent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeValue parses data into its plain structured form without checking
// it against the schema. Mappings come back as map[string]any and sequences
// as []any at every depth. JSONL input must contain exactly one document.
func DecodeValue(data []byte, f types.Format) (any, error) {
	switch f {
	case types.FormatJSON, types.FormatJSONL:
		dec := json.NewDecoder(bytes.NewReader(data))
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
		var extra any
		if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing JSON: unexpected data after the first document")
		}
		return v, nil
	case types.FormatYAML:
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
		return Normalize(v), nil
	}
	return nil, fmt.Errorf("unsupported input format %q: use json, jsonl or yaml", f)
}

// Normalize rewrites decoded YAML values into the JSON-compatible shapes:
// map[any]any becomes map[string]any (keys formatted with %v) and nested
// values are normalized recursively.
func Normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = Normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[fmt.Sprintf("%v", k)] = Normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = Normalize(val)
		}
		return out
	}
	return v
}

// Decode parses data in format f and builds an Article from it. Syntax
// errors are returned wrapped; shape errors are *SchemaValidationError.
func Decode(data []byte, f types.Format) (types.Article, error) {
	v, err := DecodeValue(data, f)
	if err != nil {
		return types.Article{}, err
	}
	return BuildArticleValue(v)
}

// DecodeJSON parses a single JSON document into an Article.
func DecodeJSON(data []byte) (types.Article, error) {
	return Decode(data, types.FormatJSON)
}

// DecodeYAML parses a single YAML document into an Article.
func DecodeYAML(data []byte) (types.Article, error) {
	return Decode(data, types.FormatYAML)
}
