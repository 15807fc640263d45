// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schema constructs, validates and serializes the Article, Gene and
// Isoform records defined in pkg/types.
//
// Construction takes the plain structured form that JSON or YAML decoding
// produces (map[string]any, []any, string) and succeeds only when every
// required field is present with the declared shape. Nothing is coerced:
// numbers, booleans and null are never accepted as text. Unknown keys are
// ignored. All problems in the input are collected into one
// *SchemaValidationError, each carrying the dotted path to the offending
// value.
package schema

import (
	"github.com/pdiddy/isoform-kb/pkg/types"
)

const (
	recordArticle = "Article"
	recordGene    = "Gene"
	recordIsoform = "Isoform"
)

// BuildArticle constructs an Article from a decoded mapping.
func BuildArticle(m map[string]any) (types.Article, error) {
	return BuildArticleValue(m)
}

// BuildArticleValue constructs an Article from any decoded value. A value
// that is not a mapping yields a model_type issue at the root.
func BuildArticleValue(v any) (types.Article, error) {
	var is issues
	a := buildArticle(v, nil, &is)
	if err := is.err(recordArticle); err != nil {
		return types.Article{}, err
	}
	return a, nil
}

// BuildGene constructs a Gene from a decoded mapping.
func BuildGene(m map[string]any) (types.Gene, error) {
	var is issues
	g := buildGene(m, nil, &is)
	if err := is.err(recordGene); err != nil {
		return types.Gene{}, err
	}
	return g, nil
}

// BuildIsoform constructs an Isoform from a decoded mapping.
func BuildIsoform(m map[string]any) (types.Isoform, error) {
	var is issues
	iso := buildIsoform(m, nil, &is)
	if err := is.err(recordIsoform); err != nil {
		return types.Isoform{}, err
	}
	return iso, nil
}

// Validate reports whether v is a well-formed Article without returning
// the record.
func Validate(v any) error {
	_, err := BuildArticleValue(v)
	return err
}

func buildArticle(v any, p Path, is *issues) types.Article {
	m, ok := asMapping(v)
	if !ok {
		is.add(CodeModelType, p, "input should be a valid %s mapping, got %s", recordArticle, describe(v))
		return types.Article{}
	}

	a := types.Article{
		ArticleName: textField(m, "article_name", p, is),
		Authors:     textList(m, "authors", p, is),
	}

	genes, ok := listField(m, "genes", p, is)
	if ok {
		a.Genes = make([]types.Gene, 0, len(genes))
		gp := p.field("genes")
		for i, g := range genes {
			a.Genes = append(a.Genes, buildGene(g, gp.index(i), is))
		}
	}
	return a
}

func buildGene(v any, p Path, is *issues) types.Gene {
	m, ok := asMapping(v)
	if !ok {
		is.add(CodeModelType, p, "input should be a valid %s mapping, got %s", recordGene, describe(v))
		return types.Gene{}
	}

	g := types.Gene{
		GeneName: textField(m, "gene_name", p, is),
	}

	isoforms, ok := listField(m, "isoforms", p, is)
	if ok {
		g.Isoforms = make([]types.Isoform, 0, len(isoforms))
		ip := p.field("isoforms")
		for i, iso := range isoforms {
			g.Isoforms = append(g.Isoforms, buildIsoform(iso, ip.index(i), is))
		}
	}
	return g
}

func buildIsoform(v any, p Path, is *issues) types.Isoform {
	m, ok := asMapping(v)
	if !ok {
		is.add(CodeModelType, p, "input should be a valid %s mapping, got %s", recordIsoform, describe(v))
		return types.Isoform{}
	}

	return types.Isoform{
		IsoformName:    textField(m, "isoform_name", p, is),
		TranscriptID:   textField(m, "transcript_id", p, is),
		AnnotationType: textField(m, "annotation_type", p, is),
		CellTypes:      textField(m, "cell_types", p, is),
		Functions:      textList(m, "functions", p, is),
	}
}

// asMapping accepts the mapping shapes produced by encoding/json and
// yaml.v3. Non-string keys cannot name a field and are dropped.
func asMapping(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			if ks, ok := k.(string); ok {
				out[ks] = val
			}
		}
		return out, true
	}
	return nil, false
}

func textField(m map[string]any, name string, p Path, is *issues) string {
	v, ok := m[name]
	if !ok {
		is.add(CodeMissing, p.field(name), "field required")
		return ""
	}
	s, ok := v.(string)
	if !ok {
		is.add(CodeStringType, p.field(name), "input should be a valid string, got %s", describe(v))
		return ""
	}
	return s
}

func listField(m map[string]any, name string, p Path, is *issues) ([]any, bool) {
	v, ok := m[name]
	if !ok {
		is.add(CodeMissing, p.field(name), "field required")
		return nil, false
	}
	switch x := v.(type) {
	case []any:
		return x, true
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(x))
		for i, r := range x {
			out[i] = r
		}
		return out, true
	}
	is.add(CodeListType, p.field(name), "input should be a valid list, got %s", describe(v))
	return nil, false
}

func textList(m map[string]any, name string, p Path, is *issues) []string {
	items, ok := listField(m, name, p, is)
	if !ok {
		return nil
	}
	lp := p.field(name)
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			is.add(CodeStringType, lp.index(i), "input should be a valid string, got %s", describe(item))
			continue
		}
		out = append(out, s)
	}
	return out
}
