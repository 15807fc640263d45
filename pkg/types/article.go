// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the record shapes shared across isoform-kb:
// Article, Gene and Isoform as extracted from scientific literature, plus
// the configuration structs for the CLI stages.
//
// Records compose by value. An Article owns its Genes and each Gene owns its
// Isoforms; there are no back-references and no identifiers linking records
// across articles. Two genes with the same name are independent values.
package types

// Isoform is a transcript isoform of a gene.
type Isoform struct {
	// IsoformName is the name of the isoform (e.g. "TP53-201").
	IsoformName string `json:"isoform_name" yaml:"isoform_name"`

	// TranscriptID is the transcript ID of the isoform, usually an accession
	// from a reference database (e.g. "ENST00000269305"). Format is not
	// constrained.
	TranscriptID string `json:"transcript_id" yaml:"transcript_id"`

	// AnnotationType is the type of the annotation (free-form label).
	AnnotationType string `json:"annotation_type" yaml:"annotation_type"`

	// CellTypes is the cell type of the sample. A single text value; multiple
	// cell types must be encoded by the producer within this one field.
	CellTypes string `json:"cell_types" yaml:"cell_types"`

	// Functions lists functions of the transcript in source order.
	Functions []string `json:"functions" yaml:"functions"`
}

// Gene is a gene that has a number of transcriptome isoforms.
type Gene struct {
	// GeneName is the name of the gene.
	GeneName string `json:"gene_name" yaml:"gene_name"`

	// Isoforms lists transcript isoforms of the gene. May be empty;
	// duplicates are allowed.
	Isoforms []Isoform `json:"isoforms" yaml:"isoforms"`
}

// Article is a scientific article containing information about genes and
// their isoforms.
type Article struct {
	// ArticleName is the name of the article.
	ArticleName string `json:"article_name" yaml:"article_name"`

	// Authors lists the authors of the article in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Genes lists the genes discussed by the article. May be empty;
	// duplicates are allowed.
	Genes []Gene `json:"genes" yaml:"genes"`
}

// Equal reports whether two isoforms hold the same values. Nil and empty
// Functions compare equal; order matters.
func (i Isoform) Equal(o Isoform) bool {
	return i.IsoformName == o.IsoformName &&
		i.TranscriptID == o.TranscriptID &&
		i.AnnotationType == o.AnnotationType &&
		i.CellTypes == o.CellTypes &&
		equalStrings(i.Functions, o.Functions)
}

// Equal reports whether two genes hold the same values, comparing isoforms
// element by element in order.
func (g Gene) Equal(o Gene) bool {
	if g.GeneName != o.GeneName || len(g.Isoforms) != len(o.Isoforms) {
		return false
	}
	for i := range g.Isoforms {
		if !g.Isoforms[i].Equal(o.Isoforms[i]) {
			return false
		}
	}
	return true
}

// Equal reports whether two articles are structurally equal across all
// nested fields and list ordering.
func (a Article) Equal(o Article) bool {
	if a.ArticleName != o.ArticleName || !equalStrings(a.Authors, o.Authors) {
		return false
	}
	if len(a.Genes) != len(o.Genes) {
		return false
	}
	for i := range a.Genes {
		if !a.Genes[i].Equal(o.Genes[i]) {
			return false
		}
	}
	return true
}

// IsoformCount returns the number of isoforms across all genes.
func (a Article) IsoformCount() int {
	n := 0
	for _, g := range a.Genes {
		n += len(g.Isoforms)
	}
	return n
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
