// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schema

// Shape names the declared shape of a field.
type Shape string

const (
	ShapeText        Shape = "text"
	ShapeTextList    Shape = "list of text"
	ShapeGeneList    Shape = "list of Gene"
	ShapeIsoformList Shape = "list of Isoform"
)

// FieldInfo documents one field of a record.
type FieldInfo struct {
	Name        string `json:"name" yaml:"name"`
	Shape       Shape  `json:"shape" yaml:"shape"`
	Description string `json:"description" yaml:"description"`
}

// RecordInfo documents one record.
type RecordInfo struct {
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	Fields      []FieldInfo `json:"fields" yaml:"fields"`
}

// Records lists the three records innermost first, each with its fields in
// declaration order. Every field is required.
var Records = []RecordInfo{
	{
		Name:        recordIsoform,
		Description: "A transcript isoform of a gene.",
		Fields: []FieldInfo{
			{"isoform_name", ShapeText, "The name of the isoform."},
			{"transcript_id", ShapeText, "The transcript ID of the isoform."},
			{"annotation_type", ShapeText, "The type of the annotation."},
			{"cell_types", ShapeText, "The cell type of the sample."},
			{"functions", ShapeTextList, "List of functions of the transcript."},
		},
	},
	{
		Name:        recordGene,
		Description: "A gene that has a number of transcriptome isoforms.",
		Fields: []FieldInfo{
			{"gene_name", ShapeText, "The name of the gene."},
			{"isoforms", ShapeIsoformList, "A list of transcript isoforms of the gene."},
		},
	},
	{
		Name:        recordArticle,
		Description: "A scientific article containing information about genes and their isoforms.",
		Fields: []FieldInfo{
			{"article_name", ShapeText, "The name of the article."},
			{"authors", ShapeTextList, "The authors of the article."},
			{"genes", ShapeGeneList, "A list of genes."},
		},
	},
}

// Descriptions maps record name to field name to description text.
var Descriptions = func() map[string]map[string]string {
	out := make(map[string]map[string]string, len(Records))
	for _, r := range Records {
		fields := make(map[string]string, len(r.Fields))
		for _, f := range r.Fields {
			fields[f.Name] = f.Description
		}
		out[r.Name] = fields
	}
	return out
}()

// Record returns the documentation for the named record.
func Record(name string) (RecordInfo, bool) {
	for _, r := range Records {
		if r.Name == name {
			return r, true
		}
	}
	return RecordInfo{}, false
}

// JSONSchemaDoc is the subset of JSON Schema used to describe the records.
type JSONSchemaDoc struct {
	Schema      string                    `json:"$schema,omitempty"`
	Ref         string                    `json:"$ref,omitempty"`
	Title       string                    `json:"title,omitempty"`
	Description string                    `json:"description,omitempty"`
	Type        string                    `json:"type,omitempty"`
	Properties  map[string]*JSONSchemaDoc `json:"properties,omitempty"`
	Required    []string                  `json:"required,omitempty"`
	Items       *JSONSchemaDoc            `json:"items,omitempty"`
	Defs        map[string]*JSONSchemaDoc `json:"$defs,omitempty"`
}

const jsonSchemaDialect = "https://json-schema.org/draft/2020-12/schema"

// JSONSchema returns a JSON Schema document for Article with Gene and
// Isoform under $defs. Every field is required and carries its description.
func JSONSchema() *JSONSchemaDoc {
	defs := map[string]*JSONSchemaDoc{}
	var root *JSONSchemaDoc
	for _, r := range Records {
		obj := recordSchema(r)
		if r.Name == recordArticle {
			root = obj
			continue
		}
		defs[r.Name] = obj
	}
	root.Schema = jsonSchemaDialect
	root.Defs = defs
	return root
}

func recordSchema(r RecordInfo) *JSONSchemaDoc {
	obj := &JSONSchemaDoc{
		Title:       r.Name,
		Description: r.Description,
		Type:        "object",
		Properties:  make(map[string]*JSONSchemaDoc, len(r.Fields)),
	}
	for _, f := range r.Fields {
		obj.Properties[f.Name] = fieldSchema(f)
		obj.Required = append(obj.Required, f.Name)
	}
	return obj
}

func fieldSchema(f FieldInfo) *JSONSchemaDoc {
	s := &JSONSchemaDoc{Description: f.Description}
	switch f.Shape {
	case ShapeText:
		s.Type = "string"
	case ShapeTextList:
		s.Type = "array"
		s.Items = &JSONSchemaDoc{Type: "string"}
	case ShapeGeneList:
		s.Type = "array"
		s.Items = &JSONSchemaDoc{Ref: "#/$defs/" + recordGene}
	case ShapeIsoformList:
		s.Type = "array"
		s.Items = &JSONSchemaDoc{Ref: "#/$defs/" + recordIsoform}
	}
	return s
}
