// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/isoform-kb/pkg/schema"
	"github.com/pdiddy/isoform-kb/pkg/types"
)

// --- test helpers ---

const validArticle = `{
  "article_name": "Study X",
  "authors": ["A. Smith"],
  "genes": [{
    "gene_name": "TP53",
    "isoforms": [{
      "isoform_name": "TP53-201",
      "transcript_id": "ENST00000269305",
      "annotation_type": "canonical",
      "cell_types": "liver",
      "functions": ["apoptosis regulation"]
    }]
  }]
}`

const missingTranscript = `{
  "article_name": "Study Y",
  "authors": [],
  "genes": [{
    "gene_name": "TP53",
    "isoforms": [{
      "isoform_name": "TP53-201",
      "annotation_type": "canonical",
      "cell_types": "liver",
      "functions": []
    }]
  }]
}`

const validYAML = `article_name: Study Z
authors: []
genes:
  - gene_name: ALB
    isoforms: []
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, cfg types.ValidationConfig, paths ...string) (Summary, string) {
	t.Helper()
	var out bytes.Buffer
	summary, err := Files(context.Background(), paths, cfg, &out)
	require.NoError(t, err)
	return summary, out.String()
}

// --- tests ---

func TestFiles_Mixed(t *testing.T) {
	for _, engine := range []types.Engine{types.EngineNative, types.EngineCUE} {
		t.Run(string(engine), func(t *testing.T) {
			dir := t.TempDir()
			good := writeFile(t, dir, "good.json", validArticle)
			bad := writeFile(t, dir, "bad.json", missingTranscript)
			yml := writeFile(t, dir, "good.yaml", validYAML)

			summary, out := run(t, types.ValidationConfig{Engine: engine}, good, bad, yml)

			assert.Equal(t, 2, summary.Valid)
			assert.Equal(t, 1, summary.Invalid)
			assert.Equal(t, 0, summary.Failed)
			assert.Equal(t, 3, summary.Total())
			assert.True(t, summary.HasFailures())

			assert.Contains(t, out, "valid   "+good+" (1 genes, 1 isoforms)")
			assert.Contains(t, out, "invalid "+bad+":")
			assert.Contains(t, out, "genes.0.isoforms.0.transcript_id")
			assert.Contains(t, out, "valid   "+yml+" (1 genes, 0 isoforms)")
			assert.True(t, strings.HasSuffix(out, "\nvalid: 2, invalid: 1, failed: 0\n"))

			require.Len(t, summary.Results, 3)
			assert.True(t, summary.Results[0].Valid)
			require.NotNil(t, summary.Results[0].Article)
			assert.Equal(t, "TP53", summary.Results[0].Article.Genes[0].GeneName)
			assert.False(t, summary.Results[1].Valid)
			assert.NotEmpty(t, summary.Results[1].Issues)
		})
	}
}

func TestFiles_AllValid(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.json", validArticle)

	summary, _ := run(t, types.ValidationConfig{}, path)
	assert.False(t, summary.HasFailures())
	assert.Equal(t, 1, summary.Valid)
}

func TestFiles_NativeIssueDetail(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.json", missingTranscript)

	summary, out := run(t, types.ValidationConfig{Engine: types.EngineNative}, bad)

	require.Len(t, summary.Results, 1)
	require.Len(t, summary.Results[0].Issues, 1)
	is := summary.Results[0].Issues[0]
	assert.Equal(t, schema.CodeMissing, is.Code)
	assert.Equal(t, "transcript_id", is.Field())
	assert.Contains(t, out, "invalid "+bad+": 1 issue(s)\n")
	assert.Contains(t, out, "        genes.0.isoforms.0.transcript_id: field required [missing]\n")
}

func TestFiles_StreamsArraysAndLines(t *testing.T) {
	dir := t.TempDir()
	arr := writeFile(t, dir, "batch.json", "["+validArticle+",\n"+missingTranscript+"]")
	lines := writeFile(t, dir, "batch.jsonl",
		`{"article_name": "A", "authors": [], "genes": []}`+"\n"+
			`{"article_name": "B", "authors": "nope", "genes": []}`+"\n")

	summary, out := run(t, types.ValidationConfig{}, arr, lines)

	assert.Equal(t, 2, summary.Valid)
	assert.Equal(t, 2, summary.Invalid)
	assert.Contains(t, out, "valid   "+arr+"[0]")
	assert.Contains(t, out, "invalid "+arr+"[1]")
	assert.Contains(t, out, "valid   "+lines+"[0]")
	assert.Contains(t, out, "invalid "+lines+"[1]")
	assert.Contains(t, out, "authors: input should be a valid list, got string [list_type]")
}

func TestFiles_FailedInputsDoNotStopRun(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "nope.json")
	broken := writeFile(t, dir, "broken.json", `{"article_name": `)
	unknown := writeFile(t, dir, "notes.txt", "hello")
	good := writeFile(t, dir, "good.json", validArticle)

	summary, out := run(t, types.ValidationConfig{}, missing, broken, unknown, good)

	assert.Equal(t, 3, summary.Failed)
	assert.Equal(t, 1, summary.Valid)
	assert.Contains(t, out, "failed  "+missing+": opening")
	assert.Contains(t, out, "failed  "+broken+": parsing JSON")
	assert.Contains(t, out, "failed  "+unknown+": cannot infer format")
	assert.Contains(t, out, "valid   "+good)
	assert.NotEmpty(t, summary.Results[0].Error)
}

func TestFiles_ForcedFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "article.txt", validYAML)

	summary, _ := run(t, types.ValidationConfig{Format: types.FormatYAML}, path)
	assert.Equal(t, 1, summary.Valid)
}

func TestFiles_MaxIssues(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "empty.json", `{}`)

	summary, out := run(t, types.ValidationConfig{MaxIssues: 1}, path)

	assert.Equal(t, 1, summary.Invalid)
	assert.Len(t, summary.Results[0].Issues, 3, "summary keeps every issue")
	assert.Contains(t, out, "invalid "+path+": 3 issue(s)")
	assert.Contains(t, out, "article_name: field required [missing]")
	assert.NotContains(t, out, "authors: field required")
	assert.Contains(t, out, "(and 2 more)")
}

func TestFiles_UnsupportedEngine(t *testing.T) {
	_, err := Files(context.Background(), []string{"x.json"}, types.ValidationConfig{Engine: "jsonschema"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported engine")
}

func TestFiles_Canceled(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.json", validArticle)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := Files(ctx, []string{path}, types.ValidationConfig{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, summary.Total())
}

func TestRunner_Stdin(t *testing.T) {
	var out bytes.Buffer
	r, err := NewRunner(types.ValidationConfig{}, &out)
	require.NoError(t, err)
	r.stdin = strings.NewReader(validArticle)

	summary, err := r.Run(context.Background(), []string{Stdin})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Valid)
	assert.Contains(t, out.String(), "valid   - (1 genes, 1 isoforms)")
}

func TestRunner_StdinArray(t *testing.T) {
	var out bytes.Buffer
	r, err := NewRunner(types.ValidationConfig{}, &out)
	require.NoError(t, err)
	r.stdin = strings.NewReader("\n  [" + validArticle + "]")

	summary, err := r.Run(context.Background(), []string{Stdin})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Valid)
	assert.Contains(t, out.String(), "valid   -[0]")
}

func TestFiles_URL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tp53.json":
			io.WriteString(w, validArticle)
		case "/batch.jsonl":
			io.WriteString(w, `{"article_name": "A", "authors": [], "genes": []}`+"\n")
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	summary, out := run(t, types.ValidationConfig{},
		ts.URL+"/tp53.json", ts.URL+"/batch.jsonl", ts.URL+"/gone.json")

	assert.Equal(t, 2, summary.Valid)
	assert.Equal(t, 1, summary.Failed)
	assert.Contains(t, out, "valid   "+ts.URL+"/tp53.json (1 genes, 1 isoforms)")
	assert.Contains(t, out, "valid   "+ts.URL+"/batch.jsonl[0]")
	assert.Contains(t, out, "failed  "+ts.URL+"/gone.json: fetching")
}

func TestOpensArray(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"[", true},
		{"  \n\t[{}]", true},
		{"{}", false},
		{"", false},
		{"   ", false},
		{"article_name: x", false},
	}
	for _, tt := range tests {
		br := bufio.NewReader(strings.NewReader(tt.input))
		assert.Equal(t, tt.want, opensArray(br), "input %q", tt.input)
	}
}

func TestOpensArray_LongWhitespacePrefix(t *testing.T) {
	br := bufio.NewReaderSize(strings.NewReader(strings.Repeat(" ", 10000)+"[{}]"), 16)
	require.True(t, opensArray(br))
	rest, err := io.ReadAll(br)
	require.NoError(t, err)
	assert.Equal(t, "[{}]", string(rest))
}

func TestFiles_StreamsArrayAfterWhitespace(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "padded.json", strings.Repeat("\n", 5000)+"["+validArticle+"]")

	summary, out := run(t, types.ValidationConfig{}, path)
	assert.Equal(t, 1, summary.Valid)
	assert.Contains(t, out, "valid   "+path+"[0]")
}

func TestFiles_EnginesReportSamePaths(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.json", missingTranscript)
	wrong := writeFile(t, dir, "wrong.json", `{"article_name": "Study W", "authors": "A. Smith", "genes": [{"gene_name": "TP53", "isoforms": [{"isoform_name": 7, "transcript_id": "ENST1", "annotation_type": "canonical", "cell_types": "liver", "functions": []}]}]}`)

	paths := func(s Summary, i int) []string {
		var out []string
		for _, is := range s.Results[i].Issues {
			out = append(out, is.Path.String())
		}
		return out
	}

	native, _ := run(t, types.ValidationConfig{Engine: types.EngineNative}, bad, wrong)
	cue, cueOut := run(t, types.ValidationConfig{Engine: types.EngineCUE}, bad, wrong)

	require.Len(t, native.Results, 2)
	require.Len(t, cue.Results, 2)
	assert.Equal(t, []string{"genes.0.isoforms.0.transcript_id"}, paths(native, 0))
	assert.Equal(t, paths(native, 0), paths(cue, 0))
	assert.ElementsMatch(t, paths(native, 1), paths(cue, 1))
	assert.Equal(t, schema.CodeMissing, cue.Results[0].Issues[0].Code)
	assert.Contains(t, cueOut, "        genes.0.isoforms.0.transcript_id: ")
	assert.NotContains(t, cueOut, "#Article")
}
