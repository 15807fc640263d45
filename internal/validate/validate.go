// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate checks Article documents on disk (or stdin) against the
// schema and reports per-record results.
package validate

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/pdiddy/isoform-kb/internal/cueschema"
	"github.com/pdiddy/isoform-kb/internal/httputil"
	"github.com/pdiddy/isoform-kb/internal/secrets"
	"github.com/pdiddy/isoform-kb/pkg/schema"
	"github.com/pdiddy/isoform-kb/pkg/types"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// Result is the outcome for one record. Source names the file, with an
// element index for streamed inputs (e.g. "articles.jsonl[3]").
type Result struct {
	Source  string         `json:"source"`
	Valid   bool           `json:"valid"`
	Article *types.Article `json:"article,omitempty"`
	Issues  []schema.Issue `json:"issues,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// Summary holds counts from a validation run.
type Summary struct {
	Valid   int      `json:"valid"`
	Invalid int      `json:"invalid"`
	Failed  int      `json:"failed"`
	Results []Result `json:"results"`
}

// Total returns the number of records and files processed.
func (s Summary) Total() int {
	return s.Valid + s.Invalid + s.Failed
}

// HasFailures reports whether any record was invalid or any input failed.
func (s Summary) HasFailures() bool {
	return s.Invalid > 0 || s.Failed > 0
}

// Runner validates inputs with one engine. Inputs are file paths, http(s)
// URLs, or Stdin.
type Runner struct {
	cfg    types.ValidationConfig
	cue    *cueschema.Validator
	stdin  io.Reader
	client *http.Client
	tokens secrets.Tokens
	w      io.Writer
}

// NewRunner prepares a runner. The CUE definitions are compiled only when
// the cue engine is selected.
func NewRunner(cfg types.ValidationConfig, w io.Writer) (*Runner, error) {
	if cfg.Engine == "" {
		cfg.Engine = types.EngineNative
	}
	if cfg.Format == "" {
		cfg.Format = types.FormatAuto
	}
	r := &Runner{cfg: cfg, stdin: os.Stdin, client: http.DefaultClient, w: w}

	switch cfg.Engine {
	case types.EngineNative:
	case types.EngineCUE:
		v, err := cueschema.New()
		if err != nil {
			return nil, err
		}
		r.cue = v
	default:
		return nil, fmt.Errorf("unsupported engine %q: use native or cue", cfg.Engine)
	}
	return r, nil
}

// UseTokens sets the bearer tokens sent when fetching URLs.
func (r *Runner) UseTokens(t secrets.Tokens) {
	r.tokens = t
}

// Files validates each path in order and prints one progress line per
// record to w. A path that cannot be read or parsed counts as failed and
// does not stop the run.
func Files(ctx context.Context, paths []string, cfg types.ValidationConfig, w io.Writer) (Summary, error) {
	r, err := NewRunner(cfg, w)
	if err != nil {
		return Summary{}, err
	}
	return r.Run(ctx, paths)
}

// Run validates each path in order.
func (r *Runner) Run(ctx context.Context, paths []string) (Summary, error) {
	var summary Summary

	for _, path := range paths {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		if err := r.runPath(ctx, path, &summary); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return summary, err
			}
			fmt.Fprintf(r.w, "failed  %s: %v\n", path, err)
			summary.Failed++
			summary.Results = append(summary.Results, Result{Source: path, Error: err.Error()})
		}
	}

	fmt.Fprintf(r.w, "\nvalid: %d, invalid: %d, failed: %d\n",
		summary.Valid, summary.Invalid, summary.Failed)

	return summary, nil
}

func (r *Runner) runPath(ctx context.Context, path string, summary *Summary) error {
	format, err := r.formatFor(path)
	if err != nil {
		return err
	}

	rc, err := r.open(ctx, path)
	if err != nil {
		return err
	}
	defer rc.Close()
	br := bufio.NewReader(rc)

	// Arrays and JSON Lines are validated element by element without
	// loading the whole input.
	if format == types.FormatJSONL || (format == types.FormatJSON && opensArray(br)) {
		return schema.Stream(ctx, br, func(it schema.Item) error {
			r.record(summary, fmt.Sprintf("%s[%d]", path, it.Index), it.Value)
			return nil
		})
	}

	data, err := io.ReadAll(br)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	value, err := schema.DecodeValue(data, format)
	if err != nil {
		return err
	}
	r.record(summary, path, value)
	return nil
}

// record validates one decoded value and updates the summary.
func (r *Runner) record(summary *Summary, source string, value any) {
	article, err := r.check(value)
	if err == nil {
		fmt.Fprintf(r.w, "valid   %s (%d genes, %d isoforms)\n", source, len(article.Genes), article.IsoformCount())
		summary.Valid++
		summary.Results = append(summary.Results, Result{Source: source, Valid: true, Article: &article})
		return
	}

	var sve *schema.SchemaValidationError
	if !errors.As(err, &sve) {
		fmt.Fprintf(r.w, "failed  %s: %v\n", source, err)
		summary.Failed++
		summary.Results = append(summary.Results, Result{Source: source, Error: err.Error()})
		return
	}

	fmt.Fprintf(r.w, "invalid %s: %d issue(s)\n", source, len(sve.Issues))
	shown := sve.Issues
	if r.cfg.MaxIssues > 0 && len(shown) > r.cfg.MaxIssues {
		shown = shown[:r.cfg.MaxIssues]
	}
	for _, is := range shown {
		fmt.Fprintf(r.w, "        %s\n", is)
	}
	if hidden := len(sve.Issues) - len(shown); hidden > 0 {
		fmt.Fprintf(r.w, "        (and %d more)\n", hidden)
	}
	summary.Invalid++
	summary.Results = append(summary.Results, Result{Source: source, Issues: sve.Issues})
}

// check runs the configured engine. The cue engine decides validity; the
// native builder then produces the typed record.
func (r *Runner) check(value any) (types.Article, error) {
	if r.cue != nil {
		if err := r.cue.Validate(value); err != nil {
			return types.Article{}, err
		}
	}
	return schema.BuildArticleValue(value)
}

func (r *Runner) formatFor(path string) (types.Format, error) {
	if r.cfg.Format != types.FormatAuto {
		return r.cfg.Format, nil
	}
	switch {
	case path == Stdin:
		return types.FormatJSON, nil
	case httputil.IsURL(path):
		return schema.FormatFromPath(httputil.PathOf(path))
	}
	return schema.FormatFromPath(path)
}

func (r *Runner) open(ctx context.Context, path string) (io.ReadCloser, error) {
	switch {
	case path == Stdin:
		return io.NopCloser(r.stdin), nil
	case httputil.IsURL(path):
		return httputil.Open(ctx, r.client, path, r.tokens.For(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return f, nil
}

// opensArray reports whether the first non-space byte opens a JSON array.
// Leading whitespace is consumed; the opening byte is left in br.
func opensArray(br *bufio.Reader) bool {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return false
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		_ = br.UnreadByte()
		return b == '['
	}
}
