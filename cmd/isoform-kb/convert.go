// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/isoform-kb/internal/httputil"
	"github.com/pdiddy/isoform-kb/pkg/schema"
	"github.com/pdiddy/isoform-kb/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Re-serialize an Article document as JSON or YAML",
	Long: `Convert reads one Article document, validates it, and writes it in the
target format with fields in schema order. Invalid documents are rejected
and nothing is written.

Use - to read from standard input (format defaults to JSON). An http(s) URL
is fetched, retrying when the server throttles.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("to", "yaml", "output format: json, jsonl, or yaml")
	convertCmd.Flags().String("from", "auto", "input format: auto, json, or yaml")
	convertCmd.Flags().String("out", "", "output file (default: stdout)")

	mustBind("convert.to", convertCmd.Flags().Lookup("to"))
	mustBind("convert.from", convertCmd.Flags().Lookup("from"))

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := cliConfig().Convert
	path := args[0]

	from := cfg.From
	if from == "" || from == types.FormatAuto {
		if path == "-" {
			from = types.FormatJSON
		} else {
			name := path
			if httputil.IsURL(path) {
				name = httputil.PathOf(path)
			}
			f, err := schema.FormatFromPath(name)
			if err != nil {
				return err
			}
			from = f
		}
	}

	data, err := readInput(cmd.Context(), cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	article, err := schema.Decode(data, from)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	var buf bytes.Buffer
	if err := schema.Encode(&buf, article, cfg.To, cfg.Indent); err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("out")
	if outPath == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d genes, %d isoforms)\n", outPath, len(article.Genes), article.IsoformCount())
	return nil
}

func readInput(ctx context.Context, stdin io.Reader, path string) ([]byte, error) {
	switch {
	case path == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	case httputil.IsURL(path):
		tokens, err := loadTokens([]string{path})
		if err != nil {
			return nil, err
		}
		body, err := httputil.Open(ctx, nil, path, tokens.For(path))
		if err != nil {
			return nil, err
		}
		defer body.Close()
		data, err := io.ReadAll(body)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
