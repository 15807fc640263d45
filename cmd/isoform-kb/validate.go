// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/isoform-kb/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate Article documents against the schema",
	Long: `Validate checks each document for the required Article, Gene and Isoform
fields and their shapes. JSON arrays and JSON Lines files are checked record
by record. Every problem is reported with the path to the offending field,
e.g. genes.0.isoforms.0.transcript_id.

Use - to read a JSON document from standard input. Arguments that are
http(s) URLs are fetched.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().String("engine", "native", "validation engine: native or cue")
	validateCmd.Flags().String("format", "auto", "input format: auto, json, yaml, or jsonl")
	validateCmd.Flags().Int("max-issues", 0, "maximum issues printed per record (0 = all)")
	validateCmd.Flags().Bool("json", false, "output the report as JSON")

	mustBind("validate.engine", validateCmd.Flags().Lookup("engine"))
	mustBind("validate.format", validateCmd.Flags().Lookup("format"))
	mustBind("validate.max_issues", validateCmd.Flags().Lookup("max-issues"))

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more files (or - for stdin)")
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	out := cmd.OutOrStdout()
	progress := out
	if jsonOutput {
		progress = io.Discard
	}

	tokens, err := loadTokens(args)
	if err != nil {
		return err
	}
	runner, err := validate.NewRunner(cliConfig().Validate, progress)
	if err != nil {
		return err
	}
	runner.UseTokens(tokens)

	summary, err := runner.Run(cmd.Context(), args)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}

	if summary.HasFailures() {
		return fmt.Errorf("%d record(s) invalid, %d input(s) failed", summary.Invalid, summary.Failed)
	}
	return nil
}
