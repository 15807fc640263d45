// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/isoform-kb/internal/cueschema"
	"github.com/pdiddy/isoform-kb/pkg/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the record definitions",
	Long: `Schema prints the Article, Gene and Isoform definitions with their field
descriptions. The default output is a JSON Schema document suitable for
structured-output extraction; --cue prints the CUE definitions and --fields
prints a plain field table.`,
	Args: cobra.NoArgs,
	RunE: runSchema,
}

func init() {
	schemaCmd.Flags().Bool("cue", false, "print the CUE definitions")
	schemaCmd.Flags().Bool("fields", false, "print a field table")

	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	asCUE, _ := cmd.Flags().GetBool("cue")
	asFields, _ := cmd.Flags().GetBool("fields")

	switch {
	case asCUE && asFields:
		return fmt.Errorf("--cue and --fields are mutually exclusive")
	case asCUE:
		_, err := io.WriteString(out, cueschema.Source())
		return err
	case asFields:
		return printFieldTable(out)
	}

	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", strings.Repeat(" ", cliConfig().Output.Indent))
	return enc.Encode(schema.JSONSchema())
}

func printFieldTable(w io.Writer) error {
	for i, r := range schema.Records {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s: %s\n", r.Name, r.Description)
		for _, f := range r.Fields {
			fmt.Fprintf(w, "  %-16s  %-16s  %s\n", f.Name, f.Shape, f.Description)
		}
	}
	return nil
}
