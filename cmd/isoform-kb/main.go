// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the isoform-kb CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/isoform-kb/internal/httputil"
	"github.com/pdiddy/isoform-kb/internal/secrets"
	"github.com/pdiddy/isoform-kb/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the isoform-kb CLI.
var rootCmd = &cobra.Command{
	Use:   "isoform-kb",
	Short: "Schema tooling for articles, genes and transcript isoforms",
	Long: `isoform-kb validates and converts Article documents: scientific articles,
the genes they discuss, and the transcript isoforms of those genes, as
produced by document-extraction or annotation pipelines.

Documents are JSON, YAML, or JSON Lines. Use validate to check them against
the schema, convert to re-serialize them, and schema to print the record
definitions as JSON Schema, CUE, or a field table.`,
	SilenceUsage:      true,
	PersistentPreRunE: checkConfig,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./isoform-kb.yaml or ~/.config/isoform-kb/config.yaml)")
	rootCmd.PersistentFlags().Int("indent", 2, "indentation width for JSON and YAML output")
	rootCmd.PersistentFlags().String("secrets-dir", secrets.DefaultDir, "directory of per-host bearer tokens for URL inputs")

	mustBind("output.indent", rootCmd.PersistentFlags().Lookup("indent"))
	mustBind("fetch.secrets_dir", rootCmd.PersistentFlags().Lookup("secrets-dir"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("isoform-kb")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "isoform-kb"))
		}
	}

	viper.SetEnvPrefix("ISOFORM_KB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// cliConfig assembles the effective configuration from flags, environment
// and config file, in viper's precedence order.
func cliConfig() types.CLIConfig {
	output := types.OutputConfig{Indent: viper.GetInt("output.indent")}
	return types.CLIConfig{
		Validate: types.ValidationConfig{
			Engine:    types.Engine(viper.GetString("validate.engine")),
			Format:    types.Format(viper.GetString("validate.format")),
			MaxIssues: viper.GetInt("validate.max_issues"),
		},
		Convert: types.ConvertConfig{
			OutputConfig: output,
			To:           types.Format(viper.GetString("convert.to")),
			From:         types.Format(viper.GetString("convert.from")),
		},
		Output: output,
		Fetch:  types.FetchConfig{SecretsDir: viper.GetString("fetch.secrets_dir")},
	}
}

// checkConfig rejects settings no command can use, whichever source they
// came from.
func checkConfig(cmd *cobra.Command, args []string) error {
	if n := cliConfig().Output.Indent; n < 0 {
		return fmt.Errorf("output.indent must not be negative, got %d", n)
	}
	return nil
}

// loadTokens reads bearer tokens when any input is a URL. Local inputs never
// touch the secrets directory.
func loadTokens(paths []string) (secrets.Tokens, error) {
	remote := false
	for _, p := range paths {
		if httputil.IsURL(p) {
			remote = true
			break
		}
	}
	if !remote {
		return secrets.Tokens{}, nil
	}

	tokens, err := secrets.Load(cliConfig().Fetch.SecretsDir)
	if err != nil {
		return nil, err
	}
	if len(tokens) > 0 {
		fmt.Fprintf(os.Stderr, "Loaded tokens for: %s\n", strings.Join(tokens.Hosts(), ", "))
	}
	return tokens, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
