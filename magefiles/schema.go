//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// schemaDocs lists the generated schema documents and the CLI flags that
// produce them.
var schemaDocs = []struct {
	path  string
	flags []string
}{
	{filepath.Join("docs", "article.schema.json"), nil},
	{filepath.Join("docs", "article.cue"), []string{"--cue"}},
}

// Schema writes the JSON Schema and CUE definitions into docs/.
func Schema() error {
	mg.Deps(Build)

	if err := os.MkdirAll("docs", 0o755); err != nil {
		return fmt.Errorf("creating docs: %w", err)
	}
	bin := filepath.Join(binDir, binName)
	for _, doc := range schemaDocs {
		out, err := sh.Output(bin, append([]string{"schema"}, doc.flags...)...)
		if err != nil {
			return fmt.Errorf("schema %v: %w", doc.flags, err)
		}
		if err := os.WriteFile(doc.path, []byte(out+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", doc.path, err)
		}
		fmt.Printf("Wrote %s\n", doc.path)
	}
	return nil
}

// Golden regenerates the golden files under pkg/schema/testdata/golden.
func Golden() error {
	return sh.RunV("go", "test", "./pkg/schema", "-run", "Golden", "-update")
}
