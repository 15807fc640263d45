// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads bearer tokens for document hosts from a directory of
// plain-text files. Each file is one token: the filename is the host (with
// an optional port, e.g. annotations.example.org or localhost_8080) and the
// trimmed contents are the token.
package secrets

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// DefaultDir is where tokens are read from when no directory is configured.
const DefaultDir = ".secrets"

// Tokens maps a host name to its bearer token.
type Tokens map[string]string

// Load reads all files in dir. A missing directory is not an error; Load
// returns empty Tokens. Unreadable files produce a warning on stderr but do
// not abort.
func Load(dir string) (Tokens, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Tokens{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	tokens := make(Tokens)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read token %s: %v\n", name, err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			tokens[hostKey(name)] = value
		}
	}

	return tokens, nil
}

// hostKey maps a token filename to the host it authenticates. Colons are
// awkward in filenames, so a trailing _<port> stands for :<port>. Other
// underscores are part of the host name.
func hostKey(name string) string {
	name = strings.ToLower(name)
	i := strings.LastIndexByte(name, '_')
	if i <= 0 || i == len(name)-1 {
		return name
	}
	if _, err := strconv.ParseUint(name[i+1:], 10, 16); err != nil {
		return name
	}
	return name[:i] + ":" + name[i+1:]
}

// For returns the token for the host of rawURL, preferring an entry that
// includes the port. It returns "" when no token applies.
func (t Tokens) For(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	if tok, ok := t[strings.ToLower(u.Host)]; ok {
		return tok
	}
	return t[strings.ToLower(u.Hostname())]
}

// Hosts returns the configured host names in sorted order.
func (t Tokens) Hosts() []string {
	hosts := make([]string, 0, len(t))
	for h := range t {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)
	return hosts
}
