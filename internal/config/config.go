// Package config loads the driver's optional on-disk configuration
// file (include paths, default output style, precision) as JSON with
// comments, the way a CLI wrapper conventionally ships defaults
// alongside a binary.
package config

import (
	"encoding/json"
	"os"

	"github.com/tidwall/jsonc"
)

// File is the on-disk shape of an optional `sassc.jsonc` (or
// caller-specified path): defaults a CLI invocation can omit.
type File struct {
	IncludePaths     []string `json:"includePaths"`
	PluginPaths      []string `json:"pluginPaths"`
	OutputStyle      string   `json:"outputStyle"`
	Precision        int      `json:"precision"`
	SourceMap        bool     `json:"sourceMap"`
	SourceMapEmbed   bool     `json:"sourceMapEmbed"`
	OmitMapComment   bool     `json:"omitMapComment"`
	IndentedSyntax   bool     `json:"indentedSyntax"`
}

// Load reads path, strips JSONC comments and trailing commas, and
// unmarshals the result into a File. A missing path is not an error —
// it returns the zero File, letting command-line flags supply every
// default.
func Load(path string) (File, error) {
	var f File
	if path == "" {
		return f, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return f, err
	}
	if err := json.Unmarshal(jsonc.ToJSON(raw), &f); err != nil {
		return f, err
	}
	return f, nil
}
