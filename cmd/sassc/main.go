package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/winsider/libsass/internal/config"
	"github.com/winsider/libsass/sass"
)

const version = "1.0.0-go"

// stringSliceFlag allows a flag to be repeated, or a single value
// split on the OS path-list separator.
type stringSliceFlag []string

func (s *stringSliceFlag) String() string { return strings.Join(*s, ", ") }

func (s *stringSliceFlag) Set(value string) error {
	for _, v := range strings.Split(value, string(os.PathListSeparator)) {
		if v != "" {
			*s = append(*s, v)
		}
	}
	return nil
}

func main() {
	var (
		showVersion    bool
		showHelp       bool
		outputStyle    string
		sourceMap      bool
		sourceMapEmbed bool
		omitMapComment bool
		indented       bool
		precision      int
		configPath     string
		includePaths   stringSliceFlag
		pluginPaths    stringSliceFlag
	)

	flag.Usage = printUsage

	flag.BoolVar(&showVersion, "v", false, "Print version number and exit")
	flag.BoolVar(&showVersion, "version", false, "Print version number and exit")
	flag.BoolVar(&showHelp, "h", false, "Print help and exit")
	flag.BoolVar(&showHelp, "help", false, "Print help and exit")
	flag.StringVar(&outputStyle, "output-style", "nested", "Output style: nested, expanded, compact, compressed")
	flag.BoolVar(&sourceMap, "source-map", false, "Generate a source map")
	flag.BoolVar(&sourceMapEmbed, "source-map-embed", false, "Embed the source map in the CSS output")
	flag.BoolVar(&omitMapComment, "omit-map-comment", false, "Suppress the sourceMappingURL comment")
	flag.BoolVar(&indented, "indented", false, "Treat the input as indented syntax")
	flag.IntVar(&precision, "precision", 5, "Decimal precision for numeric output (reserved for the evaluator)")
	flag.StringVar(&configPath, "config", "", "Path to a sassc.jsonc defaults file")
	flag.Var(&includePaths, "include-path", "Include path for @import resolution (repeatable)")
	flag.Var(&pluginPaths, "plugin-path", "Plugin search path (repeatable)")

	flag.Parse()

	if showVersion {
		fmt.Printf("sassc %s\n", version)
		os.Exit(0)
	}
	if showHelp {
		printUsage()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		printUsage()
		os.Exit(1)
	}
	inputFile := args[0]
	var outputFile string
	if len(args) > 1 {
		outputFile = args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading config %s: %v\n", configPath, err)
		os.Exit(1)
	}

	opts := sass.Options{
		IncludePaths:   append(append([]string{}, cfg.IncludePaths...), includePaths...),
		PluginPaths:    append(append([]string{}, cfg.PluginPaths...), pluginPaths...),
		IndentedSyntax: indented || cfg.IndentedSyntax,
		SourceMap:      sourceMap || cfg.SourceMap,
		SourceMapEmbed: sourceMapEmbed || cfg.SourceMapEmbed,
		OmitMapComment: omitMapComment || cfg.OmitMapComment,
	}
	opts.OutputStyle = resolveOutputStyle(outputStyle, cfg.OutputStyle)
	if outputFile != "" {
		opts.SourceMapFile = outputFile + ".map"
	}

	var result *sass.Result
	if inputFile == "-" {
		content, readErr := io.ReadAll(os.Stdin)
		if readErr != nil {
			fmt.Fprintf(os.Stderr, "Error reading from stdin: %v\n", readErr)
			os.Exit(1)
		}
		result, err = sass.CompileString(string(content), "stdin", opts)
	} else {
		result, err = sass.CompileFile(inputFile, opts)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Compilation error: %v\n", err)
		os.Exit(1)
	}

	if opts.SourceMap && !opts.SourceMapEmbed && outputFile != "" && result.SourceMap != "" {
		mapFile := outputFile + ".map"
		if err := os.WriteFile(mapFile, []byte(result.SourceMap), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing source map file %s: %v\n", mapFile, err)
			os.Exit(1)
		}
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(result.CSS), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file %s: %v\n", outputFile, err)
			os.Exit(1)
		}
		return
	}

	writer := bufio.NewWriter(os.Stdout)
	writer.WriteString(result.CSS)
	writer.Flush()
}

func resolveOutputStyle(flagValue, configValue string) sass.OutputStyle {
	v := flagValue
	if v == "" || v == "nested" {
		if configValue != "" {
			v = configValue
		}
	}
	switch strings.ToLower(v) {
	case "expanded":
		return sass.Expanded
	case "compact":
		return sass.Compact
	case "compressed":
		return sass.Compressed
	default:
		return sass.Nested
	}
}

func printUsage() {
	fmt.Printf(`sassc %s (Sass Compiler - Go)
Usage: sassc [options] <input.scss|-> [output.css]

Input:
  <input.scss>       Compile a Sass/SCSS file
  -                  Read Sass/SCSS from stdin

Options:
  -h, --help               Print this help message
  -v, --version             Print version number

Compilation:
  --output-style=STYLE      Output style: nested (default), expanded, compact, compressed
  --indented                 Treat the input as indented syntax
  --precision=N              Decimal precision for numeric output

Import Paths:
  --include-path=PATH        Add path for @import resolution (repeatable)
  --plugin-path=PATH         Add a plugin search path (repeatable)

Source Maps:
  --source-map                Generate a source map
  --source-map-embed          Embed the source map in the CSS output
  --omit-map-comment          Suppress the sourceMappingURL comment

Configuration:
  --config=PATH              Load defaults from a sassc.jsonc file

`, version)
}
