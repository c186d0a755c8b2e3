// Package sourcemap builds a source-map v3 JSON document from the
// Mappings an Emitter records, grounded on the same VLQ/line-grouping
// approach the teacher's SourceMapBuilder uses, adapted to this
// driver's resource-index-keyed Mapping shape instead of a
// string-keyed source map.
package sourcemap

import (
	"encoding/base64"
	"encoding/json"
	"path/filepath"
	"sort"
	"strings"

	"github.com/winsider/libsass/internal/emit"
)

const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// Document is the JSON shape of a source-map v3 file.
type Document struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	SourceRoot     string   `json:"sourceRoot,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// Build renders mappings (already produced by an Emitter) into a
// source-map v3 Document. sources is the list of source paths indexed
// by ResourceIndex, in Resource Store registration order;
// outputFilename and sourceRoot are copied into the document header.
func Build(mappings []emit.Mapping, sources []string, outputFilename, sourceRoot string) Document {
	doc := Document{
		Version:    3,
		File:       outputFilename,
		SourceRoot: sourceRoot,
		Sources:    sources,
		Names:      []string{},
		Mappings:   encodeMappings(mappings),
	}
	return doc
}

// Render marshals doc to its canonical JSON text.
func Render(doc Document) (string, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// EmbeddedComment builds the `/*# sourceMappingURL=data:... */` comment
// for an embedded source map, with the trailing linefeed of the base64
// payload trimmed.
func EmbeddedComment(mapJSON string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(mapJSON))
	return "/*# sourceMappingURL=data:application/json;base64," + encoded + " */"
}

// FileComment builds the non-embedded `/*# sourceMappingURL=... */`
// comment, relativising mapFile against the directory the output file
// will live in.
func FileComment(outputFile, mapFile string) string {
	rel := mapFile
	if outputFile != "" {
		if r, err := filepath.Rel(filepath.Dir(outputFile), mapFile); err == nil {
			rel = r
		}
	}
	return "/*# sourceMappingURL=" + filepath.ToSlash(rel) + " */"
}

func encodeMappings(mappings []emit.Mapping) string {
	if len(mappings) == 0 {
		return ""
	}

	sorted := make([]emit.Mapping, len(mappings))
	copy(sorted, mappings)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].OutLine != sorted[j].OutLine {
			return sorted[i].OutLine < sorted[j].OutLine
		}
		return sorted[i].OutColumn < sorted[j].OutColumn
	})

	byLine := make(map[int][]emit.Mapping)
	maxLine := 0
	for _, m := range sorted {
		byLine[m.OutLine] = append(byLine[m.OutLine], m)
		if m.OutLine > maxLine {
			maxLine = m.OutLine
		}
	}

	var b strings.Builder
	prevGenCol, prevSrcIdx, prevSrcLine, prevSrcCol := 0, 0, 0, 0

	for line := 0; line <= maxLine; line++ {
		if line > 0 {
			b.WriteString(";")
		}
		prevGenCol = 0
		for i, m := range byLine[line] {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(encodeVLQ(m.OutColumn - prevGenCol))
			b.WriteString(encodeVLQ(m.ResourceIndex - prevSrcIdx))
			b.WriteString(encodeVLQ(m.SrcLine - prevSrcLine))
			b.WriteString(encodeVLQ(m.SrcColumn - prevSrcCol))
			prevGenCol = m.OutColumn
			prevSrcIdx = m.ResourceIndex
			prevSrcLine = m.SrcLine
			prevSrcCol = m.SrcColumn
		}
	}
	return b.String()
}

func encodeVLQ(n int) string {
	var value int
	if n < 0 {
		value = ((-n) << 1) | 1
	} else {
		value = n << 1
	}

	var b strings.Builder
	for {
		digit := value & 0x1F
		value >>= 5
		if value > 0 {
			digit |= 0x20
		}
		b.WriteByte(base64Chars[digit])
		if value == 0 {
			break
		}
	}
	return b.String()
}
