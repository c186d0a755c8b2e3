package driver

import "strings"

// ConvertIndented is the indented-to-bracketed preprocessor §1 and
// §4.6 treat as a pure textual black box. A file already written in
// bracketed syntax — which always carries literal `{`/`}` for every
// rule — passes through unchanged, satisfying the round-trip property
// in §8 trivially; only genuine indentation-significant input (no
// brace anywhere in the source) is rewritten, by converting each
// increase in indentation to an opening brace and each decrease to a
// matching close, and appending `;` to any line that does not itself
// open a nested block.
func ConvertIndented(source string) string {
	if strings.ContainsAny(source, "{}") {
		return source
	}

	lines := strings.Split(source, "\n")
	var out []string
	var indents []int

	for i := 0; i < len(lines); i++ {
		raw := lines[i]
		trimmed := strings.TrimRight(raw, " \t\r")
		content := strings.TrimLeft(trimmed, " \t")
		if content == "" {
			continue
		}
		indent := len(trimmed) - len(content)

		for len(indents) > 0 && indent <= indents[len(indents)-1] {
			out = append(out, strings.Repeat("  ", len(indents)-1)+"}")
			indents = indents[:len(indents)-1]
		}

		hasChild := i+1 < len(lines) && lineIndent(lines[i+1]) > indent
		prefix := strings.Repeat("  ", len(indents))
		switch {
		case hasChild:
			out = append(out, prefix+content+" {")
			indents = append(indents, indent)
		case strings.HasPrefix(content, "@") || strings.HasSuffix(content, ";"):
			out = append(out, prefix+content)
		default:
			out = append(out, prefix+content+";")
		}
	}
	for range indents {
		out = append(out, strings.Repeat("  ", len(indents)-1)+"}")
		indents = indents[:len(indents)-1]
	}

	return strings.Join(out, "\n") + "\n"
}

func lineIndent(line string) int {
	trimmed := strings.TrimRight(line, " \t\r")
	content := strings.TrimLeft(trimmed, " \t")
	if content == "" {
		return -1
	}
	return len(trimmed) - len(content)
}
