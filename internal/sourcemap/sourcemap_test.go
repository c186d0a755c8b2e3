package sourcemap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/winsider/libsass/internal/emit"
)

func TestBuildProducesVersion3Document(t *testing.T) {
	mappings := []emit.Mapping{
		{OutLine: 0, OutColumn: 0, ResourceIndex: 0, SrcLine: 0, SrcColumn: 0},
		{OutLine: 1, OutColumn: 2, ResourceIndex: 0, SrcLine: 1, SrcColumn: 2},
	}
	doc := Build(mappings, []string{"a.scss"}, "out.css", "")
	require.Equal(t, 3, doc.Version)
	require.Equal(t, []string{"a.scss"}, doc.Sources)
	require.NotEmpty(t, doc.Mappings)
}

func TestRenderProducesValidJSON(t *testing.T) {
	doc := Build(nil, []string{"a.scss"}, "out.css", "")
	text, err := Render(doc)
	require.NoError(t, err)
	require.Contains(t, text, `"version":3`)
}

func TestEmbeddedCommentHasBase64Payload(t *testing.T) {
	c := EmbeddedComment(`{"version":3}`)
	require.True(t, strings.HasPrefix(c, "/*# sourceMappingURL=data:application/json;base64,"))
	require.True(t, strings.HasSuffix(c, " */"))
}

func TestFileCommentRelativisesAgainstOutputDir(t *testing.T) {
	c := FileComment("/proj/dist/out.css", "/proj/dist/out.css.map")
	require.Equal(t, "/*# sourceMappingURL=out.css.map */", c)
}

func TestEncodeMappingsEmptyForNoMappings(t *testing.T) {
	require.Equal(t, "", encodeMappings(nil))
}
