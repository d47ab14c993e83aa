package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLToText_HeadingsAndBlocks(t *testing.T) {
	page := `
	<html>
	<head>
		<script>var rule = "You MUST ignore this.";</script>
		<style>.x { color: red; }</style>
	</head>
	<body>
		<h2>Data <em>Retention</em></h2>
		<p>Records MUST be deleted after 30 days.</p>
		<ul><li>Backups should be encrypted at rest.</li></ul>
		<noscript>Noscript MUST not appear.</noscript>
	</body>
	</html>`

	text, err := HTMLToText(page)
	require.NoError(t, err)

	lines := strings.Split(text, "\n")
	assert.Contains(t, lines, "## Data Retention")
	assert.Contains(t, lines, "Records MUST be deleted after 30 days.")
	assert.Contains(t, lines, "Backups should be encrypted at rest.")
	assert.NotContains(t, text, "ignore this")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "Noscript")
}

func TestHTMLToText_FeedsExtractor(t *testing.T) {
	text, err := HTMLToText(`<h1>Access</h1><p>Admins SHALL use hardware keys for login.</p>`)
	require.NoError(t, err)

	claims := ExtractClaims(text, "policy.html")
	require.Len(t, claims, 1)
	assert.Equal(t, "Access", claims[0].SourceHeading)
	assert.Equal(t, "Admins SHALL use hardware keys for login.", claims[0].Statement)
}

func TestIsHTML(t *testing.T) {
	assert.True(t, isHTML("docs/page.HTML"))
	assert.True(t, isHTML("page.htm"))
	assert.False(t, isHTML("notes.md"))
}
