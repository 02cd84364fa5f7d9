package resume

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractTextDocx(t *testing.T) {
	data := buildDocx(t, `<w:document><w:body>`+
		`<w:p><w:r><w:t>Zhang Wei</w:t></w:r></w:p>`+
		`<w:p><w:r><w:t>Major:</w:t></w:r><w:tab/><w:r><w:t>Computer Science</w:t></w:r></w:p>`+
		`</w:body></w:document>`)

	text, err := ExtractText("resume.docx", data)
	require.NoError(t, err)

	assert.Contains(t, text, "Zhang Wei")
	assert.Contains(t, text, "Major: Computer Science")
}

func TestExtractTextUnsupportedFormat(t *testing.T) {
	_, err := ExtractText("resume.txt", []byte("plain text"))

	var perr *DocumentParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "resume.txt", perr.Filename)
}

func TestExtractTextCorruptDocx(t *testing.T) {
	_, err := ExtractText("resume.docx", []byte("not a zip archive"))

	var perr *DocumentParseError
	assert.ErrorAs(t, err, &perr)
}

func TestExtractTextEmptyDocument(t *testing.T) {
	data := buildDocx(t, `<w:document><w:body></w:body></w:document>`)

	_, err := ExtractText("resume.docx", data)

	var perr *DocumentParseError
	assert.ErrorAs(t, err, &perr)
}
