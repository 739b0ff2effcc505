package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRows(t *testing.T) {
	raw := "Name,Note\nalice,hello\nbob,world\n"
	rows := parseRows(raw)
	require.Len(t, rows, 2)
	assert.Equal(t, "alice", rows[0]["Name"])
	assert.Equal(t, "world", rows[1]["Note"])
}

func TestParseRows_QuotedCommas(t *testing.T) {
	raw := "Name,Note\n\"Smith, Alice\",\"a, b, c\"\n"
	rows := parseRows(raw)
	require.Len(t, rows, 1)
	assert.Equal(t, "Smith, Alice", rows[0]["Name"])
	assert.Equal(t, "a, b, c", rows[0]["Note"])
}

func TestParseRows_BlankLinesSkipped(t *testing.T) {
	raw := "Name,Note\n\nalice,x\n   \nbob,y\n\n"
	rows := parseRows(raw)
	assert.Len(t, rows, 2)
}

func TestParseRows_ShortRowPadded(t *testing.T) {
	raw := "Name,Note,Extra\nalice\n"
	rows := parseRows(raw)
	require.Len(t, rows, 1)
	assert.Equal(t, "alice", rows[0]["Name"])
	assert.Equal(t, "", rows[0]["Note"])
	assert.Equal(t, "", rows[0]["Extra"])
}

func TestParseRows_CRLF(t *testing.T) {
	raw := "Name,Note\r\nalice,hi\r\n"
	rows := parseRows(raw)
	require.Len(t, rows, 1)
	assert.Equal(t, "hi", rows[0]["Note"])
}

func TestSplitLine(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{`"a,b",c`, []string{"a,b", "c"}},
		{"", []string{""}},
		{"a,,c", []string{"a", "", "c"}},
		{`"unterminated,still one field`, []string{"unterminated,still one field"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitLine(tt.line), "line %q", tt.line)
	}
}

func TestHeaderLine(t *testing.T) {
	assert.Equal(t, "project,client", headerLine("Project,Client\r\ndata"))
	assert.Equal(t, "only line", headerLine("Only Line"))
}

func TestSanitizeUTF8(t *testing.T) {
	valid := []byte("café")
	assert.Equal(t, valid, sanitizeUTF8(valid))

	invalid := []byte{'a', 0xff, 'b'}
	got := string(sanitizeUTF8(invalid))
	assert.Equal(t, "a�b", got)
}
