package logger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	log, err := New(true, true)
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.True(t, log.Core().Enabled(-1)) // debug level
}

func TestTruncateForLog(t *testing.T) {
	assert.Equal(t, "short", TruncateForLog("  short  ", 10))
	assert.Equal(t, "abcde...", TruncateForLog("abcdefgh", 5))
	assert.Equal(t, "", TruncateForLog("anything", 0))

	// Rune-based, not byte-based.
	got := TruncateForLog(strings.Repeat("智", 10), 4)
	assert.Equal(t, strings.Repeat("智", 4)+"...", got)
}
