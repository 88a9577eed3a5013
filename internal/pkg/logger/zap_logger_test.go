package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolatedLogger_WritesJSONLinesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interactions.log")
	l := NewIsolatedLogger(path)

	l.Info("INTERACTION", "Answer resolved", map[string]interface{}{"request_id": "req-1"})
	l.Debug("INTERACTION", "dropped below info", nil)
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "Answer resolved", entry["message"])
	assert.Equal(t, "INTERACTION", entry["module"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "req-1", entry["details"].(map[string]interface{})["request_id"])
}
