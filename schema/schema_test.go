package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommitRecordTotalLines(t *testing.T) {
	commit := CommitRecord{LinesAdded: 120, LinesRemoved: 45}
	assert.Equal(t, 165, commit.TotalLines(), "TotalLines should sum added and removed lines")

	var empty CommitRecord
	assert.Equal(t, 0, empty.TotalLines(), "zero-value commit should have zero total lines")
}

func TestValidOutputModes(t *testing.T) {
	for _, mode := range []OutputMode{CSVOut, TextOut, JSONOut} {
		_, ok := ValidOutputModes[mode]
		assert.True(t, ok, "%s should be a valid output mode", mode)
	}
	_, ok := ValidOutputModes[OutputMode("yaml")]
	assert.False(t, ok, "unknown output mode should be invalid")
}

func TestValidBackends(t *testing.T) {
	for _, backend := range []DatabaseBackend{SQLiteBackend, MySQLBackend, PostgreSQLBackend, NoneBackend} {
		_, ok := ValidBackends[backend]
		assert.True(t, ok, "%s should be a valid backend", backend)
	}
	_, ok := ValidBackends[DatabaseBackend("oracle")]
	assert.False(t, ok, "unknown backend should be invalid")
}
