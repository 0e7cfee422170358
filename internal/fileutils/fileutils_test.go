package fileutils_test

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/divtax/internal/fileutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))

	assert.True(t, fileutils.FileExists(testFile))
	assert.False(t, fileutils.FileExists(filepath.Join(tmpDir, "nonexistent.txt")))
	assert.False(t, fileutils.FileExists(tmpDir))
}

func TestDirectoryExists(t *testing.T) {
	tmpDir := t.TempDir()

	assert.True(t, fileutils.DirectoryExists(tmpDir))
	assert.False(t, fileutils.DirectoryExists(filepath.Join(tmpDir, "nonexistent")))

	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))
	assert.False(t, fileutils.DirectoryExists(testFile))
}

func TestEnsureDirectoryExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache", "nbp")

	require.NoError(t, fileutils.EnsureDirectoryExists(dir))
	assert.True(t, fileutils.DirectoryExists(dir))
	require.NoError(t, fileutils.EnsureDirectoryExists(dir))
}

func TestWriteFile_CreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tax_reports", "divs_2025.json")

	require.NoError(t, fileutils.WriteFile(path, []byte("{}"), 0644))

	data, err := fileutils.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestReadFile_Missing(t *testing.T) {
	_, err := fileutils.ReadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestReadLines(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []string
	}{
		{"strips bom", "\ufeffStatement,Data,Period\nDividends,Data,USD\n", []string{"Statement,Data,Period", "Dividends,Data,USD"}},
		{"crlf endings", "a\r\nb\r\n", []string{"a", "b"}},
		{"no trailing newline", "a\nb", []string{"a", "b"}},
		{"empty file", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "report.csv")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			lines, err := fileutils.ReadLines(path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, lines)
		})
	}
}

func TestListFilesWithExtension(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.csv", "C.CSV", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0600))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "d.csv"), []byte("x"), 0600))

	files, err := fileutils.ListFilesWithExtension(dir, ".csv")
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "C.CSV"),
		filepath.Join(dir, "a.csv"),
		filepath.Join(dir, "b.csv"),
	}, files)

	_, err = fileutils.ListFilesWithExtension(filepath.Join(dir, "missing"), ".csv")
	assert.Error(t, err)
}
