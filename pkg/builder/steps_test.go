package builder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInject(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		count   int
		wantErr bool
	}{
		{name: "single", text: "x=TOKEN;", want: "x=sk;", count: 1},
		{name: "many", text: "TOKEN TOKEN TOKEN", want: "sk sk sk", count: 3},
		{name: "adjacent", text: "TOKENTOKEN", want: "sksk", count: 2},
		{name: "absent", text: "nothing here", wantErr: true},
		{name: "case_sensitive", text: "token", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n, err := Inject(tt.text, "TOKEN", "sk")
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrPlaceholderNotFound)
				assert.Contains(t, err.Error(), "TOKEN")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.count, n)
		})
	}
}

func TestInject_EmptyPlaceholder(t *testing.T) {
	_, _, err := Inject("abc", "", "sk")
	assert.ErrorIs(t, err, ErrPlaceholderNotFound)
}

func TestInject_SecretContainingPlaceholder(t *testing.T) {
	got, n, err := Inject("[TOKEN]", "TOKEN", "TOKEN-2")
	require.NoError(t, err)
	assert.Equal(t, "[TOKEN-2]", got)
	assert.Equal(t, 1, n)
}

func TestPrepareOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "public")

	require.NoError(t, PrepareOutput(dir))
	assert.DirExists(t, dir)

	writeFile(t, filepath.Join(dir, "a", "b.txt"), "x")
	require.NoError(t, PrepareOutput(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPrepareOutput_ReplacesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "public")
	writeFile(t, dir, "not a dir")

	require.NoError(t, PrepareOutput(dir))
	assert.DirExists(t, dir)
}

func TestLoadTemplate_KeepsBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	writeFile(t, path, "\ufeff<html>TOKEN</html>")

	text, err := LoadTemplate(path)
	require.NoError(t, err)
	assert.Equal(t, "\ufeff<html>TOKEN</html>", text)
}

func TestWriteTemplate_RejectsInvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")

	err := WriteTemplate(path, "key=\xff")
	assert.ErrorIs(t, err, ErrEncoding)
}

func TestCopyAssets_NotADirectory(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "assets")
	writeFile(t, src, "file")

	_, copied, err := CopyAssets(src, filepath.Join(root, "out"))
	assert.ErrorIs(t, err, ErrCopy)
	assert.False(t, copied)
}

func TestCopyAssets_Missing(t *testing.T) {
	root := t.TempDir()

	dest, copied, err := CopyAssets(filepath.Join(root, "assets"), filepath.Join(root, "out"))
	require.NoError(t, err)
	assert.False(t, copied)
	assert.Empty(t, dest)
}

func TestCopyAssets_FollowsSymlinks(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "shared", "font.woff"), "FONT")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "assets"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(root, "shared", "font.woff"), filepath.Join(root, "assets", "font.woff")))

	out := filepath.Join(root, "out")
	require.NoError(t, os.MkdirAll(out, 0o755))
	_, copied, err := CopyAssets(filepath.Join(root, "assets"), out)
	require.NoError(t, err)
	assert.True(t, copied)

	info, err := os.Lstat(filepath.Join(out, "assets", "font.woff"))
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())
}

func TestCountEntries(t *testing.T) {
	dir := t.TempDir()
	n, err := CountEntries(dir)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	writeFile(t, filepath.Join(dir, "a.txt"), "a")
	writeFile(t, filepath.Join(dir, "sub", "b.txt"), "b")
	n, err = CountEntries(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
