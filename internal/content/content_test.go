package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCongratulationContainsName(t *testing.T) {
	l := NewLibrary(t.TempDir(), 1)
	for i := 0; i < 20; i++ {
		got := l.Congratulation("Anna")
		assert.Contains(t, got, "Anna")
		assert.NotContains(t, got, "%s")
	}
}

func TestGiftIdea(t *testing.T) {
	l := NewLibrary(t.TempDir(), 1)
	for i := 0; i < 20; i++ {
		assert.True(t, strings.HasPrefix(l.GiftIdea(), "Идея подарка:"))
	}
}

func TestRandomImageEmptyDir(t *testing.T) {
	l := NewLibrary(t.TempDir(), 1)
	_, ok := l.RandomImage()
	assert.False(t, ok)
}

func TestRandomImageMissingDir(t *testing.T) {
	l := NewLibrary(filepath.Join(t.TempDir(), "nope"), 1)
	_, ok := l.RandomImage()
	assert.False(t, ok)
}

func TestRandomImagePicksOnlyImages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"cake.jpg", "party.PNG", "card.jpeg", "notes.txt", "readme.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	l := NewLibrary(dir, 1)
	for i := 0; i < 30; i++ {
		path, ok := l.RandomImage()
		require.True(t, ok)
		ext := strings.ToLower(filepath.Ext(path))
		assert.Contains(t, []string{".jpg", ".jpeg", ".png"}, ext)
	}
}

func TestRandomImageSeesNewFiles(t *testing.T) {
	dir := t.TempDir()
	l := NewLibrary(dir, 1)

	_, ok := l.RandomImage()
	require.False(t, ok)

	// dropped in after construction, no restart needed
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cake.jpg"), []byte("x"), 0o644))
	path, ok := l.RandomImage()
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "cake.jpg"), path)
}
