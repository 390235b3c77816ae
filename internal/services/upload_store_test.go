package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.UnixMilli(1760000000000)
}

func TestUploadStoreSave(t *testing.T) {
	dir := t.TempDir()
	store := UploadStore{Dir: dir, Now: fixedNow}

	rel, err := store.Save(&Attachment{Filename: "my photo.jpg", Reader: strings.NewReader("jpeg-bytes")})
	require.NoError(t, err)
	assert.Equal(t, "uploads/1760000000000-my_photo.jpg", rel)

	raw, err := os.ReadFile(filepath.Join(dir, "1760000000000-my_photo.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(raw))

	abs, ok := store.Resolve(rel)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "1760000000000-my_photo.jpg"), abs)
}

func TestUploadStoreSaveNilIsEmptyPath(t *testing.T) {
	store := UploadStore{Dir: t.TempDir()}
	rel, err := store.Save(nil)
	require.NoError(t, err)
	assert.Equal(t, "", rel)
}

func TestUploadStoreDoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	store := UploadStore{Dir: dir, Now: fixedNow}

	first, err := store.Save(&Attachment{Filename: "a.png", Reader: strings.NewReader("one")})
	require.NoError(t, err)
	second, err := store.Save(&Attachment{Filename: "a.png", Reader: strings.NewReader("two")})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	raw, err := os.ReadFile(filepath.Join(dir, "1760000000000-a.png"))
	require.NoError(t, err)
	assert.Equal(t, "one", string(raw))
}

func TestUploadStoreStripsDirectories(t *testing.T) {
	dir := t.TempDir()
	store := UploadStore{Dir: dir, Now: fixedNow}

	rel, err := store.Save(&Attachment{Filename: "../../evil.sh", Reader: strings.NewReader("x")})
	require.NoError(t, err)
	assert.Equal(t, "uploads/1760000000000-evil.sh", rel)
	_, err = os.Stat(filepath.Join(dir, "1760000000000-evil.sh"))
	assert.NoError(t, err)
}
