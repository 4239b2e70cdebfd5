package photofiles

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestCreatesStateCityLayout(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	photoPath, thumbPath, err := s.Ingest(ctx, strings.NewReader("jpegbytes"), "TX", "Austin")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(s.BasePath(), "TX", "Austin"), filepath.Dir(photoPath))
	assert.Equal(t, filepath.Dir(photoPath), filepath.Dir(thumbPath))
	assert.Contains(t, filepath.Base(thumbPath), "_thumb")

	data, err := os.ReadFile(photoPath)
	require.NoError(t, err)
	assert.Equal(t, "jpegbytes", string(data))

	// Thumbnail file is the caller's to write.
	_, err = os.Stat(thumbPath)
	assert.True(t, os.IsNotExist(err))
}

func TestIngestTrimsCityDirectory(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	photoPath, _, err := s.Ingest(context.Background(), strings.NewReader("x"), "TX", "  Austin ")
	require.NoError(t, err)
	assert.Equal(t, "Austin", filepath.Base(filepath.Dir(photoPath)))
}

func TestIngestConcurrentSameCity_UniqueFilenames(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		p, _, err := s.Ingest(ctx, strings.NewReader("x"), "TX", "Austin")
		require.NoError(t, err)
		assert.False(t, seen[p], "duplicate filename %s", p)
		seen[p] = true
	}
}

func TestIngestRejectsTraversalComponents(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, _, err = s.Ingest(ctx, strings.NewReader("x"), "..", "Austin")
	assert.Error(t, err)

	_, _, err = s.Ingest(ctx, strings.NewReader("x"), "TX", "../../etc")
	assert.Error(t, err)

	_, _, err = s.Ingest(ctx, strings.NewReader("x"), "TX", "  ")
	assert.Error(t, err)
}

func TestRemoveMissingFileIsNoop(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	err = s.Remove(context.Background(), filepath.Join(s.BasePath(), "TX", "Austin", "123.jpg"))
	assert.NoError(t, err)
}

func TestRemoveRejectsSymlinkEscapingRoot(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	secret := filepath.Join(t.TempDir(), "secret.jpg")
	require.NoError(t, os.WriteFile(secret, []byte("keep me"), 0644))

	// A link planted inside the root must not let callers reach the target.
	link := filepath.Join(s.BasePath(), "sneaky.jpg")
	require.NoError(t, os.Symlink(secret, link))

	err = s.Remove(context.Background(), link)
	assert.Error(t, err)

	_, err = s.Open(context.Background(), link)
	assert.Error(t, err)

	data, readErr := os.ReadFile(secret)
	require.NoError(t, readErr)
	assert.Equal(t, "keep me", string(data))
}

func TestRemoveRejectsPathsOutsideRoot(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	outside := filepath.Join(t.TempDir(), "other.jpg")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0644))

	err = s.Remove(context.Background(), outside)
	assert.Error(t, err)
	_, statErr := os.Stat(outside)
	assert.NoError(t, statErr)
}

func TestOpenRoundTrip(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	photoPath, _, err := s.Ingest(ctx, strings.NewReader("payload"), "CO", "Denver")
	require.NoError(t, err)

	rc, err := s.Open(ctx, photoPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })

	buf := make([]byte, 16)
	n, _ := rc.Read(buf)
	assert.Equal(t, "payload", string(buf[:n]))
}
