package adapters

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalAssetStore(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "assets")

	store, err := NewLocalAssetStore(dir)
	require.NoError(t, err)

	t.Run("保存したファイルを LocalReader で読み戻せる", func(t *testing.T) {
		url, err := store.Put(ctx, []byte("image-bytes"), "image/png")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "file://"), url)
		assert.True(t, strings.HasSuffix(url, ".png"), url)

		rc, err := LocalReader{}.Open(ctx, url)
		require.NoError(t, err)
		defer rc.Close()
		got, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "image-bytes", string(got))
	})

	t.Run("空データは保存しない", func(t *testing.T) {
		_, err := store.Put(ctx, nil, "image/png")
		assert.Error(t, err)
	})

	t.Run("List は保存済みファイルを列挙する", func(t *testing.T) {
		_, err := store.Put(ctx, []byte("jpeg"), "image/jpeg")
		require.NoError(t, err)

		var urls []string
		err = LocalReader{}.List(ctx, FileURL(store.dir), func(u string) error {
			urls = append(urls, u)
			return nil
		})
		require.NoError(t, err)
		assert.Len(t, urls, 2)
	})
}

func TestNewLocalAssetStore_RequiresDir(t *testing.T) {
	_, err := NewLocalAssetStore("")
	assert.ErrorContains(t, err, "dir is required")
}

func TestLocalReader_RejectsOtherSchemes(t *testing.T) {
	_, err := LocalReader{}.Open(context.Background(), "gs://bucket/a.png")
	assert.ErrorContains(t, err, "未対応のスキーム")
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".png", extensionFor("image/png"))
	assert.Equal(t, ".jpg", extensionFor("IMAGE/JPEG"))
	assert.Equal(t, ".webp", extensionFor("image/webp"))
	assert.Equal(t, ".bin", extensionFor("application/octet-stream"))
}

func TestFileURL(t *testing.T) {
	p := filepath.Join(os.TempDir(), "a b.png")
	u := FileURL(p)
	got, err := localPath(u)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}
