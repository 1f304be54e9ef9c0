package image

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gemstore_server/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 最小合法 PNG 文件头
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type failingStorage struct{}

func (failingStorage) Put(context.Context, string, string, io.Reader, int64) error {
	return errors.New("bucket unavailable")
}

func (failingStorage) Locate(context.Context, string) (string, error) {
	return "", errors.New("bucket unavailable")
}

func TestUploadAndResolveLocal(t *testing.T) {
	root := t.TempDir()
	svc := NewImageService(NewLocalStorage(root, "/static/images"))
	ctx := context.Background()

	up, err := svc.Upload(ctx, bytes.NewReader(pngHeader), int64(len(pngHeader)))
	require.NoError(t, err)
	assert.Equal(t, "image/png", up.ContentType)
	assert.True(t, strings.HasPrefix(up.Key, KeyPrefix))
	assert.True(t, strings.HasSuffix(up.Key, ".png"))
	assert.Equal(t, PublicPath+up.Key, up.ImageURL)

	stored, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(up.Key)))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, stored)

	url, err := svc.Resolve(ctx, up.Key)
	require.NoError(t, err)
	assert.Equal(t, "/static/images/"+up.Key, url)
}

func TestUploadRejects(t *testing.T) {
	svc := NewImageService(NewLocalStorage(t.TempDir(), "/static/images"))
	ctx := context.Background()

	_, err := svc.Upload(ctx, bytes.NewReader(nil), 0)
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))

	text := []byte("just some plain text, not an image")
	_, err = svc.Upload(ctx, bytes.NewReader(text), int64(len(text)))
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))

	_, err = svc.Upload(ctx, bytes.NewReader(pngHeader), svc.maxSize+1)
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))

	// 声明大小不可信，以实际读取为准
	svc.maxSize = 8
	_, err = svc.Upload(ctx, bytes.NewReader(pngHeader), 4)
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
}

func TestUploadStorageFailure(t *testing.T) {
	svc := NewImageService(failingStorage{})
	_, err := svc.Upload(context.Background(), bytes.NewReader(pngHeader), int64(len(pngHeader)))
	assert.Equal(t, errorx.CodeServerBusy, errorx.GetCode(err))
}

func TestResolveRejectsForeignKeys(t *testing.T) {
	svc := NewImageService(NewLocalStorage(t.TempDir(), "/static/images"))
	ctx := context.Background()

	for _, key := range []string{"", "messages/", "../etc/passwd", "messages/../../x.png", "other/a.png", "messages/a/b.png"} {
		_, err := svc.Resolve(ctx, key)
		assert.True(t, errorx.IsNotFound(err), "key %q", key)
	}

	_, err := svc.Resolve(ctx, "messages/missing.png")
	assert.True(t, errorx.IsNotFound(err))
}

func TestValidURL(t *testing.T) {
	assert.True(t, ValidURL(PublicPath+KeyPrefix+"0b4c.png"))
	assert.False(t, ValidURL("https://cdn.example.net/"+KeyPrefix+"0b4c.png"))
	assert.False(t, ValidURL(PublicPath+"0b4c.png"))
	assert.False(t, ValidURL(PublicPath+KeyPrefix+"a/b.png"))
	assert.False(t, ValidURL(PublicPath+KeyPrefix))
	assert.False(t, ValidURL(""))
}
