package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ErrUpload is returned (wrapped with the upstream message) when the asset host rejects an upload.
var ErrUpload = errors.New("asset upload failed")

// Asset is the reference returned by the asset host after a successful upload.
type Asset struct {
	URL      string `json:"url" bson:"url"`
	PublicID string `json:"public_id" bson:"public_id"`
}

// Upload describes a file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// AssetStore uploads client files to a public asset host and removes them again.
type AssetStore interface {
	Upload(ctx context.Context, folder string, up Upload) (Asset, error)
	Delete(ctx context.Context, publicID string) error
}

// OpenFileHeader opens a multipart file for upload. The caller closes the returned closer.
func OpenFileHeader(fh *multipart.FileHeader) (Upload, io.Closer, error) {
	f, err := fh.Open()
	if err != nil {
		return Upload{}, nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	return Upload{Filename: fh.Filename, ContentType: ct, Size: fh.Size, Body: f}, f, nil
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// objectKey builds a collision-free key under folder that keeps a readable file name.
func objectKey(folder, filename string) string {
	name := unsafeName.ReplaceAllString(path.Base(strings.ReplaceAll(filename, "\\", "/")), "_")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "file"
	}
	return strings.Trim(folder, "/") + "/" + uuid.NewString() + "_" + name
}
