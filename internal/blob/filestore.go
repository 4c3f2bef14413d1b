package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// imageExtensions maps the sniffed content type of an accepted upload
// to the file extension the blob is stored under. Only types the
// content sniffer can actually produce belong here; SVG sniffs as
// text/xml and is not supported.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// FileStore is a filesystem-backed Store. Blobs are written under a
// single root directory with generated UUID filenames and served
// statically under a fixed URL prefix.
type FileStore struct {
	root      string
	urlPrefix string
	maxSize   int64
}

// NewFileStore creates a FileStore rooted at dir, creating the
// directory if needed. urlPrefix is the public path blobs are served
// under (e.g. "/media"). maxSize is the per-upload byte limit.
func NewFileStore(dir, urlPrefix string, maxSize int64) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &FileStore{
		root:      dir,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
		maxSize:   maxSize,
	}, nil
}

// Save commits the upload to disk and returns its reference (the
// generated filename).
//
// The payload is sniffed before anything touches disk: non-image
// content fails with ErrUnsupportedType and uploads over the size
// limit fail with ErrTooLarge. The blob is written to a temp file and
// renamed into place, so a failed write never leaves a readable blob.
func (s *FileStore) Save(ctx context.Context, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// Sniff the first 512 bytes to decide the content type.
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	ext, ok := imageExtensions[sniffContentType(head)]
	if !ok {
		return "", ErrUnsupportedType
	}

	ref := uuid.New().String() + ext

	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp blob: %w", err)
	}
	tmpName := tmp.Name()

	// Reassemble the sniffed head with the remaining body, bounded one
	// byte past the limit so overruns are detectable.
	body := io.MultiReader(bytes.NewReader(head), r)
	written, err := io.Copy(tmp, io.LimitReader(body, s.maxSize+1))
	if err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write blob: %w", err)
	}
	if written > s.maxSize {
		tmp.Close()
		os.Remove(tmpName)
		return "", ErrTooLarge
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close blob: %w", err)
	}

	if err := os.Rename(tmpName, filepath.Join(s.root, ref)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("commit blob: %w", err)
	}

	return ref, nil
}

// Remove deletes a committed blob. A missing blob is treated as
// already removed.
func (s *FileStore) Remove(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Refs are bare generated filenames; reject anything path-like.
	if ref == "" || ref != path.Base(ref) {
		return fmt.Errorf("invalid blob ref %q", ref)
	}

	err := os.Remove(filepath.Join(s.root, ref))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove blob %s: %w", ref, err)
	}
	return nil
}

// URL resolves a reference to its public path.
func (s *FileStore) URL(ref string) string {
	return s.urlPrefix + "/" + ref
}

// Dir returns the root directory blobs are stored in, for static
// file serving.
func (s *FileStore) Dir() string {
	return s.root
}

// sniffContentType detects the payload type from its leading bytes,
// stripping any charset parameter DetectContentType appends.
func sniffContentType(head []byte) string {
	ct := http.DetectContentType(head)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return ct
}
