package core

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// imageExts lists the extensions a product image may carry on disk, in
// probe order.
var imageExts = []string{".jpg", ".jpeg", ".png", ".webp"}

var extByMime = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageStore keeps at most one image per product id under dir, named
// <id>.<ext>. Writes follow a last-write-wins convention: storing a new
// image removes siblings with other extensions.
type ImageStore struct {
	dir     string
	maxSize int64
	baseURL string
}

// NewImageStore creates the store and its directory.
func NewImageStore(dir string, maxSizeMB int64) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &ImageStore{
		dir:     dir,
		maxSize: maxSizeMB * 1024 * 1024,
		baseURL: "/uploads/products",
	}, nil
}

// Save validates and stores an uploaded product image. The content type
// is sniffed from the file head, not trusted from the request.
func (s *ImageStore) Save(file *multipart.FileHeader, productID int) error {
	if file.Size > s.maxSize {
		return fmt.Errorf("image exceeds %d bytes", s.maxSize)
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		return fmt.Errorf("read upload: %w", err)
	}
	ext, ok := extByMime[http.DetectContentType(head[:n])]
	if !ok {
		return fmt.Errorf("unsupported image type")
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind upload: %w", err)
	}

	finalPath := s.path(productID, ext)
	dst, err := os.Create(finalPath)
	if err != nil {
		return fmt.Errorf("create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(finalPath)
		return fmt.Errorf("write image file: %w", err)
	}

	// Drop stale images of the same product under other extensions.
	for _, e := range imageExts {
		p := s.path(productID, e)
		if p == finalPath {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", p).Msg("Failed to remove stale product image")
		}
	}

	return nil
}

// URL returns the public URL of the product's image, or "" when none
// exists.
func (s *ImageStore) URL(productID int) string {
	for _, ext := range imageExts {
		if _, err := os.Stat(s.path(productID, ext)); err == nil {
			return fmt.Sprintf("%s/%d%s", s.baseURL, productID, ext)
		}
	}
	return ""
}

// Remove deletes any stored image for the product.
func (s *ImageStore) Remove(productID int) {
	for _, ext := range imageExts {
		if err := os.Remove(s.path(productID, ext)); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Int("product_id", productID).Msg("Failed to remove product image")
		}
	}
}

// Dir returns the on-disk directory backing the store.
func (s *ImageStore) Dir() string {
	return s.dir
}

func (s *ImageStore) path(productID int, ext string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%d%s", productID, ext))
}
