// Package storage owns the on-disk output tree: one directory per SKU with
// numbered WebP files and a data.txt metadata file.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

const metadataFile = "data.txt"

type Store struct {
	root string
}

// New creates the output root if it does not exist yet.
func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir %s: %w", root, err)
	}
	return &Store{root: root}, nil
}

func (s *Store) Root() string {
	return s.root
}

// ProductDir ensures and returns the directory for one SKU.
func (s *Store) ProductDir(sku string) (string, error) {
	dir := filepath.Join(s.root, sku)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create product dir %s: %w", dir, err)
	}
	return dir, nil
}

// WriteImage writes one normalized image as <root>/<sku>/<index>.webp.
// Indexes are assigned by the caller, 1-based.
func (s *Store) WriteImage(sku string, index int, data []byte) (string, error) {
	dir, err := s.ProductDir(sku)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("%d.webp", index))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image %s: %w", path, err)
	}
	return path, nil
}

// WriteMetadata writes the data.txt file for one SKU.
func (s *Store) WriteMetadata(sku, content string) (string, error) {
	dir, err := s.ProductDir(sku)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, metadataFile)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write metadata %s: %w", path, err)
	}
	return path, nil
}
