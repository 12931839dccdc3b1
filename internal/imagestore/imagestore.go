// Package imagestore manages the flat directory of advertisement images. The numeric
// stem of each file name ("7" for "7.jpg") is the identifier of its advertisement.
package imagestore

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"

	apperrors "github.com/axellelanca/adtracker/internal/errors"
)

// allowed maps accepted file extensions to the content type they must sniff as.
var allowed = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// Image is one stored advertisement image.
type Image struct {
	ID   string `json:"id"`
	File string `json:"file"`
}

// DefaultMaxBytes is the upload limit used when none is configured.
const DefaultMaxBytes int64 = 10 << 20

// Store is a directory of advertisement images.
type Store struct {
	dir      string
	maxBytes int64
	mu       sync.Mutex // serialises id allocation in Save
}

// New returns a Store rooted at dir, creating the directory if needed.
// Images larger than maxBytes are refused; maxBytes <= 0 selects DefaultMaxBytes.
func New(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory %s: %w", dir, err)
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Store{dir: dir, maxBytes: maxBytes}, nil
}

// MaxBytes returns the upload limit.
func (s *Store) MaxBytes() int64 {
	return s.maxBytes
}

// Dir returns the root directory of the store.
func (s *Store) Dir() string {
	return s.dir
}

// List returns every image in the directory, numeric ids first in ascending order.
func (s *Store) List() ([]Image, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read image directory: %w", err)
	}

	images := make([]Image, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		images = append(images, Image{ID: stem(name), File: name})
	}
	sort.SliceStable(images, func(i, j int) bool {
		a, errA := strconv.Atoi(images[i].ID)
		b, errB := strconv.Atoi(images[j].ID)
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return images[i].ID < images[j].ID
	})
	return images, nil
}

// NextID returns max(existing numeric ids) + 1, or "1" when there are none.
// File names without a numeric stem are ignored.
func (s *Store) NextID() (string, error) {
	images, err := s.List()
	if err != nil {
		return "", err
	}
	highest := 0
	for _, img := range images {
		if n, err := strconv.Atoi(img.ID); err == nil && n > highest {
			highest = n
		}
	}
	return strconv.Itoa(highest + 1), nil
}

// Validate checks that filename has an accepted extension and content sniffs as that image type.
// It returns the normalised extension.
func Validate(filename string, content []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	want, ok := allowed[ext]
	if !ok {
		return "", apperrors.ErrInvalidImageFormat
	}
	if !mimetype.Detect(content).Is(want) {
		return "", apperrors.ErrInvalidImageFormat
	}
	if ext == ".jpeg" {
		ext = ".jpg"
	}
	return ext, nil
}

// Save reads at most MaxBytes of the upload, validates it, allocates the next id and writes the image as <id><ext>.
func (s *Store) Save(filename string, r io.Reader) (Image, error) {
	content, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return Image{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(content)) > s.maxBytes {
		return Image{}, apperrors.ErrImageTooLarge
	}
	ext, err := Validate(filename, content)
	if err != nil {
		return Image{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.NextID()
	if err != nil {
		return Image{}, err
	}
	img := Image{ID: id, File: id + ext}
	if err := writeFile(filepath.Join(s.dir, img.File), content); err != nil {
		return Image{}, err
	}
	return img, nil
}

// Remove deletes the image file of img.
func (s *Store) Remove(img Image) error {
	if err := os.Remove(filepath.Join(s.dir, img.File)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove image %s: %w", img.File, err)
	}
	return nil
}

func writeFile(path string, content []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create image %s: %w", path, err)
	}
	if _, err := io.Copy(f, bytes.NewReader(content)); err != nil {
		f.Close()
		return fmt.Errorf("failed to write image %s: %w", path, err)
	}
	return f.Close()
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
