// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package blob

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/tierboard/auth"
)

var (
	ErrNotImage = errors.New("upload is not an image")
	ErrNotFound = errors.New("blob not found")
)

// URLPrefix is the path uploaded images are served under.
const URLPrefix = "/images/"

var extPattern = regexp.MustCompile(`^[a-z0-9]{1,5}$`)

// Store writes uploaded images below a single directory. Keys look like
// "<project>/<unix-millis>_<random>.<ext>".
type Store struct {
	root    *os.Root
	baseURL string
}

// Open creates dir if needed and returns a store serving URLs under baseURL.
func Open(dir, baseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image dir: %w", err)
	}
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open image dir: %w", err)
	}
	return &Store{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *Store) Close() error {
	return s.root.Close()
}

// Put stores an uploaded image for projectID and returns its key.
// The content must sniff as an image.
func (s *Store) Put(projectID, filename string, r io.Reader) (string, error) {
	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if !strings.HasPrefix(http.DetectContentType(head), "image/") {
		return "", ErrNotImage
	}

	suffix, err := auth.GenerateID(4)
	if err != nil {
		return "", err
	}
	key := path.Join(projectID, strconv.FormatInt(time.Now().UnixMilli(), 10)+"_"+suffix+"."+extension(filename))

	if err := s.root.MkdirAll(projectID, 0o755); err != nil {
		return "", fmt.Errorf("failed to create project dir: %w", err)
	}
	f, err := s.root.OpenFile(key, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create blob: %w", err)
	}
	if _, err := io.Copy(f, br); err != nil {
		f.Close()
		s.root.Remove(key)
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	if err := f.Close(); err != nil {
		s.root.Remove(key)
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	return key, nil
}

// Open returns the stored file for key. Keys escaping the store are rejected.
func (s *Store) Open(key string) (*os.File, error) {
	if !fs.ValidPath(key) {
		return nil, ErrNotFound
	}
	f, err := s.root.Open(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open blob: %w", err)
	}
	st, err := f.Stat()
	if err != nil || st.IsDir() {
		f.Close()
		return nil, ErrNotFound
	}
	return f, nil
}

// Remove deletes the stored file for key. Missing keys are not an error.
func (s *Store) Remove(key string) error {
	if !fs.ValidPath(key) {
		return ErrNotFound
	}
	if err := s.root.Remove(key); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove blob: %w", err)
	}
	return nil
}

// URL is the public address of a stored key.
func (s *Store) URL(key string) string {
	return s.baseURL + URLPrefix + key
}

// extension picks a safe file extension from the uploaded name.
func extension(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if !extPattern.MatchString(ext) {
		return "png"
	}
	return ext
}
