// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package photos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"

	"github.com/danielhkuo/gala-registration/auth"
)

// RoutePrefix is the path photos are served under
const RoutePrefix = "/photos/"

var (
	ErrTooLarge = errors.New("photo too large")
	ErrNotImage = errors.New("file is not a supported image")
	ErrNotFound = errors.New("photo not found")
	ErrEmpty    = errors.New("photo is empty")
)

var (
	kitPattern = regexp.MustCompile(`^\d+$`)
	keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*\.[a-z0-9]+$`)
)

// Photo describes a stored upload
type Photo struct {
	Key         string
	URL         string
	ContentType string
	Size        int64
}

// Store keeps registration photos in a blob bucket
type Store struct {
	bucket   *blob.Bucket
	baseURL  string
	maxBytes int64
	now      func() time.Time
}

// Open opens the bucket at bucketURL (file:///dir or mem://).
// Local directories are created when missing.
func Open(ctx context.Context, bucketURL, baseURL string, maxBytes int64) (*Store, error) {
	u, err := url.Parse(bucketURL)
	if err != nil {
		return nil, fmt.Errorf("invalid photo bucket URL: %w", err)
	}
	if u.Scheme == "file" {
		if err := os.MkdirAll(u.Path, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create photo directory: %w", err)
		}
	}

	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open photo bucket: %w", err)
	}
	return NewStore(bucket, baseURL, maxBytes), nil
}

func NewStore(bucket *blob.Bucket, baseURL string, maxBytes int64) *Store {
	return &Store{
		bucket:   bucket,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
		now:      time.Now,
	}
}

// MaxBytes is the largest accepted upload
func (s *Store) MaxBytes() int64 {
	return s.maxBytes
}

// Upload sniffs r, rejects anything that is not a raster image and writes it
// under a key derived from the kit number
func (s *Store) Upload(ctx context.Context, r io.Reader, kitNumber string) (Photo, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return Photo{}, fmt.Errorf("failed to read photo: %w", err)
	}
	if len(data) == 0 {
		return Photo{}, ErrEmpty
	}
	if int64(len(data)) > s.maxBytes {
		return Photo{}, fmt.Errorf("%w: limit is %s", ErrTooLarge, humanize.IBytes(uint64(s.maxBytes)))
	}

	mt := mimetype.Detect(data)
	if !isImage(mt) {
		return Photo{}, fmt.Errorf("%w: detected %s", ErrNotImage, mt.String())
	}

	key, err := s.newKey(kitNumber, mt.Extension())
	if err != nil {
		return Photo{}, err
	}

	contentType := mt.String()
	if err := s.bucket.WriteAll(ctx, key, data, &blob.WriterOptions{ContentType: contentType}); err != nil {
		return Photo{}, fmt.Errorf("failed to store photo: %w", err)
	}

	return Photo{
		Key:         key,
		URL:         s.URL(key),
		ContentType: contentType,
		Size:        int64(len(data)),
	}, nil
}

// NewReader opens a stored photo. The caller closes the reader.
func (s *Store) NewReader(ctx context.Context, key string) (*blob.Reader, error) {
	if !keyPattern.MatchString(key) {
		return nil, ErrNotFound
	}
	rd, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open photo: %w", err)
	}
	return rd, nil
}

// Delete removes a stored photo
func (s *Store) Delete(ctx context.Context, key string) error {
	if !keyPattern.MatchString(key) {
		return ErrNotFound
	}
	if err := s.bucket.Delete(ctx, key); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}

// URL returns the public link for key
func (s *Store) URL(key string) string {
	return s.baseURL + RoutePrefix + key
}

// KeyFromURL returns the key of a photo URL produced by this store.
// Links to anywhere else report false.
func (s *Store) KeyFromURL(photoURL string) (string, bool) {
	key, ok := strings.CutPrefix(photoURL, s.baseURL+RoutePrefix)
	if !ok || !keyPattern.MatchString(key) {
		return "", false
	}
	return key, true
}

func (s *Store) Close() error {
	return s.bucket.Close()
}

// newKey builds <kit>_<unix millis>_<random>.<ext>; kit falls back to "anon"
func (s *Store) newKey(kitNumber, ext string) (string, error) {
	prefix := strings.TrimSpace(kitNumber)
	if !kitPattern.MatchString(prefix) {
		prefix = "anon"
	}

	suffix, err := auth.GenerateID(6)
	if err != nil {
		return "", err
	}

	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "img"
	}

	return prefix + "_" + strconv.FormatInt(s.now().UnixMilli(), 10) + "_" + suffix + "." + ext, nil
}

// isImage accepts raster images only; SVG can carry script
func isImage(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("image/svg+xml") {
			return false
		}
	}
	return strings.HasPrefix(mt.String(), "image/")
}
