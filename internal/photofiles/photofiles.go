// Package photofiles owns the on-disk layout for ingested images: an
// app-private root subdivided by state code then trimmed city name, with
// filenames derived from the ingestion timestamp and a parallel "_thumb"
// file per image.
package photofiles

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const thumbSuffix = "_thumb"

type Store struct {
	basePath string
}

func NewStore(basePath string) (*Store, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create photo directory: %w", err)
	}
	return &Store{basePath: basePath}, nil
}

func (s *Store) BasePath() string {
	return s.basePath
}

// Ingest copies the source image into <base>/<stateCode>/<cityName>/, creating
// directories as needed. The filename is the current unix-millis timestamp so
// concurrent ingests don't collide; if a same-millisecond file already exists
// the nanosecond clock is appended. Returns the photo path and the path the
// caller should write the thumbnail to (not created here).
func (s *Store) Ingest(ctx context.Context, r io.Reader, stateCode, cityName string) (photoPath, thumbPath string, err error) {
	dir, err := s.cityDir(stateCode, cityName)
	if err != nil {
		return "", "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create city directory: %w", err)
	}

	now := time.Now()
	stem := fmt.Sprintf("%d", now.UnixMilli())
	photoPath = filepath.Join(dir, stem+".jpg")

	// O_EXCL closes the race between two ingests landing on the same
	// millisecond; the loser retries with the nanosecond clock.
	f, err := os.OpenFile(photoPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, fs.ErrExist) {
		stem = fmt.Sprintf("%d_%d", now.UnixMilli(), now.UnixNano())
		photoPath = filepath.Join(dir, stem+".jpg")
		f, err = os.OpenFile(photoPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to create file: %w", err)
	}
	thumbPath = filepath.Join(dir, stem+thumbSuffix+".jpg")
	if _, err := io.Copy(f, r); err != nil {
		if cerr := f.Close(); cerr != nil {
			slog.Error("failed to close file after write error", "error", cerr)
		}
		if rerr := os.Remove(photoPath); rerr != nil {
			slog.Error("failed to remove file after write error", "error", rerr)
		}
		return "", "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		if rerr := os.Remove(photoPath); rerr != nil {
			slog.Error("failed to remove file after close error", "error", rerr)
		}
		return "", "", fmt.Errorf("failed to close file: %w", err)
	}

	return photoPath, thumbPath, nil
}

// Open opens a previously ingested image for reading.
func (s *Store) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	resolved, err := s.safeResolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("photo file not found")
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// Remove deletes an ingested file. A missing file is a no-op so that photo
// deletion stays idempotent.
func (s *Store) Remove(ctx context.Context, path string) error {
	resolved, err := s.safeResolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(resolved); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *Store) cityDir(stateCode, cityName string) (string, error) {
	state := strings.TrimSpace(stateCode)
	city := strings.TrimSpace(cityName)
	if state == "" || city == "" {
		return "", fmt.Errorf("state code and city name must not be empty")
	}
	for _, component := range []string{state, city} {
		if strings.ContainsAny(component, `/\`) || component == "." || component == ".." {
			return "", fmt.Errorf("invalid path component %q", component)
		}
	}
	return filepath.Join(s.basePath, state, city), nil
}

// safeResolve resolves path under basePath and rejects directory traversal.
// Symlinks are followed before the containment check, so a link planted
// inside the root cannot reach files outside it.
func (s *Store) safeResolve(path string) (string, error) {
	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}
	// The root exists (NewStore creates it); resolve it once so the prefix
	// comparison uses the same canonical form as the target.
	realBase, err := filepath.EvalSymlinks(absBase)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}

	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(s.basePath, path)
	}
	abs, err = filepath.Abs(abs)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		// Nothing on disk at the leaf (idempotent Remove); still resolve
		// the parent so a symlinked directory can't smuggle the path out.
		parent, perr := filepath.EvalSymlinks(filepath.Dir(abs))
		if perr != nil {
			if !errors.Is(perr, fs.ErrNotExist) {
				return "", fmt.Errorf("invalid path: %w", perr)
			}
			parent = filepath.Dir(abs)
		}
		resolved = filepath.Join(parent, filepath.Base(abs))
	default:
		return "", fmt.Errorf("invalid path: %w", err)
	}

	if !strings.HasPrefix(resolved, realBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path outside photo root")
	}
	return resolved, nil
}
