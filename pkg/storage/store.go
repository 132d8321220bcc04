package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	appErrors "github.com/noah-isme/edu-archive-api/pkg/errors"
)

const tempPrefix = ".upload-"

var keyPattern = regexp.MustCompile(`^[0-9a-f]{32}\.[a-z0-9]{1,10}$`)

// StoredFile describes an object written by Store.
type StoredFile struct {
	Key          string
	OriginalName string
	Size         int64
}

// LocalStorage keeps uploaded files in one flat directory addressed by
// generated keys. Original filenames are metadata only.
type LocalStorage struct {
	baseDir string
	maxSize int64
}

// NewLocalStorage ensures the base directory exists and returns a handle.
// A maxSize of zero disables the upload size limit.
func NewLocalStorage(baseDir string, maxSize int64) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir, maxSize: maxSize}, nil
}

// Store validates the extension of originalName against policy, writes r
// under a fresh key and returns the number of bytes written.
func (s *LocalStorage) Store(r io.Reader, originalName string, policy ExtensionPolicy) (StoredFile, error) {
	sanitized, ext := SanitizeFilename(originalName)
	if sanitized == "" {
		return StoredFile{}, appErrors.FieldError("file", "file is required")
	}
	if !policy.Allows(ext) {
		msg := fmt.Sprintf("file type %q is not allowed; allowed types: %s", ext, strings.Join(policy.Extensions(), ", "))
		if ext == "" {
			msg = fmt.Sprintf("file has no extension; allowed types: %s", strings.Join(policy.Extensions(), ", "))
		}
		return StoredFile{}, appErrors.Clone(appErrors.ErrUnsupportedFileType, msg)
	}

	tmp, err := os.CreateTemp(s.baseDir, tempPrefix+"*")
	if err != nil {
		return StoredFile{}, appErrors.Storage(err, "failed to store file")
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	written, err := s.copy(tmp, r)
	if err != nil {
		return StoredFile{}, err
	}
	if err := tmp.Sync(); err != nil {
		return StoredFile{}, appErrors.Storage(err, "failed to store file")
	}
	if err := tmp.Close(); err != nil {
		return StoredFile{}, appErrors.Storage(err, "failed to store file")
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return StoredFile{}, appErrors.Storage(err, "failed to store file")
	}

	key := newKey(ext)
	if err := os.Rename(tmpPath, s.path(key)); err != nil {
		return StoredFile{}, appErrors.Storage(err, "failed to store file")
	}
	committed = true

	return StoredFile{Key: key, OriginalName: sanitized, Size: written}, nil
}

func (s *LocalStorage) copy(dst io.Writer, r io.Reader) (int64, error) {
	if s.maxSize <= 0 {
		n, err := io.Copy(dst, r)
		if err != nil {
			return 0, appErrors.Storage(err, "failed to store file")
		}
		return n, nil
	}

	n, err := io.Copy(dst, io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return 0, appErrors.Storage(err, "failed to store file")
	}
	if n > s.maxSize {
		return 0, appErrors.FieldError("file", fmt.Sprintf("file exceeds the %s upload limit", FormatSize(s.maxSize)))
	}
	return n, nil
}

// Open returns a read-only handle for the stored file.
func (s *LocalStorage) Open(key string) (*os.File, error) {
	if !ValidKey(key) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "file not found")
	}
	file, err := os.Open(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "file not found")
		}
		return nil, appErrors.Storage(err, "failed to open file")
	}
	return file, nil
}

// Exists reports whether key is present in the store.
func (s *LocalStorage) Exists(key string) bool {
	if !ValidKey(key) {
		return false
	}
	_, err := os.Stat(s.path(key))
	return err == nil
}

// Delete removes a stored file. Missing files are not an error.
func (s *LocalStorage) Delete(key string) error {
	if !ValidKey(key) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid storage key %q", key))
	}
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return appErrors.Storage(err, "failed to delete file")
	}
	return nil
}

// Keys lists every stored object in lexical order.
func (s *LocalStorage) Keys() ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("list upload directory: %w", err)
	}
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() && ValidKey(entry.Name()) {
			keys = append(keys, entry.Name())
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// CleanupStaleUploads removes temp files left behind by interrupted uploads
// that are older than ttl and returns their names.
func (s *LocalStorage) CleanupStaleUploads(ttl time.Duration) ([]string, error) {
	cutoff := time.Now().Add(-ttl)
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("cleanup uploads: %w", err)
	}

	deleted := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), tempPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return deleted, fmt.Errorf("cleanup uploads: %w", err)
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.baseDir, entry.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return deleted, fmt.Errorf("cleanup uploads: %w", err)
		}
		deleted = append(deleted, entry.Name())
	}
	return deleted, nil
}

// Dir returns the upload directory.
func (s *LocalStorage) Dir() string {
	return s.baseDir
}

func (s *LocalStorage) path(key string) string {
	return filepath.Join(s.baseDir, key)
}

// ValidKey reports whether key has the shape produced by Store.
func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}

func newKey(ext string) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "") + "." + ext
}

// SanitizeFilename strips directories and unsafe characters from a
// user-supplied filename. It returns the cleaned name and its lower-case
// extension without the dot.
func SanitizeFilename(name string) (string, string) {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if name == "" || name == "." || name == ".." {
		return "", ""
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	stem = slug.Make(stem)
	if stem == "" {
		stem = "file"
	}
	if ext == "" {
		return stem, ""
	}
	ext = slug.Make(ext)
	return stem + "." + ext, ext
}

// FormatSize renders a byte count for display.
func FormatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	value := float64(size)
	for _, suffix := range []string{"KB", "MB", "GB"} {
		value /= unit
		if value < unit || suffix == "GB" {
			return fmt.Sprintf("%.1f %s", value, suffix)
		}
	}
	return fmt.Sprintf("%.1f GB", value)
}
