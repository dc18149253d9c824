package storage

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	fsObjectsDir = "objects"
	fsTempDir    = ".tmp"
	fsDataPrefix = "data-"
	fsMetaFile   = "meta.json"
)

var fsRename = os.Rename

// fsStorage implements Storage on a local directory. Keys are hashed into a
// two-level directory layout so arbitrary keys never touch the path directly.
// Each object directory holds content files named by their SHA-256 and a JSON
// metadata sidecar naming the current one. Both are written to a temp file
// first and renamed into place.
type fsStorage struct {
	root string
	mu   sync.Mutex
}

// NewFilesystem creates the directory layout under root if missing.
func NewFilesystem(root string) (Storage, error) {
	if root == "" {
		return nil, fmt.Errorf("filesystem root is required")
	}
	root = filepath.Clean(root)
	for _, dir := range []string{fsObjectsDir, fsTempDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("create %s directory: %w", dir, err)
		}
	}
	return &fsStorage{root: root}, nil
}

func (s *fsStorage) objectDir(key string) string {
	sum := sha256.Sum256([]byte(key))
	h := hex.EncodeToString(sum[:])
	return filepath.Join(s.root, fsObjectsDir, h[:2], h[2:4], h)
}

func (s *fsStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}
	if key == "" {
		return ObjectInfo{}, fmt.Errorf("object key is required")
	}

	tmp, err := s.tempFile()
	if err != nil {
		return ObjectInfo{}, err
	}
	defer os.Remove(tmp.Name())

	hash := sha256.New()
	n, err := io.Copy(io.MultiWriter(tmp, hash), r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("write object %q: %w", key, err)
	}

	info := ObjectInfo{
		Key:          key,
		Size:         n,
		ETag:         hex.EncodeToString(hash.Sum(nil)),
		ContentType:  opt.ContentType,
		LastModified: time.Now().UTC(),
		Metadata:     opt.Metadata,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.objectDir(key)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ObjectInfo{}, fmt.Errorf("create object directory: %w", err)
	}
	prev, prevErr := readMeta(filepath.Join(dir, fsMetaFile))
	hadPrev := prevErr == nil

	dataPath := filepath.Join(dir, dataFileName(info.ETag))
	if err := fsRename(tmp.Name(), dataPath); err != nil {
		return ObjectInfo{}, fmt.Errorf("stage object %q: %w", key, err)
	}
	// The metadata rename is the commit point; until it lands readers keep
	// seeing the previous object.
	if err := s.writeMeta(dir, info); err != nil {
		if !hadPrev || prev.ETag != info.ETag {
			os.Remove(dataPath)
		}
		if !hadPrev {
			s.cleanupEmptyDirs(filepath.Join(dir, fsMetaFile))
		}
		return ObjectInfo{}, fmt.Errorf("commit object %q: %w", key, err)
	}
	if hadPrev && prev.ETag != info.ETag {
		os.Remove(filepath.Join(dir, dataFileName(prev.ETag)))
	}
	return info, nil
}

func (s *fsStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, ObjectInfo{}, err
	}
	dir := s.objectDir(key)
	// A concurrent Put may drop the data file between reading the metadata
	// and opening it; the fresh metadata then names the new one.
	for attempt := 0; ; attempt++ {
		info, err := readMeta(filepath.Join(dir, fsMetaFile))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, ObjectInfo{}, fmt.Errorf("object %q: %w", key, ErrNotFound)
			}
			return nil, ObjectInfo{}, fmt.Errorf("read metadata for %q: %w", key, err)
		}
		f, err := os.Open(filepath.Join(dir, dataFileName(info.ETag)))
		if err == nil {
			return f, info, nil
		}
		if !errors.Is(err, fs.ErrNotExist) || attempt == 2 {
			return nil, ObjectInfo{}, fmt.Errorf("open object %q: %w", key, err)
		}
	}
}

func (s *fsStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	dir := s.objectDir(key)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("delete object %q: %w", key, err)
	}
	s.cleanupEmptyDirs(dir)
	return nil
}

func (s *fsStorage) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	out := make([]ObjectInfo, 0)
	err := filepath.WalkDir(filepath.Join(s.root, fsObjectsDir), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || d.Name() != fsMetaFile {
			return nil
		}
		info, err := readMeta(path)
		if err != nil {
			return err
		}
		if strings.HasPrefix(info.Key, prefix) {
			out = append(out, info)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list objects %q: %w", prefix, err)
	}
	return out, nil
}

func (s *fsStorage) tempFile() (*os.File, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return nil, err
	}
	return os.Create(filepath.Join(s.root, fsTempDir, hex.EncodeToString(b[:])))
}

func (s *fsStorage) writeMeta(dir string, info ObjectInfo) error {
	tmp, err := s.tempFile()
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	err = json.NewEncoder(tmp).Encode(info)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return fsRename(tmp.Name(), filepath.Join(dir, fsMetaFile))
}

func dataFileName(etag string) string {
	return fsDataPrefix + etag
}

func readMeta(path string) (ObjectInfo, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return ObjectInfo{}, err
	}
	var info ObjectInfo
	if err := json.Unmarshal(b, &info); err != nil {
		return ObjectInfo{}, fmt.Errorf("decode metadata: %w", err)
	}
	return info, nil
}

// cleanupEmptyDirs removes empty shard directories left behind by Delete.
func (s *fsStorage) cleanupEmptyDirs(dir string) {
	stop := filepath.Join(s.root, fsObjectsDir)
	for parent := filepath.Dir(dir); parent != stop && strings.HasPrefix(parent, stop); parent = filepath.Dir(parent) {
		entries, err := os.ReadDir(parent)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := os.Remove(parent); err != nil {
			return
		}
	}
}
