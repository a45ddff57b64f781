package blob

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const metaSuffix = ".meta"

// Filesystem stores blobs as files under a root directory, with a JSON
// sidecar (key + ".meta") holding content type and metadata.
type Filesystem struct {
	root string
}

type metaFile struct {
	ContentType string            `json:"contentType,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// NewFilesystem creates root if needed.
func NewFilesystem(root string) (*Filesystem, error) {
	if root == "" {
		root = "./exports"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &Filesystem{root: root}, nil
}

// Driver names the backend.
func (f *Filesystem) Driver() Driver { return DriverFilesystem }

func (f *Filesystem) path(key string) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(f.root, filepath.FromSlash(key)), nil
}

// Put writes to a temp file and renames it into place.
func (f *Filesystem) Put(_ context.Context, key string, r io.Reader, opts PutOptions) (Info, error) {
	p, err := f.path(key)
	if err != nil {
		return Info{}, err
	}
	if _, err := os.Stat(p); err == nil {
		return Info{}, fmt.Errorf("%w: %s", ErrExists, key)
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return Info{}, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), ".tmp-*")
	if err != nil {
		return Info{}, err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return Info{}, err
	}
	if err := tmp.Close(); err != nil {
		return Info{}, err
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return Info{}, err
	}

	meta, err := json.Marshal(metaFile{ContentType: opts.ContentType, Metadata: cloneMetadata(opts.Metadata)})
	if err != nil {
		return Info{}, err
	}
	if err := os.WriteFile(p+metaSuffix, meta, 0o644); err != nil { //nolint:gosec // exports are not secret
		return Info{}, err
	}
	return f.info(key, p)
}

func (f *Filesystem) info(key, p string) (Info, error) {
	st, err := os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return Info{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return Info{}, err
	}
	info := Info{Key: key, Size: st.Size(), LastModified: st.ModTime().UTC()}
	if b, err := os.ReadFile(p + metaSuffix); err == nil {
		var m metaFile
		if json.Unmarshal(b, &m) == nil {
			info.ContentType = m.ContentType
			info.Metadata = m.Metadata
		}
	}
	return info, nil
}

// Get opens a blob for reading.
func (f *Filesystem) Get(_ context.Context, key string) (Info, io.ReadCloser, error) {
	p, err := f.path(key)
	if err != nil {
		return Info{}, nil, err
	}
	info, err := f.info(key, p)
	if err != nil {
		return Info{}, nil, err
	}
	file, err := os.Open(p) //nolint:gosec // path is confined to root by cleanKey
	if err != nil {
		return Info{}, nil, err
	}
	return info, file, nil
}

// Delete removes a blob and its sidecar.
func (f *Filesystem) Delete(_ context.Context, key string) (bool, error) {
	p, err := f.path(key)
	if err != nil {
		return false, err
	}
	err = os.Remove(p)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	_ = os.Remove(p + metaSuffix)
	return true, nil
}

// List walks the root and returns blobs whose key starts with prefix.
func (f *Filesystem) List(_ context.Context, prefix string) ([]Info, error) {
	var out []Info
	err := filepath.WalkDir(f.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(p, metaSuffix) || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}
		rel, err := filepath.Rel(f.root, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		info, err := f.info(key, p)
		if err != nil {
			return err
		}
		out = append(out, info)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

