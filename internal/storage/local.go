package storage

import (
	"context"
	"errors"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// URLPrefix is where the API serves local files.
const URLPrefix = "/uploads/"

type Local struct {
	Dir     string
	BaseURL string
}

func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Local{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (l *Local) Put(ctx context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	full, err := l.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(full)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(full)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return l.BaseURL + URLPrefix + key, nil
}

func (l *Local) Delete(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	i := strings.Index(u.Path, URLPrefix)
	if i < 0 {
		return ErrForeignURL
	}
	full, err := l.resolve(u.Path[i+len(URLPrefix):])
	if err != nil {
		return err
	}
	return os.Remove(full)
}

// resolve maps key inside Dir, rejecting traversal.
func (l *Local) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", errors.New("invalid storage key")
	}
	return filepath.Join(l.Dir, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}
