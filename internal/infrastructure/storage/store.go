package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"teamleopard/internal/config"
	"teamleopard/internal/pkg/jwt"
)

const (
	ResumeBucket = "cv"
	FilesRoute   = "/files/"
)

var (
	ErrInvalidPath = errors.New("invalid object path")
	ErrNotFound    = errors.New("object not found")
)

type Object struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the object storage surface: upload, list under a prefix, and
// signed read URLs.
type Store interface {
	Upload(ctx context.Context, objectPath string, r io.Reader) error
	List(ctx context.Context, prefix string) ([]Object, error)
	Open(ctx context.Context, objectPath string) (io.ReadCloser, error)
	SignedURL(objectPath string, ttl time.Duration) (string, time.Time, error)
}

// ResumePath is where a user's uploaded resume is stored.
func ResumePath(userID uuid.UUID, fileName string, at time.Time) string {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(fileName), "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "resume"
	}
	return fmt.Sprintf("%s/%s/%d_%s", ResumeBucket, userID, at.UnixMilli(), name)
}

// ResumePrefix is the folder holding every resume of a user.
func ResumePrefix(userID uuid.UUID) string {
	return fmt.Sprintf("%s/%s/", ResumeBucket, userID)
}

// OriginalName strips the timestamp ResumePath prepends.
func OriginalName(objectPath string) string {
	base := path.Base(objectPath)
	if _, rest, ok := strings.Cut(base, "_"); ok && rest != "" {
		return rest
	}
	return base
}

// FileStore keeps objects on the local filesystem. It stands in for the
// hosted bucket in development and tests.
type FileStore struct {
	root    string
	baseURL string
	signer  *jwt.ObjectSigner
}

func NewFileStore(cfg config.StorageConfig, publicURL string) (*FileStore, error) {
	root := strings.TrimSpace(cfg.RootDir)
	if root == "" {
		return nil, errors.New("empty storage root")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &FileStore{
		root:    root,
		baseURL: strings.TrimRight(publicURL, "/"),
		signer:  jwt.NewObjectSigner(cfg.SigningSecret),
	}, nil
}

// Clean validates an object path and returns its canonical form.
func Clean(objectPath string) (string, error) {
	p := strings.TrimSpace(objectPath)
	if p == "" || strings.Contains(p, "\\") || strings.HasPrefix(p, "/") {
		return "", ErrInvalidPath
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", ErrInvalidPath
		}
	}
	p = path.Clean(p)
	if p == "." {
		return "", ErrInvalidPath
	}
	return p, nil
}

func (s *FileStore) abs(objectPath string) (string, error) {
	p, err := Clean(objectPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(p)), nil
}

func (s *FileStore) Upload(ctx context.Context, objectPath string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dst, err := s.abs(objectPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

// List returns the files directly under prefix, newest first.
func (s *FileStore) List(ctx context.Context, prefix string) ([]Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, err := s.abs(prefix)
	if err != nil {
		return nil, err
	}
	clean, _ := Clean(prefix)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Object{}, nil
		}
		return nil, err
	}

	out := make([]Object, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Object{
			Name:      e.Name(),
			Path:      clean + "/" + e.Name(),
			Size:      info.Size(),
			UpdatedAt: info.ModTime().UTC(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (s *FileStore) Open(ctx context.Context, objectPath string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.abs(objectPath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *FileStore) SignedURL(objectPath string, ttl time.Duration) (string, time.Time, error) {
	p, err := Clean(objectPath)
	if err != nil {
		return "", time.Time{}, err
	}
	tok, exp, err := s.signer.Sign(p, ttl)
	if err != nil {
		return "", time.Time{}, err
	}
	u := s.baseURL + FilesRoute + (&url.URL{Path: p}).EscapedPath() + "?token=" + url.QueryEscape(tok)
	return u, exp, nil
}

// Authorize checks that token grants read access to objectPath.
func (s *FileStore) Authorize(objectPath, token string) error {
	p, err := Clean(objectPath)
	if err != nil {
		return err
	}
	granted, err := s.signer.Verify(token)
	if err != nil {
		return err
	}
	if granted != p {
		return jwt.ErrTokenInvalid
	}
	return nil
}

var _ Store = (*FileStore)(nil)
