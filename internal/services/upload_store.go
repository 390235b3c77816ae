package services

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"buspass/internal/utils"
)

// PublicUploadPrefix is the URL prefix the upload directory is served under; stored paths
// start with it.
const PublicUploadPrefix = "uploads"

// Attachment is one optional file of an application form.
type Attachment struct {
	Filename string
	Reader   io.Reader
}

// Attachments are the two files an application may carry.
type Attachments struct {
	Photo      *Attachment
	AadharFile *Attachment
}

// UploadStore writes attachments as <unix-millis>-<original name> under Dir. Anything
// written is publicly readable through the static route.
type UploadStore struct {
	Dir string
	Now func() time.Time
}

// Save writes a and returns its relative path, or "" when a is nil.
func (s UploadStore) Save(a *Attachment) (string, error) {
	if a == nil || a.Reader == nil {
		return "", nil
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	base := strconv.FormatInt(now().UnixMilli(), 10) + "-" + utils.SafeFilename(a.Filename)

	name := base
	for i := 1; ; i++ {
		f, err := os.OpenFile(filepath.Join(s.Dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) && i < 100 {
			name = strconv.Itoa(i) + "-" + base
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create upload: %w", err)
		}
		if _, err := io.Copy(f, a.Reader); err != nil {
			_ = f.Close()
			return "", fmt.Errorf("write upload: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close upload: %w", err)
		}
		return path.Join(PublicUploadPrefix, name), nil
	}
}

// Resolve maps a stored relative path back to a file under Dir.
func (s UploadStore) Resolve(rel string) (string, bool) {
	if rel == "" {
		return "", false
	}
	name := path.Base(rel)
	if name == "." || name == "/" {
		return "", false
	}
	return filepath.Join(s.Dir, name), true
}
