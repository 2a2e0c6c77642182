// Package storage keeps uploaded attachment files on the local disk.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/tdesk-io/tdesk/internal/domain/ticket"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

// UploadsDir is the relative directory every stored path starts with.
const UploadsDir = "uploads/attachments"

var (
	ErrFileTooLarge         = errors.New("file exceeds the maximum upload size")
	ErrExtensionNotAllowed  = errors.New("file type is not allowed")
	ErrEmptyFile            = errors.New("file is empty")
	ErrPathOutsideUploadDir = errors.New("path is outside the uploads directory")
)

// Upload is one incoming file.
type Upload struct {
	Name        string
	Size        int64
	ContentType string
	Content     io.Reader
}

type LocalFileStorage struct {
	root       string
	maxSize    int64
	extensions map[string]bool
	logger     logger.Interface
}

func NewLocalFileStorage(root string, maxSize int64, allowed []string, log logger.Interface) *LocalFileStorage {
	exts := make(map[string]bool, len(allowed))
	for _, e := range allowed {
		exts[strings.ToLower(strings.TrimPrefix(e, "."))] = true
	}
	return &LocalFileStorage{
		root:       root,
		maxSize:    maxSize,
		extensions: exts,
		logger:     log,
	}
}

// Save writes the upload under UploadsDir[/subfolder] with a generated name
// and returns its metadata. The relative path is what gets persisted.
func (s *LocalFileStorage) Save(u Upload, subfolder string) (ticket.AttachmentMetadata, error) {
	if u.Size <= 0 {
		return ticket.AttachmentMetadata{}, ErrEmptyFile
	}
	if u.Size > s.maxSize {
		return ticket.AttachmentMetadata{}, ErrFileTooLarge
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(u.Name), "."))
	if !s.extensions[ext] {
		return ticket.AttachmentMetadata{}, ErrExtensionNotAllowed
	}

	rel := UploadsDir
	if subfolder != "" {
		rel = path.Join(rel, path.Clean("/" + subfolder)[1:])
	}
	stored := uuid.NewString() + "." + ext
	relPath := path.Join(rel, stored)

	dir := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ticket.AttachmentMetadata{}, fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst, err := os.OpenFile(filepath.Join(dir, stored), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return ticket.AttachmentMetadata{}, fmt.Errorf("failed to create upload file: %w", err)
	}
	written, err := io.Copy(dst, io.LimitReader(u.Content, s.maxSize+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && written > s.maxSize {
		err = ErrFileTooLarge
	}
	if err != nil {
		_ = os.Remove(filepath.Join(dir, stored))
		if errors.Is(err, ErrFileTooLarge) {
			return ticket.AttachmentMetadata{}, err
		}
		return ticket.AttachmentMetadata{}, fmt.Errorf("failed to write upload: %w", err)
	}

	contentType := u.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension("." + ext)
	}

	return ticket.AttachmentMetadata{
		OriginalName: filepath.Base(u.Name),
		StoredName:   stored,
		FilePath:     relPath,
		FileSize:     written,
		MimeType:     contentType,
	}, nil
}

// Remove deletes a stored file. A file that is already gone is not an error.
func (s *LocalFileStorage) Remove(relPath string) error {
	clean := path.Clean("/" + filepath.ToSlash(relPath))[1:]
	if !strings.HasPrefix(clean, UploadsDir+"/") {
		return ErrPathOutsideUploadDir
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", relPath, err)
	}
	return nil
}

// RemoveAll removes every path and logs the failures.
func (s *LocalFileStorage) RemoveAll(paths []string) int {
	failed := 0
	for _, p := range paths {
		if err := s.Remove(p); err != nil {
			failed++
			s.logger.Warnw("failed to remove attachment file", "path", p, "error", err)
		}
	}
	return failed
}
