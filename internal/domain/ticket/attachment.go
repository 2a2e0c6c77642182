package ticket

import (
	"fmt"
	"strings"
	"time"
)

// AttachmentMetadata describes a file that the file storage already holds.
// FilePath is relative to the uploads root.
type AttachmentMetadata struct {
	OriginalName string
	StoredName   string
	FilePath     string
	FileSize     int64
	MimeType     string
}

func (m AttachmentMetadata) Validate() error {
	switch {
	case strings.TrimSpace(m.OriginalName) == "":
		return fmt.Errorf("%w: original name is required", ErrInvalidAttachment)
	case strings.TrimSpace(m.StoredName) == "":
		return fmt.Errorf("%w: stored name is required", ErrInvalidAttachment)
	case strings.TrimSpace(m.FilePath) == "":
		return fmt.Errorf("%w: file path is required", ErrInvalidAttachment)
	case m.FileSize < 0:
		return fmt.Errorf("%w: negative file size", ErrInvalidAttachment)
	}
	return nil
}

// Attachment is a persisted attachment row, owned either by a ticket or by
// a response depending on which table it came from.
type Attachment struct {
	ID        uint
	OwnerID   uint
	CreatedAt time.Time
	AttachmentMetadata
}
