// Package model defines the data model for the file bot.
package model

import (
	"fmt"
	"time"
)

// FileRecord is one stored file's metadata.
//
// Telegram keeps the file content itself; FileID is the opaque token it
// hands back, and it is the only globally unique column. A second upload
// of the same FileID must resolve to the existing row.
type FileRecord struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	FileID     string    `json:"file_id"`
	Filename   string    `json:"filename"`
	FileSize   *int64    `json:"file_size,omitempty"`
	MimeType   *string   `json:"mime_type,omitempty"`
	UploadDate time.Time `json:"upload_date"`
}

// SizeOrZero returns the reported file size, treating unreported as 0.
func (r *FileRecord) SizeOrZero() int64 {
	if r.FileSize == nil {
		return 0
	}
	return *r.FileSize
}

// FormatSize renders a byte count for display, e.g. 1536 -> "1.5 KB".
// A nil size means telegram did not report one.
func FormatSize(sizeBytes *int64) string {
	if sizeBytes == nil {
		return "Unknown size"
	}

	size := float64(*sizeBytes)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024.0 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024.0
	}

	return fmt.Sprintf("%.1f TB", size)
}

// FormatDate renders an upload timestamp for display.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "Unknown date"
	}
	return t.Format("January 02, 2006 at 03:04 PM")
}
