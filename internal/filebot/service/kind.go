package service

import (
	"strings"

	"github.com/Laisky/telegram-file-bot/internal/filebot/model"
)

// Kind is the transmission category the outbound channel needs to
// render a stored file correctly.
type Kind string

const (
	KindPhoto    Kind = "photo"
	KindVideo    Kind = "video"
	KindAudio    Kind = "audio"
	KindDocument Kind = "document"
)

// Telegram encodes the attachment class into the opaque file id. These
// prefixes are observed behavior without any documented stability
// guarantee, which is why the typed send always has a document fallback.
const (
	photoFileIDPrefix = "AgAC"
	videoFileIDPrefix = "BAACAgI"
	audioFileIDPrefix = "AwACAgI"
)

var (
	photoExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
	videoExtensions = []string{".mp4", ".avi", ".mov", ".mkv", ".webm"}
	audioExtensions = []string{".mp3", ".wav", ".ogg", ".m4a", ".flac"}
)

// ResolveKind infers the outbound transmission kind of a stored record.
//
// The store does not persist the inbound kind, so it is recovered from
// three signals per kind: the file id prefix, the filename extension and
// the MIME type prefix. Kinds are checked photo, video, audio in that
// order and the first kind with any matching signal wins; no match means
// a generic document.
func ResolveKind(rec *model.FileRecord) Kind {
	filename := strings.ToLower(rec.Filename)

	switch {
	case strings.HasPrefix(rec.FileID, photoFileIDPrefix) ||
		hasAnySuffix(filename, photoExtensions) ||
		mimeHasPrefix(rec.MimeType, "image/"):
		return KindPhoto

	case strings.HasPrefix(rec.FileID, videoFileIDPrefix) ||
		hasAnySuffix(filename, videoExtensions) ||
		mimeHasPrefix(rec.MimeType, "video/"):
		return KindVideo

	case strings.HasPrefix(rec.FileID, audioFileIDPrefix) ||
		hasAnySuffix(filename, audioExtensions) ||
		mimeHasPrefix(rec.MimeType, "audio/"):
		return KindAudio
	}

	return KindDocument
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

func mimeHasPrefix(mimeType *string, prefix string) bool {
	return mimeType != nil && strings.HasPrefix(*mimeType, prefix)
}
