package service

import (
	"time"

	errors "github.com/Laisky/errors/v2"
	tb "gopkg.in/telebot.v3"
)

// ErrUnsupportedAttachment the message carries no attachment kind the
// bot knows how to store.
var ErrUnsupportedAttachment = errors.New("unsupported attachment type")

// Attachment is the canonical tuple classified from an inbound message.
type Attachment struct {
	FileID   string
	Filename string
	FileSize *int64
	MimeType *string
}

const synthesizedNameLayout = "20060102_150405"

// classifyAttachment maps the populated attachment variant of an inbound
// message to a canonical tuple.
//
// Telegram omits filenames for photos, voice messages and video notes,
// and may omit them for the rest; a deterministic name is synthesized
// from the receive time in that case. The reported MIME type wins over
// the kind default.
func classifyAttachment(msg *tb.Message, now time.Time) (*Attachment, error) {
	ts := now.UTC().Format(synthesizedNameLayout)

	switch {
	case msg.Document != nil:
		doc := msg.Document
		return &Attachment{
			FileID:   doc.FileID,
			Filename: defaultStr(doc.FileName, "document"),
			FileSize: sizeOrNil(doc.FileSize),
			MimeType: mimeOrNil(doc.MIME, ""),
		}, nil

	case msg.Photo != nil:
		// telebot keeps only the largest resolution of the size variants
		photo := msg.Photo
		return &Attachment{
			FileID:   photo.FileID,
			Filename: "photo_" + ts + ".jpg",
			FileSize: sizeOrNil(photo.FileSize),
			MimeType: mimeOrNil("", "image/jpeg"),
		}, nil

	case msg.Video != nil:
		video := msg.Video
		return &Attachment{
			FileID:   video.FileID,
			Filename: defaultStr(video.FileName, "video_"+ts+".mp4"),
			FileSize: sizeOrNil(video.FileSize),
			MimeType: mimeOrNil(video.MIME, "video/mp4"),
		}, nil

	case msg.Audio != nil:
		audio := msg.Audio
		return &Attachment{
			FileID:   audio.FileID,
			Filename: defaultStr(audio.FileName, "audio_"+ts+".mp3"),
			FileSize: sizeOrNil(audio.FileSize),
			MimeType: mimeOrNil(audio.MIME, "audio/mpeg"),
		}, nil

	case msg.Voice != nil:
		voice := msg.Voice
		return &Attachment{
			FileID:   voice.FileID,
			Filename: "voice_" + ts + ".ogg",
			FileSize: sizeOrNil(voice.FileSize),
			MimeType: mimeOrNil(voice.MIME, "audio/ogg"),
		}, nil

	case msg.VideoNote != nil:
		note := msg.VideoNote
		return &Attachment{
			FileID:   note.FileID,
			Filename: "video_note_" + ts + ".mp4",
			FileSize: sizeOrNil(note.FileSize),
			MimeType: mimeOrNil("", "video/mp4"),
		}, nil
	}

	return nil, errors.WithStack(ErrUnsupportedAttachment)
}

func defaultStr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// sizeOrNil treats telegram's zero size as unreported.
func sizeOrNil(size int64) *int64 {
	if size <= 0 {
		return nil
	}
	return &size
}

func mimeOrNil(reported, fallback string) *string {
	if reported != "" {
		return &reported
	}
	if fallback != "" {
		return &fallback
	}
	return nil
}
