package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tb "gopkg.in/telebot.v3"
)

var classifyNow = time.Date(2024, time.March, 7, 15, 4, 5, 0, time.UTC)

func TestClassifyDocument(t *testing.T) {
	att, err := classifyAttachment(&tb.Message{
		Document: &tb.Document{
			File:     tb.File{FileID: "doc-token", FileSize: 2048},
			FileName: "report.pdf",
			MIME:     "application/pdf",
		},
	}, classifyNow)
	require.NoError(t, err)
	require.Equal(t, "doc-token", att.FileID)
	require.Equal(t, "report.pdf", att.Filename)
	require.Equal(t, int64(2048), *att.FileSize)
	require.Equal(t, "application/pdf", *att.MimeType)
}

func TestClassifyDocumentWithoutName(t *testing.T) {
	att, err := classifyAttachment(&tb.Message{
		Document: &tb.Document{
			File: tb.File{FileID: "doc123"},
		},
	}, classifyNow)
	require.NoError(t, err)
	require.Equal(t, "document", att.Filename)
	require.Nil(t, att.FileSize, "unreported size stays absent")
	require.Nil(t, att.MimeType, "documents have no default mime type")
}

func TestClassifyPhoto(t *testing.T) {
	att, err := classifyAttachment(&tb.Message{
		Photo: &tb.Photo{
			File:   tb.File{FileID: "photo-token", FileSize: 512},
			Width:  1280,
			Height: 720,
		},
	}, classifyNow)
	require.NoError(t, err)
	require.Equal(t, "photo_20240307_150405.jpg", att.Filename)
	require.Equal(t, "image/jpeg", *att.MimeType)
}

func TestClassifyVideoPrefersReportedValues(t *testing.T) {
	att, err := classifyAttachment(&tb.Message{
		Video: &tb.Video{
			File:     tb.File{FileID: "video-token", FileSize: 4096},
			FileName: "clip.mov",
			MIME:     "video/quicktime",
		},
	}, classifyNow)
	require.NoError(t, err)
	require.Equal(t, "clip.mov", att.Filename)
	require.Equal(t, "video/quicktime", *att.MimeType)
}

func TestClassifyVideoDefaults(t *testing.T) {
	att, err := classifyAttachment(&tb.Message{
		Video: &tb.Video{
			File: tb.File{FileID: "video-token"},
		},
	}, classifyNow)
	require.NoError(t, err)
	require.Equal(t, "video_20240307_150405.mp4", att.Filename)
	require.Equal(t, "video/mp4", *att.MimeType)
}

func TestClassifyAudioDefaults(t *testing.T) {
	att, err := classifyAttachment(&tb.Message{
		Audio: &tb.Audio{
			File: tb.File{FileID: "audio-token"},
		},
	}, classifyNow)
	require.NoError(t, err)
	require.Equal(t, "audio_20240307_150405.mp3", att.Filename)
	require.Equal(t, "audio/mpeg", *att.MimeType)
}

func TestClassifyVoice(t *testing.T) {
	att, err := classifyAttachment(&tb.Message{
		Voice: &tb.Voice{
			File: tb.File{FileID: "voice-token", FileSize: 100},
		},
	}, classifyNow)
	require.NoError(t, err)
	require.Equal(t, "voice_20240307_150405.ogg", att.Filename)
	require.Equal(t, "audio/ogg", *att.MimeType)
}

func TestClassifyVideoNote(t *testing.T) {
	att, err := classifyAttachment(&tb.Message{
		VideoNote: &tb.VideoNote{
			File: tb.File{FileID: "note-token"},
		},
	}, classifyNow)
	require.NoError(t, err)
	require.Equal(t, "video_note_20240307_150405.mp4", att.Filename)
	require.Equal(t, "video/mp4", *att.MimeType)
}

func TestClassifyUnsupported(t *testing.T) {
	_, err := classifyAttachment(&tb.Message{Text: "just text"}, classifyNow)
	require.ErrorIs(t, err, ErrUnsupportedAttachment)
}
