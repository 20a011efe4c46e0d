package service

import (
	"context"
	"fmt"

	errors "github.com/Laisky/errors/v2"
	gutils "github.com/Laisky/go-utils/v6"
	"github.com/Laisky/zap"
	tb "gopkg.in/telebot.v3"

	"github.com/Laisky/telegram-file-bot/internal/filebot/model"
	"github.com/Laisky/telegram-file-bot/library/log"
)

func (s *Telegram) registerUploadHandlers(ctx context.Context) {
	for _, event := range []string{
		tb.OnDocument, tb.OnPhoto, tb.OnVideo,
		tb.OnAudio, tb.OnVoice, tb.OnVideoNote,
	} {
		s.bot.Handle(event, func(c tb.Context) error {
			s.storeIncomingFile(ctx, c.Sender(), c.Message())
			return nil
		})
	}
}

// storeIncomingFile classifies and stores an inbound attachment, then
// confirms to the user. Every failure turns into a friendly reply.
func (s *Telegram) storeIncomingFile(ctx context.Context, sender *tb.User, msg *tb.Message) {
	logger := log.Logger.With(zap.Int64("uid", sender.ID))

	att, err := classifyAttachment(msg, gutils.Clock.GetUTCNow())
	if err != nil {
		if errors.Is(err, ErrUnsupportedAttachment) {
			s.replyError(sender, "❌ Sorry, I couldn't process this file type.")
			return
		}

		logger.Error("classify attachment", zap.Error(err))
		s.replyError(sender, "❌ Sorry, there was an error storing your file. Please try again.")
		return
	}

	logger.Debug("receive file",
		zap.String("file_id", att.FileID),
		zap.String("filename", att.Filename))

	rec, created, err := s.dao.InsertOrGet(ctx, &model.FileRecord{
		UserID:   sender.ID,
		FileID:   att.FileID,
		Filename: att.Filename,
		FileSize: att.FileSize,
		MimeType: att.MimeType,
	})
	if err != nil {
		logger.Error("store file metadata", zap.Error(err))
		s.replyError(sender, "❌ Sorry, there was an error storing your file. Please try again.")
		return
	}

	header := "File already exists in your storage!"
	if created {
		header = "File Uploaded Successfully!"
	}

	if _, err = s.sender.Send(sender, uploadConfirmation(header, rec), &tb.SendOptions{
		ParseMode:   tb.ModeHTML,
		ReplyMarkup: uploadConfirmationMarkup(),
	}); err != nil {
		logger.Error("send upload confirmation", zap.Error(err))
	}

	// remove the original file message for privacy; telegram keeps the
	// content behind the stored file id, so losing this is harmless
	if err = s.deleter.Delete(msg); err != nil {
		logger.Warn("delete original file message", zap.Error(err))
	}
}

func uploadConfirmationMarkup() *tb.ReplyMarkup {
	return &tb.ReplyMarkup{
		InlineKeyboard: [][]tb.InlineButton{
			{{Text: "📂 Show My Files", Data: actionMyFiles}},
		},
	}
}

func uploadConfirmation(header string, rec *model.FileRecord) string {
	mimeType := "Unknown"
	if rec.MimeType != nil {
		mimeType = *rec.MimeType
	}

	return fmt.Sprintf(gutils.Dedent(`
		✅ <b>%s</b>

		📁 <b>File Details:</b>
		🔸 Name: <code>%s</code>
		🔸 Size: <code>%s</code>
		🔸 Type: <code>%s</code>
		🔸 Uploaded: <code>%s</code>

		Use /myfiles to view and download all your files.`),
		header, rec.Filename, model.FormatSize(rec.FileSize),
		mimeType, model.FormatDate(rec.UploadDate))
}
