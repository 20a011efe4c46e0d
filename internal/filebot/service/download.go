package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	errors "github.com/Laisky/errors/v2"
	gutils "github.com/Laisky/go-utils/v6"
	"github.com/Laisky/zap"
	tb "gopkg.in/telebot.v3"

	"github.com/Laisky/telegram-file-bot/internal/filebot/dao"
	"github.com/Laisky/telegram-file-bot/internal/filebot/model"
	"github.com/Laisky/telegram-file-bot/library/log"
)

func (s *Telegram) registerCallbackHandler(ctx context.Context) {
	s.bot.Handle(tb.OnCallback, func(c tb.Context) error {
		// telebot prefixes unique-button data with \f, raw buttons arrive as-is
		data := strings.TrimSpace(strings.TrimPrefix(c.Callback().Data, "\f"))
		defer func() {
			if err := c.Respond(); err != nil {
				log.Logger.Error("respond callback", zap.Error(err))
			}
		}()

		switch {
		case data == actionStart:
			return c.Edit(welcomeText, welcomeMarkup(), &tb.SendOptions{ParseMode: tb.ModeHTML})
		case data == actionHelp:
			return c.Edit(helpText, helpMarkup(), &tb.SendOptions{ParseMode: tb.ModeHTML})
		case data == actionUploadGuide:
			return c.Edit(uploadGuideText, uploadGuideMarkup(), &tb.SendOptions{ParseMode: tb.ModeHTML})
		case data == actionMyFiles:
			if err := s.replyFileList(ctx, c); err != nil {
				log.Logger.Error("reply file list", zap.Error(err), zap.Int64("uid", c.Sender().ID))
				s.replyError(c.Sender(), "❌ <b>Error Loading Files</b>\n\nSorry, there was an error retrieving your files. Please try again.")
			}
			return nil
		case strings.HasPrefix(data, actionDownloadPrefix):
			s.handleDownload(ctx, c, strings.TrimPrefix(data, actionDownloadPrefix))
			return nil
		}

		// presentation-only actions without a handler yet, e.g. paging
		log.Logger.Debug("ignore callback action", zap.String("action", data))
		return nil
	})
}

// handleDownload resolves a record by the id carried in the button data
// and sends the stored file back.
func (s *Telegram) handleDownload(ctx context.Context, c tb.Context, rawID string) {
	logger := log.Logger.With(zap.Int64("uid", c.Sender().ID), zap.String("record", rawID))

	recordID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		logger.Warn("malformed download action", zap.Error(err))
		s.replyError(c.Sender(), "❌ Sorry, there was an error processing your request.")
		return
	}

	rec, err := s.dao.FindByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			// stale button, the record was removed outside the bot
			if err = c.Edit("❌ File not found or has been deleted."); err != nil {
				logger.Error("edit message", zap.Error(err))
			}
			return
		}

		logger.Error("find file record", zap.Error(err))
		s.replyError(c.Sender(), "❌ Sorry, there was an error processing your request.")
		return
	}

	var recipient tb.Recipient = c.Sender()
	if c.Chat() != nil {
		recipient = c.Chat()
	}

	if err = s.deliverStored(recipient, rec, downloadCaption(rec)); err != nil {
		logger.Error("deliver stored file", zap.Error(err))
		s.replyError(c.Sender(), "❌ Sorry, there was an error sending your file.")
		return
	}

	confirmation := fmt.Sprintf(
		"✅ <b>File Downloaded!</b>\n\n📁 <code>%s</code> has been sent to you.", rec.Filename)
	if err = c.Edit(confirmation, &tb.SendOptions{ParseMode: tb.ModeHTML}); err != nil {
		logger.Error("edit message", zap.Error(err))
	}
}

// deliverStored sends the record with its inferred kind, falling back to
// a plain document once when the typed send is rejected. Telegram accepts
// any file id as a document but rejects mismatched ids for typed sends,
// so the inferred kind is a best-effort hint only.
func (s *Telegram) deliverStored(to tb.Recipient, rec *model.FileRecord, caption string) error {
	opts := &tb.SendOptions{
		ParseMode:   tb.ModeHTML,
		ReplyMarkup: downloadMarkup(),
	}

	kind := ResolveKind(rec)
	_, err := s.sender.Send(to, sendableFor(kind, rec, caption), opts)
	if err == nil {
		return nil
	}
	if kind == KindDocument {
		return errors.Wrap(err, "send document")
	}

	log.Logger.Warn("typed send failed, falling back to document",
		zap.Error(err), zap.String("kind", string(kind)))
	if _, err = s.sender.Send(to, sendableFor(KindDocument, rec, caption), opts); err != nil {
		return errors.Wrap(err, "send fallback document")
	}

	return nil
}

// sendableFor builds the outbound payload for a transmission kind, all
// referencing the stored file id.
func sendableFor(kind Kind, rec *model.FileRecord, caption string) interface{} {
	file := tb.File{FileID: rec.FileID}

	switch kind {
	case KindPhoto:
		return &tb.Photo{File: file, Caption: caption}
	case KindVideo:
		return &tb.Video{File: file, Caption: caption}
	case KindAudio:
		return &tb.Audio{File: file, Caption: caption}
	}

	return &tb.Document{File: file, Caption: caption, FileName: rec.Filename}
}

func downloadMarkup() *tb.ReplyMarkup {
	return &tb.ReplyMarkup{
		InlineKeyboard: [][]tb.InlineButton{
			{
				{Text: "📂 Back to Files", Data: actionMyFiles},
				{Text: "📤 Upload New", Data: actionUploadGuide},
			},
		},
	}
}

func downloadCaption(rec *model.FileRecord) string {
	return fmt.Sprintf(gutils.Dedent(`
		💾 <b>%s</b>

		🔸 Size: <code>%s</code>
		🔸 Uploaded: <code>%s</code>`),
		rec.Filename, model.FormatSize(rec.FileSize), model.FormatDate(rec.UploadDate))
}
