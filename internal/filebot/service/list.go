package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	errors "github.com/Laisky/errors/v2"
	tb "gopkg.in/telebot.v3"

	"github.com/Laisky/telegram-file-bot/internal/filebot/model"
)

const (
	// listPageSize caps the number of file buttons per listing.
	listPageSize = 20
	// maxButtonNameLen caps filename length on a button.
	maxButtonNameLen = 25
)

// replyFileList sends the owner's file listing: a header with the total
// count and storage used across the whole record set, and one download
// button per record on the first page.
func (s *Telegram) replyFileList(ctx context.Context, c tb.Context) error {
	uid := c.Sender().ID

	records, err := s.dao.FindAllByOwner(ctx, uid)
	if err != nil {
		return errors.Wrap(err, "load files of owner")
	}

	if len(records) == 0 {
		return c.Send(emptyListText, emptyListMarkup(), &tb.SendOptions{ParseMode: tb.ModeHTML})
	}

	totalSize, err := s.dao.TotalSizeByOwner(ctx, uid)
	if err != nil {
		return errors.Wrap(err, "sum file sizes of owner")
	}

	header := fmt.Sprintf(
		"📂 <b>Your File Storage</b>\n\n🗂 Total Files: %d\n📊 Storage Used: %s\n\nSelect any file to download:",
		len(records), model.FormatSize(&totalSize))

	return c.Send(header, fileListMarkup(records), &tb.SendOptions{ParseMode: tb.ModeHTML})
}

func fileListMarkup(records []*model.FileRecord) *tb.ReplyMarkup {
	var keyboard [][]tb.InlineButton

	page := records
	if len(page) > listPageSize {
		page = page[:listPageSize]
	}
	for _, rec := range page {
		keyboard = append(keyboard, []tb.InlineButton{{
			Text: fileEmoji(rec.MimeType) + " " + truncateName(rec.Filename),
			Data: actionDownloadPrefix + strconv.FormatInt(rec.ID, 10),
		}})
	}

	if len(records) > listPageSize {
		// rendered but unhandled, there is no paging protocol yet
		keyboard = append(keyboard, []tb.InlineButton{{
			Text: "➡️ Show More Files", Data: actionShowMore,
		}})
	}

	keyboard = append(keyboard, []tb.InlineButton{
		{Text: "📤 Upload New File", Data: actionUploadGuide},
		{Text: "🔄 Refresh", Data: actionMyFiles},
	})

	return &tb.ReplyMarkup{InlineKeyboard: keyboard}
}

func fileEmoji(mimeType *string) string {
	if mimeType == nil {
		return "📄"
	}

	switch {
	case strings.HasPrefix(*mimeType, "image/"):
		return "🖼"
	case strings.HasPrefix(*mimeType, "video/"):
		return "🎥"
	case strings.HasPrefix(*mimeType, "audio/"):
		return "🎵"
	case strings.Contains(*mimeType, "pdf"):
		return "📋"
	}

	return "📄"
}

func truncateName(name string) string {
	runes := []rune(name)
	if len(runes) <= maxButtonNameLen {
		return name
	}
	return string(runes[:maxButtonNameLen-3]) + "..."
}
