package service

import (
	"context"

	gutils "github.com/Laisky/go-utils/v6"
	"github.com/Laisky/zap"
	tb "gopkg.in/telebot.v3"

	"github.com/Laisky/telegram-file-bot/library/log"
)

// callback actions carried in inline button data. Everything except the
// download action is presentation-only.
const (
	actionStart       = "start"
	actionHelp        = "help"
	actionMyFiles     = "my_files"
	actionUploadGuide = "upload_guide"
	actionShowMore    = "files_page_2"

	actionDownloadPrefix = "dl_"
)

var welcomeText = gutils.Dedent(`
	🌟 <b>Welcome to your file vault!</b>

	Send me any file and I will keep track of it for you.

	<b>What I can do:</b>
	📁 Store any type of file
	📋 Keep track of all your uploads
	💾 Send any stored file back on demand

	<b>Commands:</b>
	/myfiles - 📂 view all your files
	/help - ❓ detailed help

	Simply send a file to get started.`)

var helpText = gutils.Dedent(`
	🔧 <b>How to use this bot</b>

	<b>Uploading:</b>
	Send any document, image, video, audio file, voice message or video note directly to this chat. The file is stored with its name, size and upload time.

	<b>Browsing:</b>
	Use /myfiles to list your uploads, most recent first. Tap any file button to have it sent back instantly.

	<b>Notes:</b>
	Duplicate uploads of the same file are detected and stored only once. Telegram keeps the file content itself, so there is no storage quota on this side.`)

var uploadGuideText = gutils.Dedent(`
	📤 <b>How to upload files</b>

	Just send me any file:
	• 📄 documents (PDF, DOC, TXT, ...)
	• 🖼 images (JPG, PNG, GIF, ...)
	• 🎥 videos (MP4, AVI, MOV, ...)
	• 🎵 audio (MP3, WAV, OGG, ...)
	• 🗣 voice messages
	• 📹 video notes

	Ready? Send your first file now.`)

var emptyListText = gutils.Dedent(`
	📂 <b>Your file storage is empty</b>

	Upload your first file by sending any document, image, video or audio file to this chat.`)

func welcomeMarkup() *tb.ReplyMarkup {
	return &tb.ReplyMarkup{
		InlineKeyboard: [][]tb.InlineButton{
			{
				{Text: "📂 My Files", Data: actionMyFiles},
				{Text: "❓ Help", Data: actionHelp},
			},
			{
				{Text: "🚀 Upload First File", Data: actionUploadGuide},
			},
		},
	}
}

func helpMarkup() *tb.ReplyMarkup {
	return &tb.ReplyMarkup{
		InlineKeyboard: [][]tb.InlineButton{
			{
				{Text: "📂 View My Files", Data: actionMyFiles},
				{Text: "🏠 Home", Data: actionStart},
			},
		},
	}
}

func uploadGuideMarkup() *tb.ReplyMarkup {
	return &tb.ReplyMarkup{
		InlineKeyboard: [][]tb.InlineButton{
			{{Text: "📂 View My Files", Data: actionMyFiles}},
			{{Text: "🏠 Back to Home", Data: actionStart}},
		},
	}
}

func emptyListMarkup() *tb.ReplyMarkup {
	return &tb.ReplyMarkup{
		InlineKeyboard: [][]tb.InlineButton{
			{{Text: "📤 Upload Your First File", Data: actionUploadGuide}},
		},
	}
}

func (s *Telegram) registerCommandHandlers(ctx context.Context) {
	s.bot.Handle("/start", func(c tb.Context) error {
		return c.Send(welcomeText, welcomeMarkup(), &tb.SendOptions{ParseMode: tb.ModeHTML})
	})

	s.bot.Handle("/help", func(c tb.Context) error {
		return c.Send(helpText, helpMarkup(), &tb.SendOptions{ParseMode: tb.ModeHTML})
	})

	s.bot.Handle("/myfiles", func(c tb.Context) error {
		if err := s.replyFileList(ctx, c); err != nil {
			log.Logger.Error("reply file list", zap.Error(err), zap.Int64("uid", c.Sender().ID))
			s.replyError(c.Sender(), "❌ <b>Error Loading Files</b>\n\nSorry, there was an error retrieving your files. Please try again.")
		}
		return nil
	})
}
