// Package service is the telegram file bot.
package service

import (
	"context"
	"time"

	errors "github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	tb "gopkg.in/telebot.v3"

	"github.com/Laisky/telegram-file-bot/internal/filebot/dao"
	"github.com/Laisky/telegram-file-bot/library/log"
)

// Sender is the outbound half of the messaging channel.
//
// *tb.Bot satisfies it; tests swap in a recorder.
type Sender interface {
	Send(to tb.Recipient, what interface{}, opts ...interface{}) (*tb.Message, error)
}

// Deleter removes messages, the best-effort cleanup half of the
// channel. *tb.Bot satisfies it.
type Deleter interface {
	Delete(msg tb.Editable) error
}

// Telegram client
type Telegram struct {
	stop chan struct{}
	bot  *tb.Bot

	dao     *dao.Files
	sender  Sender
	deleter Deleter
}

// New create new telegram client
func New(ctx context.Context, filesDAO *dao.Files, token, api string) (*Telegram, error) {
	bot, err := tb.NewBot(tb.Settings{
		Token: token,
		URL:   api,
		Poller: &tb.LongPoller{
			Timeout: 10 * time.Second,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "new telegram bot")
	}

	tel := &Telegram{
		dao:     filesDAO,
		stop:    make(chan struct{}),
		bot:     bot,
		sender:  bot,
		deleter: bot,
	}

	tel.registerCommandHandlers(ctx)
	tel.registerUploadHandlers(ctx)
	tel.registerCallbackHandler(ctx)
	tel.runDefaultHandle()

	go bot.Start()
	go func() {
		select {
		case <-ctx.Done():
		case <-tel.stop:
		}
		bot.Stop()
	}()

	return tel, nil
}

// Stop stop telegram polling
func (s *Telegram) Stop() {
	s.stop <- struct{}{}
}

func (s *Telegram) runDefaultHandle() {
	// anything that is neither a command nor a file
	s.bot.Handle(tb.OnText, func(c tb.Context) error {
		m := c.Message()
		log.Logger.Debug("got message",
			zap.String("msg", m.Text),
			zap.Int64("sender", m.Sender.ID))

		if _, err := s.bot.Send(m.Sender,
			"Send me any file to store it, or use /myfiles to browse your uploads."); err != nil {
			log.Logger.Error("send msg by telegram", zap.Error(err))
		}

		return nil
	})
}

// replyError sends a friendly failure message, never escalating.
func (s *Telegram) replyError(to tb.Recipient, msg string) {
	if _, err := s.sender.Send(to, msg, &tb.SendOptions{ParseMode: tb.ModeHTML}); err != nil {
		log.Logger.Error("send error msg by telegram", zap.Error(err))
	}
}
