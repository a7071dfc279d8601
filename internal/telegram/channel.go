// Package telegram runs the bot's update loop and turns Telegram updates
// into movie searches, commands, and callback actions.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/mymmrac/telego"

	"github.com/nextlevelbuilder/posterbot/internal/config"
	"github.com/nextlevelbuilder/posterbot/internal/movies"
	"github.com/nextlevelbuilder/posterbot/internal/sessions"
	"github.com/nextlevelbuilder/posterbot/internal/stats"
)

const (
	// pollClientMargin keeps the client-side deadline above the server-side
	// long-poll wait so a stalled connection is not mistaken for an empty
	// batch.
	pollClientMargin = 5 * time.Second

	textSendTimeout  = 10 * time.Second
	photoSendTimeout = 15 * time.Second
)

// botAPI is the slice of the Telegram Bot API the channel uses.
// *telego.Bot satisfies it; tests substitute a fake.
type botAPI interface {
	GetMe(ctx context.Context) (*telego.User, error)
	GetUpdates(ctx context.Context, params *telego.GetUpdatesParams) ([]telego.Update, error)
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
	SendPhoto(ctx context.Context, params *telego.SendPhotoParams) (*telego.Message, error)
	SendChatAction(ctx context.Context, params *telego.SendChatActionParams) error
	AnswerCallbackQuery(ctx context.Context, params *telego.AnswerCallbackQueryParams) error
}

// MovieFinder resolves queries against the movie catalog.
// *movies.Service is the production implementation.
type MovieFinder interface {
	Find(ctx context.Context, query, year string) (*movies.Result, error)
	Similar(ctx context.Context, id int64, limit int) ([]movies.Brief, error)
	Trending(ctx context.Context) ([]movies.Brief, error)
}

// Channel owns the long-poll loop and update dispatch for one bot account.
// Run is single-goroutine; updates in a batch are handled in order.
type Channel struct {
	bot      botAPI
	finder   MovieFinder
	sessions *sessions.Store
	stats    *stats.Stats
	poll     config.PollConfig

	// offset is the next update id to request. Zero until the first batch;
	// after that it only moves forward.
	offset   int
	failures int

	sleep func(ctx context.Context, d time.Duration)
}

// New connects to the Telegram Bot API and builds the channel.
func New(cfg *config.Config, finder MovieFinder, store *sessions.Store, st *stats.Stats) (*Channel, error) {
	bot, err := telego.NewBot(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Channel{
		bot:      bot,
		finder:   finder,
		sessions: store,
		stats:    st,
		poll:     cfg.Poll,
		sleep:    sleepCtx,
	}, nil
}

// Run polls for updates until ctx is canceled. Poll failures back off and
// never kill the loop; a canceled ctx returns nil.
func (c *Channel) Run(ctx context.Context) error {
	if me, err := c.bot.GetMe(ctx); err != nil {
		slog.Warn("getMe failed, polling anyway", "error", err)
	} else {
		slog.Info("telegram bot connected", "username", me.Username, "bot_id", me.ID)
	}

	slog.Info("starting update loop", "long_poll_sec", c.poll.TimeoutSec, "batch_limit", c.poll.BatchLimit)
	for {
		if ctx.Err() != nil {
			slog.Info("update loop stopped")
			return nil
		}

		updates, err := c.getUpdates(ctx)
		if err != nil {
			if ctx.Err() != nil {
				slog.Info("update loop stopped")
				return nil
			}
			c.backoff(ctx, err)
			continue
		}
		c.failures = 0

		// Handle in ascending id order so the offset never moves past an
		// update that has not been dispatched.
		sort.Slice(updates, func(i, j int) bool { return updates[i].UpdateID < updates[j].UpdateID })
		for _, update := range updates {
			if err := c.dispatch(ctx, update); err != nil {
				slog.Error("dispatch failed, skipping update", "update_id", update.UpdateID, "error", err)
			}
			c.offset = update.UpdateID + 1
		}
	}
}

func (c *Channel) getUpdates(ctx context.Context) ([]telego.Update, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.poll.TimeoutSec)*time.Second+pollClientMargin)
	defer cancel()

	return c.bot.GetUpdates(ctx, &telego.GetUpdatesParams{
		Offset:         c.offset,
		Limit:          c.poll.BatchLimit,
		Timeout:        c.poll.TimeoutSec,
		AllowedUpdates: []string{"message", "callback_query"},
	})
}

// backoff records one poll failure and sleeps. After MaxFailures consecutive
// failures the delay stretches to CooldownSec and the counter resets.
func (c *Channel) backoff(ctx context.Context, err error) {
	c.failures++
	slog.Warn("poll failed", "consecutive", c.failures, "error", err)

	if c.failures >= c.poll.MaxFailures {
		slog.Error("too many consecutive poll failures, cooling down",
			"failures", c.failures, "cooldown_sec", c.poll.CooldownSec)
		c.failures = 0
		c.sleep(ctx, time.Duration(c.poll.CooldownSec)*time.Second)
		return
	}
	c.sleep(ctx, time.Duration(c.poll.RetryDelaySec)*time.Second)
}

// sendText delivers a Markdown text message. Failures are logged, not
// returned; outbound sends are best effort.
func (c *Channel) sendText(ctx context.Context, chatID int64, text string) {
	ctx, cancel := context.WithTimeout(ctx, textSendTimeout)
	defer cancel()

	params := &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: chatID},
		Text:      text,
		ParseMode: telego.ModeMarkdown,
	}
	if _, err := c.bot.SendMessage(ctx, params); err != nil {
		slog.Warn("send message failed", "chat_id", chatID, "error", err)
	}
}

// sendPhoto delivers a photo by URL with a Markdown caption. Reports whether
// the send succeeded.
func (c *Channel) sendPhoto(ctx context.Context, chatID int64, photoURL, caption string) bool {
	ctx, cancel := context.WithTimeout(ctx, photoSendTimeout)
	defer cancel()

	params := &telego.SendPhotoParams{
		ChatID:    telego.ChatID{ID: chatID},
		Photo:     telego.InputFile{URL: photoURL},
		Caption:   caption,
		ParseMode: telego.ModeMarkdown,
	}
	if _, err := c.bot.SendPhoto(ctx, params); err != nil {
		slog.Warn("send photo failed", "chat_id", chatID, "error", err)
		return false
	}
	return true
}

func (c *Channel) sendTyping(ctx context.Context, chatID int64) {
	params := &telego.SendChatActionParams{
		ChatID: telego.ChatID{ID: chatID},
		Action: telego.ChatActionTyping,
	}
	if err := c.bot.SendChatAction(ctx, params); err != nil {
		slog.Debug("send chat action failed", "chat_id", chatID, "error", err)
	}
}

// sleepCtx waits for d or until ctx is canceled, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
