package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mymmrac/telego"
)

const helpText = `🎬 *Movie Poster Bot*

Send me a movie name and I'll reply with its poster and details.

*Tips:*
• Add a year to narrow the search: ` + "`Dune 2021`" + `
• Use the buttons under a result for trailers and similar movies

*Commands:*
/start - Welcome message
/help - This message
/trending - This week's trending movies
/stats - Bot usage statistics
/settings - Your preferences`

// handleCommand runs a slash command. Unknown commands get the generic
// prompt rather than being treated as search queries.
func (c *Channel) handleCommand(ctx context.Context, chatID int64, user *telego.User, text string) {
	command, _, _ := strings.Cut(text, " ")
	// Strip the bot mention from group-chat commands like /help@SomeBot.
	command, _, _ = strings.Cut(command, "@")

	switch strings.ToLower(command) {
	case "/start":
		c.sendText(ctx, chatID, fmt.Sprintf(
			"👋 Hi %s!\n\nSend me a movie name and I'll find its poster and details for you.\n\nUse /help to see everything I can do.",
			user.FirstName))
	case "/help":
		c.sendText(ctx, chatID, helpText)
	case "/trending":
		c.handleTrending(ctx, chatID)
	case "/stats":
		c.handleStats(ctx, chatID, user.ID)
	case "/settings":
		sess := c.sessions.GetOrCreate(user.ID)
		c.sendSettings(ctx, chatID, sess.Prefs)
	default:
		slog.Debug("unknown command", "command", command, "user_id", user.ID)
		c.sendText(ctx, chatID, "I don't know that command. Use /help to see what I can do.")
	}
}

func (c *Channel) handleTrending(ctx context.Context, chatID int64) {
	c.sendTyping(ctx, chatID)

	briefs, err := c.finder.Trending(ctx)
	if err != nil {
		slog.Warn("trending lookup failed", "error", err)
		c.sendText(ctx, chatID, "❌ Couldn't fetch trending movies right now. Please try again.")
		return
	}
	if len(briefs) == 0 {
		c.sendText(ctx, chatID, "No trending movies right now.")
		return
	}

	c.sendText(ctx, chatID, formatBriefList("🔥 *Trending This Week:*", briefs))

	top := briefs[0]
	if top.PosterURL != "" {
		c.sendPhoto(ctx, chatID, top.PosterURL, fmt.Sprintf("🏆 #1 trending: *%s* (%s)", top.Title, top.Year))
	}
}

func (c *Channel) handleStats(ctx context.Context, chatID, userID int64) {
	snap := c.stats.Snapshot()
	sess := c.sessions.GetOrCreate(userID)
	c.sendText(ctx, chatID, formatStats(snap, sess.SearchCount))
}
