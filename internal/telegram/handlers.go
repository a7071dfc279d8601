package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"

	"github.com/nextlevelbuilder/posterbot/internal/movies"
	"github.com/nextlevelbuilder/posterbot/internal/sessions"
)

// similarListLimit caps the list sent for a "similar movies" button press.
const similarListLimit = 8

// Release years outside this window are treated as part of the title.
const (
	minReleaseYear = 1900
	maxReleaseYear = 2030
)

// dispatch routes one update. An error here means the update could not be
// handled at all; user-facing failures are replied to inline and return nil.
func (c *Channel) dispatch(ctx context.Context, update telego.Update) error {
	switch {
	case update.CallbackQuery != nil:
		return c.handleCallbackQuery(ctx, update.CallbackQuery)
	case update.Message != nil:
		return c.handleMessage(ctx, update.Message)
	}
	slog.Debug("ignoring update without message or callback", "update_id", update.UpdateID)
	return nil
}

func (c *Channel) handleMessage(ctx context.Context, message *telego.Message) error {
	if message.From == nil {
		return nil
	}
	user := message.From
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)

	c.stats.Seen(user.ID)
	sess := c.sessions.GetOrCreate(user.ID)

	if strings.HasPrefix(text, "/") {
		c.handleCommand(ctx, chatID, user, text)
		return nil
	}
	if text == "" {
		c.sendText(ctx, chatID, "Please send me a movie name to search for, or use /help for instructions.")
		return nil
	}
	return c.handleSearch(ctx, chatID, user.ID, text, sess.Prefs)
}

func (c *Channel) handleSearch(ctx context.Context, chatID, userID int64, text string, prefs sessions.Preferences) error {
	c.sendTyping(ctx, chatID)
	c.sendText(ctx, chatID, fmt.Sprintf("🔍 Searching for '%s'...", text))

	query, year := extractYear(text)
	c.stats.RecordSearch()
	count := c.sessions.IncrementSearchCount(userID)
	slog.Info("movie search", "user_id", userID, "query", query, "year", year, "user_searches", count)

	result, err := c.finder.Find(ctx, query, year)
	if err != nil {
		slog.Warn("search failed", "user_id", userID, "query", query, "error", err)
		c.sendText(ctx, chatID, searchFailureText(query, err))
		return nil
	}

	c.stats.RecordSuccess()
	c.sendResult(ctx, chatID, result, prefs)
	return nil
}

// sendResult delivers the poster with caption, the action keyboard, and the
// backdrop when the user wants one.
func (c *Channel) sendResult(ctx context.Context, chatID int64, result *movies.Result, prefs sessions.Preferences) {
	caption := formatCaption(result, prefs.DetailedInfo)
	if !c.sendPhoto(ctx, chatID, result.PosterURL, caption) {
		c.sendText(ctx, chatID, "❌ Couldn't send the movie poster. Please try again.")
		return
	}

	params := &telego.SendMessageParams{
		ChatID:      telego.ChatID{ID: chatID},
		Text:        "What would you like to do next?",
		ReplyMarkup: movieKeyboard(result),
	}
	if _, err := c.bot.SendMessage(ctx, params); err != nil {
		slog.Warn("send keyboard failed", "chat_id", chatID, "error", err)
	}

	if prefs.SendBackdrop && result.BackdropURL != "" {
		c.sendPhoto(ctx, chatID, result.BackdropURL, fmt.Sprintf("🖼 Scene from *%s*", result.Title))
	}
}

// handleCallbackQuery performs the action encoded in the callback data.
// The query is always answered, even when the action fails, so the client's
// loading indicator clears.
func (c *Channel) handleCallbackQuery(ctx context.Context, query *telego.CallbackQuery) (err error) {
	defer func() {
		answerErr := c.bot.AnswerCallbackQuery(ctx, &telego.AnswerCallbackQueryParams{
			CallbackQueryID: query.ID,
		})
		if answerErr != nil {
			slog.Warn("answer callback failed", "callback_id", query.ID, "error", answerErr)
		}
	}()

	c.stats.Seen(query.From.ID)
	if query.Message == nil || !query.Message.IsAccessible() {
		slog.Debug("callback without accessible message", "data", query.Data)
		return nil
	}
	chatID := query.Message.GetChat().ID

	action, arg, _ := strings.Cut(query.Data, "_")
	switch action {
	case "similar":
		movieID, parseErr := strconv.ParseInt(arg, 10, 64)
		if parseErr != nil {
			return fmt.Errorf("bad callback payload %q: %w", query.Data, parseErr)
		}
		c.handleSimilar(ctx, chatID, movieID)
	case "toggle":
		return c.handleToggle(ctx, chatID, query.From.ID, arg)
	default:
		slog.Debug("unknown callback action", "data", query.Data)
	}
	return nil
}

func (c *Channel) handleSimilar(ctx context.Context, chatID, movieID int64) {
	c.sendTyping(ctx, chatID)

	briefs, err := c.finder.Similar(ctx, movieID, similarListLimit)
	if err != nil {
		slog.Warn("similar lookup failed", "movie_id", movieID, "error", err)
		c.sendText(ctx, chatID, "❌ Couldn't fetch similar movies right now. Please try again.")
		return
	}
	if len(briefs) == 0 {
		c.sendText(ctx, chatID, "No similar movies found.")
		return
	}
	c.sendText(ctx, chatID, formatBriefList("🎬 *Similar Movies:*", briefs))
}

func (c *Channel) handleToggle(ctx context.Context, chatID, userID int64, key string) error {
	enabled, err := c.sessions.TogglePreference(userID, key)
	if err != nil {
		return err
	}

	var what string
	switch key {
	case sessions.PrefBackdrop:
		what = "Backdrop images"
	case sessions.PrefDetails:
		what = "Detailed info"
	}
	c.sendText(ctx, chatID, fmt.Sprintf("%s are now %s.", what, onOff(enabled)))

	sess := c.sessions.GetOrCreate(userID)
	c.sendSettings(ctx, chatID, sess.Prefs)
	return nil
}

func (c *Channel) sendSettings(ctx context.Context, chatID int64, prefs sessions.Preferences) {
	params := &telego.SendMessageParams{
		ChatID:      telego.ChatID{ID: chatID},
		Text:        "⚙️ *Settings*\n\nTap an option to toggle it:",
		ParseMode:   telego.ModeMarkdown,
		ReplyMarkup: settingsKeyboard(prefs),
	}
	if _, err := c.bot.SendMessage(ctx, params); err != nil {
		slog.Warn("send settings failed", "chat_id", chatID, "error", err)
	}
}

// extractYear pulls the first whitespace-separated 4-digit token between
// minReleaseYear and maxReleaseYear out of the text. Exactly one token is
// removed; everything else keeps its order.
func extractYear(text string) (query, year string) {
	fields := strings.Fields(text)
	for i, field := range fields {
		if len(field) != 4 {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil || n < minReleaseYear || n > maxReleaseYear {
			continue
		}
		year = field
		fields = append(fields[:i], fields[i+1:]...)
		break
	}
	return strings.Join(fields, " "), year
}

// searchFailureText maps an aggregation error to a user-facing reply.
// Raw catalog error strings never reach the user.
func searchFailureText(query string, err error) string {
	var reason string
	switch {
	case errors.Is(err, movies.ErrNotFound):
		reason = fmt.Sprintf("Movie '%s' not found.", query)
	case errors.Is(err, movies.ErrNoPoster):
		reason = fmt.Sprintf("No poster available for '%s'.", query)
	case errors.Is(err, movies.ErrTimedOut):
		reason = "The search timed out. Please try again in a moment."
	default:
		reason = "The movie service returned an error. Please try again later."
	}
	return reason + "\n\n💡 *Try:*\n• Checking the spelling\n• Adding the release year\n• Using a more specific title"
}
