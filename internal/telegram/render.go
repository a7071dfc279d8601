package telegram

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/nextlevelbuilder/posterbot/internal/movies"
	"github.com/nextlevelbuilder/posterbot/internal/sessions"
	"github.com/nextlevelbuilder/posterbot/internal/stats"
)

// overviewLimit caps the plot text so the caption stays under Telegram's
// 1024-character photo caption limit.
const overviewLimit = 200

// formatCaption renders the poster caption in Markdown. The compact form
// carries only title, year, and rating.
func formatCaption(r *movies.Result, detailed bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🎬 *%s*", r.Title)
	if r.OriginalTitle != "" && r.OriginalTitle != r.Title {
		fmt.Fprintf(&b, " _(%s)_", r.OriginalTitle)
	}
	fmt.Fprintf(&b, "\n📅 *Year:* %s", r.Year)
	fmt.Fprintf(&b, "\n⭐ *Rating:* %.1f/10 %s", r.Rating, stars(r.Rating))

	if !detailed {
		return b.String()
	}

	if r.RuntimeMinutes > 0 {
		fmt.Fprintf(&b, "\n⏱ *Runtime:* %s", formatRuntime(r.RuntimeMinutes))
	}
	if len(r.Genres) > 0 {
		fmt.Fprintf(&b, "\n🎭 *Genres:* %s", strings.Join(r.Genres, ", "))
	}
	if len(r.Directors) > 0 {
		fmt.Fprintf(&b, "\n🎥 *Director:* %s", strings.Join(r.Directors, ", "))
	}
	if len(r.Cast) > 0 {
		fmt.Fprintf(&b, "\n👥 *Cast:* %s", strings.Join(r.Cast, ", "))
	}
	if r.Overview != "" {
		fmt.Fprintf(&b, "\n\n📖 *Plot:*\n%s", truncate(r.Overview, overviewLimit))
	}
	if len(r.SimilarTitles) > 0 {
		fmt.Fprintf(&b, "\n\n🍿 *You might also like:* %s", strings.Join(r.SimilarTitles, ", "))
	}

	return b.String()
}

// movieKeyboard builds the action buttons under a search result. The trailer
// button only appears when a trailer exists; the similar button only when
// similar titles exist.
func movieKeyboard(r *movies.Result) *telego.InlineKeyboardMarkup {
	row := []telego.InlineKeyboardButton{}
	if r.TrailerURL != "" {
		row = append(row, tu.InlineKeyboardButton("🎥 Watch Trailer").WithURL(r.TrailerURL))
	}
	row = append(row, tu.InlineKeyboardButton("📊 TMDB Page").
		WithURL(fmt.Sprintf("https://www.themoviedb.org/movie/%d", r.ID)))

	rows := [][]telego.InlineKeyboardButton{row}
	if len(r.SimilarTitles) > 0 {
		rows = append(rows, tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("🔍 Similar Movies").
				WithCallbackData(fmt.Sprintf("similar_%d", r.ID)),
		))
	}
	return tu.InlineKeyboard(rows...)
}

// settingsKeyboard shows each preference with its current state.
func settingsKeyboard(prefs sessions.Preferences) *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(fmt.Sprintf("%s Backdrop images", checkmark(prefs.SendBackdrop))).
				WithCallbackData("toggle_" + sessions.PrefBackdrop),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(fmt.Sprintf("%s Detailed info", checkmark(prefs.DetailedInfo))).
				WithCallbackData("toggle_" + sessions.PrefDetails),
		),
	)
}

// formatBriefList renders a numbered movie list under a heading.
func formatBriefList(heading string, briefs []movies.Brief) string {
	var b strings.Builder
	b.WriteString(heading)
	for i, brief := range briefs {
		fmt.Fprintf(&b, "\n%d. *%s* (%s) ⭐ %.1f", i+1, brief.Title, brief.Year, brief.Rating)
	}
	return b.String()
}

func formatStats(snap stats.Snapshot, userSearches int) string {
	hours := int(snap.Uptime.Hours())
	return fmt.Sprintf(`📊 *Bot Statistics*

🔍 Total searches: %d
✅ Successful: %d
👥 Active users: %d
⏰ Uptime: %dd %dh

🙋 Your searches: %d`,
		snap.TotalSearches, snap.SuccessfulSearches, snap.ActiveUsers,
		hours/24, hours%24, userSearches)
}

// formatRuntime renders minutes as "2h 28m".
func formatRuntime(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// stars renders a 0-10 rating as zero to five star glyphs.
func stars(rating float64) string {
	n := int(rating / 2)
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("⭐", n)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	// Don't cut in the middle of a multi-byte rune
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return strings.TrimSpace(s[:limit]) + "..."
}

func checkmark(enabled bool) string {
	if enabled {
		return "✅"
	}
	return "❌"
}

func onOff(enabled bool) string {
	if enabled {
		return "ON"
	}
	return "OFF"
}
