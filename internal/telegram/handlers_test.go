package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mymmrac/telego"

	"github.com/nextlevelbuilder/posterbot/internal/movies"
	"github.com/nextlevelbuilder/posterbot/internal/sessions"
)

func TestExtractYear(t *testing.T) {
	tests := []struct {
		text      string
		wantQuery string
		wantYear  string
	}{
		{"Inception 2010", "Inception", "2010"},
		{"2010 Inception", "Inception", "2010"},
		{"1917", "", "1917"},
		{"Se7en", "Se7en", ""},
		// 2049 is above the accepted range, so it stays part of the title.
		{"Blade Runner 2049", "Blade Runner 2049", ""},
		{"Airport 1975", "Airport", "1975"},
		// Only the first in-range token is removed.
		{"Dune 2021 2021", "Dune 2021", "2021"},
		// Not a number, or not exactly four digits.
		{"20ab movie", "20ab movie", ""},
		{"Movie 12345", "Movie 12345", ""},
		{"  spaced   out  2000 ", "spaced out", "2000"},
	}

	for _, tt := range tests {
		query, year := extractYear(tt.text)
		if query != tt.wantQuery || year != tt.wantYear {
			t.Errorf("extractYear(%q) = (%q, %q), want (%q, %q)",
				tt.text, query, year, tt.wantQuery, tt.wantYear)
		}
	}
}

// TestSearchFailureTextSanitizesErrors verifies that raw catalog error text
// never reaches the user.
func TestSearchFailureTextSanitizesErrors(t *testing.T) {
	leaky := errors.New("GET https://api.example.com?api_key=SECRET123: 500")
	got := searchFailureText("dune", leaky)
	if strings.Contains(got, "SECRET123") || strings.Contains(got, "api.example.com") {
		t.Fatalf("failure text leaked the underlying error: %q", got)
	}
	if !strings.Contains(got, "Try") {
		t.Errorf("failure text should carry retry hints, got %q", got)
	}
}

func TestSearchFailureTextByKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{movies.ErrNotFound, "not found"},
		{movies.ErrNoPoster, "No poster"},
		{movies.ErrTimedOut, "timed out"},
	}
	for _, tt := range tests {
		got := searchFailureText("dune", tt.err)
		if !strings.Contains(got, tt.want) {
			t.Errorf("searchFailureText(%v) = %q, want substring %q", tt.err, got, tt.want)
		}
	}
}

// TestHandleMessageEmptyTextNotCounted verifies that a blank message gets a
// prompt and is not counted as a search.
func TestHandleMessageEmptyTextNotCounted(t *testing.T) {
	bot := &fakeBot{}
	finder := &fakeFinder{}
	c, _ := newTestChannel(bot, finder)

	msg := &telego.Message{
		From: &telego.User{ID: 7, FirstName: "Test"},
		Chat: telego.Chat{ID: 7},
		Text: "   ",
	}
	if err := c.handleMessage(context.Background(), msg); err != nil {
		t.Fatalf("handleMessage: %v", err)
	}

	if len(finder.queries) != 0 {
		t.Errorf("blank message triggered a search: %v", finder.queries)
	}
	if got := c.stats.Snapshot().TotalSearches; got != 0 {
		t.Errorf("TotalSearches = %d, want 0", got)
	}
	if len(bot.sent) != 1 || !strings.Contains(bot.sent[0], "/help") {
		t.Errorf("expected a single prompt mentioning /help, got %v", bot.sent)
	}
}

// TestHandleSearchSuccess verifies the reply sequence for a found movie:
// poster with caption, action keyboard, then backdrop.
func TestHandleSearchSuccess(t *testing.T) {
	bot := &fakeBot{}
	finder := &fakeFinder{result: &movies.Result{
		ID:          27205,
		Title:       "Inception",
		Year:        "2010",
		Rating:      8.4,
		PosterURL:   "https://img.example/poster.jpg",
		BackdropURL: "https://img.example/backdrop.jpg",
	}}
	c, _ := newTestChannel(bot, finder)

	msg := &telego.Message{
		From: &telego.User{ID: 7, FirstName: "Test"},
		Chat: telego.Chat{ID: 7},
		Text: "Inception 2010",
	}
	if err := c.handleMessage(context.Background(), msg); err != nil {
		t.Fatalf("handleMessage: %v", err)
	}

	if len(finder.queries) != 1 || finder.queries[0] != "Inception" {
		t.Fatalf("queries = %v, want [Inception]", finder.queries)
	}
	if len(bot.photos) != 2 {
		t.Fatalf("photos sent = %v, want poster then backdrop", bot.photos)
	}
	if bot.photos[0] != "https://img.example/poster.jpg" {
		t.Errorf("first photo = %q, want the poster", bot.photos[0])
	}
	if bot.photos[1] != "https://img.example/backdrop.jpg" {
		t.Errorf("second photo = %q, want the backdrop", bot.photos[1])
	}
	if !strings.Contains(bot.captions[0], "Inception") {
		t.Errorf("poster caption = %q, want the title in it", bot.captions[0])
	}

	snap := c.stats.Snapshot()
	if snap.TotalSearches != 1 || snap.SuccessfulSearches != 1 {
		t.Errorf("stats = %+v, want one search and one success", snap)
	}
}

// TestHandleSearchNoBackdropWhenDisabled verifies the backdrop preference is
// honored.
func TestHandleSearchNoBackdropWhenDisabled(t *testing.T) {
	bot := &fakeBot{}
	finder := &fakeFinder{result: &movies.Result{
		ID:          1,
		Title:       "Alien",
		Year:        "1979",
		PosterURL:   "https://img.example/poster.jpg",
		BackdropURL: "https://img.example/backdrop.jpg",
	}}
	c, _ := newTestChannel(bot, finder)
	if _, err := c.sessions.TogglePreference(7, sessions.PrefBackdrop); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	msg := &telego.Message{
		From: &telego.User{ID: 7, FirstName: "Test"},
		Chat: telego.Chat{ID: 7},
		Text: "Alien",
	}
	if err := c.handleMessage(context.Background(), msg); err != nil {
		t.Fatalf("handleMessage: %v", err)
	}

	if len(bot.photos) != 1 {
		t.Errorf("photos sent = %v, want only the poster", bot.photos)
	}
}

// TestCallbackAlwaysAnswered verifies the query is acknowledged for every
// outcome, including unknown data and handler failures.
func TestCallbackAlwaysAnswered(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"unknown action", "bogus", false},
		{"bad similar payload", "similar_xyz", true},
		{"unknown preference", "toggle_nonsense", true},
		{"valid similar", "similar_27205", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bot := &fakeBot{}
			c, _ := newTestChannel(bot, &fakeFinder{briefs: []movies.Brief{{Title: "Memento"}}})

			query := &telego.CallbackQuery{
				ID:      "cb-1",
				From:    telego.User{ID: 7},
				Message: &telego.Message{Chat: telego.Chat{ID: 7}},
				Data:    tt.data,
			}
			err := c.handleCallbackQuery(context.Background(), query)
			if tt.wantErr && err == nil {
				t.Error("expected an error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if len(bot.answered) != 1 || bot.answered[0] != "cb-1" {
				t.Errorf("answered = %v, want [cb-1]", bot.answered)
			}
		})
	}
}

// TestToggleCallbackFlipsPreference verifies the toggle action mutates the
// session and reports the new state.
func TestToggleCallbackFlipsPreference(t *testing.T) {
	bot := &fakeBot{}
	c, _ := newTestChannel(bot, &fakeFinder{})

	query := &telego.CallbackQuery{
		ID:      "cb-2",
		From:    telego.User{ID: 9},
		Message: &telego.Message{Chat: telego.Chat{ID: 9}},
		Data:    "toggle_backdrop",
	}
	if err := c.handleCallbackQuery(context.Background(), query); err != nil {
		t.Fatalf("handleCallbackQuery: %v", err)
	}

	sess := c.sessions.GetOrCreate(9)
	if sess.Prefs.SendBackdrop {
		t.Error("SendBackdrop still true after toggle")
	}
	if len(bot.sent) == 0 || !strings.Contains(bot.sent[0], "OFF") {
		t.Errorf("expected an OFF confirmation, got %v", bot.sent)
	}
}

// TestSimilarCallbackSendsList verifies the similar-movies button produces a
// numbered list.
func TestSimilarCallbackSendsList(t *testing.T) {
	bot := &fakeBot{}
	finder := &fakeFinder{briefs: []movies.Brief{
		{Title: "Memento", Year: "2000", Rating: 8.2},
		{Title: "The Prestige", Year: "2006", Rating: 8.5},
	}}
	c, _ := newTestChannel(bot, finder)

	query := &telego.CallbackQuery{
		ID:      "cb-3",
		From:    telego.User{ID: 7},
		Message: &telego.Message{Chat: telego.Chat{ID: 7}},
		Data:    "similar_27205",
	}
	if err := c.handleCallbackQuery(context.Background(), query); err != nil {
		t.Fatalf("handleCallbackQuery: %v", err)
	}

	if len(bot.sent) != 1 {
		t.Fatalf("sent = %v, want one list message", bot.sent)
	}
	if !strings.Contains(bot.sent[0], "1. *Memento*") || !strings.Contains(bot.sent[0], "2. *The Prestige*") {
		t.Errorf("list = %q, want numbered entries", bot.sent[0])
	}
}

func TestCommandRouting(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"/start", "Hi Test"},
		{"/help", "Commands"},
		{"/HELP", "Commands"},
		{"/help@SomePosterBot", "Commands"},
		{"/stats", "Statistics"},
		{"/unknowncmd", "/help"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			bot := &fakeBot{}
			finder := &fakeFinder{}
			c, _ := newTestChannel(bot, finder)

			msg := &telego.Message{
				From: &telego.User{ID: 7, FirstName: "Test"},
				Chat: telego.Chat{ID: 7},
				Text: tt.text,
			}
			if err := c.handleMessage(context.Background(), msg); err != nil {
				t.Fatalf("handleMessage: %v", err)
			}
			if len(finder.queries) != 0 {
				t.Errorf("command triggered a search: %v", finder.queries)
			}
			if len(bot.sent) == 0 || !strings.Contains(bot.sent[0], tt.want) {
				t.Errorf("reply = %v, want substring %q", bot.sent, tt.want)
			}
		})
	}
}

// TestTrendingCommand verifies the list plus top-poster reply.
func TestTrendingCommand(t *testing.T) {
	bot := &fakeBot{}
	finder := &fakeFinder{briefs: []movies.Brief{
		{Title: "Dune", Year: "2021", Rating: 8.0, PosterURL: "https://img.example/dune.jpg"},
		{Title: "Arrival", Year: "2016", Rating: 7.9, PosterURL: "https://img.example/arrival.jpg"},
	}}
	c, _ := newTestChannel(bot, finder)

	msg := &telego.Message{
		From: &telego.User{ID: 7, FirstName: "Test"},
		Chat: telego.Chat{ID: 7},
		Text: "/trending",
	}
	if err := c.handleMessage(context.Background(), msg); err != nil {
		t.Fatalf("handleMessage: %v", err)
	}

	if len(bot.sent) != 1 || !strings.Contains(bot.sent[0], "Trending") {
		t.Fatalf("sent = %v, want one trending list", bot.sent)
	}
	if len(bot.photos) != 1 || bot.photos[0] != "https://img.example/dune.jpg" {
		t.Errorf("photos = %v, want the #1 poster", bot.photos)
	}
}
