package cli

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/cygnuslabs/cygnusone/internal/client/models"
	"github.com/cygnuslabs/cygnusone/internal/debuglog"
)

func TestList_LoadsFirstPageWhenIdle(t *testing.T) {
	lines := capturePrintln(t)

	a := newTestApp(newFakeAuthMgr(), &fakeArticles{})

	if err := a.List(context.Background()); err != nil {
		t.Fatalf("List err: %v", err)
	}
	if !containsSubstring(*lines, "First Article") || !containsSubstring(*lines, "Second Article") {
		t.Fatalf("articles not printed: %v", *lines)
	}
}

func TestList_MoreHintShownWhenPagesRemain(t *testing.T) {
	lines := capturePrintln(t)

	a := newTestApp(newFakeAuthMgr(), &fakeArticles{hasMore: true})

	if err := a.List(context.Background()); err != nil {
		t.Fatalf("List err: %v", err)
	}
	if !containsSubstring(*lines, "more") {
		t.Fatalf("missing pagination hint: %v", *lines)
	}
}

func TestMore_PrintsOnlyNewArticles(t *testing.T) {
	ctx := context.Background()
	articles := &fakeArticles{hasMore: true}
	a := newTestApp(newFakeAuthMgr(), articles)

	if err := a.List(ctx); err != nil {
		t.Fatalf("List err: %v", err)
	}

	lines := capturePrintln(t)
	articles.hasMore = false
	if err := a.More(ctx); err != nil {
		t.Fatalf("More err: %v", err)
	}

	// Page one entries start at position 1; the second page at position 3.
	if containsSubstring(*lines, "  1.") {
		t.Fatalf("first page reprinted: %v", *lines)
	}
	if !containsSubstring(*lines, "  3.") {
		t.Fatalf("second page not printed: %v", *lines)
	}
}

func TestMore_NothingLeft(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(newFakeAuthMgr(), &fakeArticles{})

	if err := a.List(ctx); err != nil {
		t.Fatalf("List err: %v", err)
	}

	lines := capturePrintln(t)
	if err := a.More(ctx); err != nil {
		t.Fatalf("More err: %v", err)
	}
	if !containsSubstring(*lines, "No more articles.") {
		t.Fatalf("missing message: %v", *lines)
	}
}

func TestShow_PrintsArticle(t *testing.T) {
	lines := capturePrintln(t)
	a := newTestApp(newFakeAuthMgr(), &fakeArticles{})

	if err := a.Show(context.Background(), "a1"); err != nil {
		t.Fatalf("Show err: %v", err)
	}
	if !containsSubstring(*lines, "Full body text.") {
		t.Fatalf("article body not printed: %v", *lines)
	}
}

func TestWhoAmI(t *testing.T) {
	t.Run("not logged in", func(t *testing.T) {
		lines := capturePrintln(t)
		a := newTestApp(newFakeAuthMgr(), &fakeArticles{})

		if err := a.WhoAmI(context.Background()); err != nil {
			t.Fatalf("WhoAmI err: %v", err)
		}
		if !containsSubstring(*lines, "Not logged in.") {
			t.Fatalf("missing message: %v", *lines)
		}
	})

	t.Run("logged in", func(t *testing.T) {
		lines := capturePrintln(t)
		auth := newFakeAuthMgr()
		auth.authed = true
		auth.user = &models.User{ID: "1", Name: "Ada", Email: "ada@example.com", Role: "editor"}
		a := newTestApp(auth, &fakeArticles{})

		if err := a.WhoAmI(context.Background()); err != nil {
			t.Fatalf("WhoAmI err: %v", err)
		}
		if !containsSubstring(*lines, "ada@example.com") || !containsSubstring(*lines, "editor") {
			t.Fatalf("user not printed: %v", *lines)
		}
	})
}

func TestPermission(t *testing.T) {
	auth := newFakeAuthMgr()
	auth.authed = true
	auth.user = &models.User{
		ID: "1", Name: "Ada", Email: "ada@example.com", Role: "editor",
		Permissions: models.PermissionTree{
			"articles": {Children: map[string]*models.PermissionNode{
				"read": {Value: true},
			}},
		},
	}
	a := newTestApp(auth, &fakeArticles{})

	t.Run("granted", func(t *testing.T) {
		lines := capturePrintln(t)
		if err := a.Permission(context.Background(), "articles.read"); err != nil {
			t.Fatalf("Permission err: %v", err)
		}
		if !containsSubstring(*lines, "granted") {
			t.Fatalf("missing verdict: %v", *lines)
		}
	})

	t.Run("denied", func(t *testing.T) {
		lines := capturePrintln(t)
		if err := a.Permission(context.Background(), "articles.delete"); err != nil {
			t.Fatalf("Permission err: %v", err)
		}
		if !containsSubstring(*lines, "denied") {
			t.Fatalf("missing verdict: %v", *lines)
		}
	})
}

func TestShowLog(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		lines := capturePrintln(t)
		a := newTestApp(newFakeAuthMgr(), &fakeArticles{})

		if err := a.ShowLog(context.Background()); err != nil {
			t.Fatalf("ShowLog err: %v", err)
		}
		if !containsSubstring(*lines, "Log is empty.") {
			t.Fatalf("missing message: %v", *lines)
		}
	})

	t.Run("with entries", func(t *testing.T) {
		lines := capturePrintln(t)
		a := newTestApp(newFakeAuthMgr(), &fakeArticles{})

		log := slog.New(debuglog.NewHandler(a.ring, nil))
		log.Info("something happened", "key", "value")

		if err := a.ShowLog(context.Background()); err != nil {
			t.Fatalf("ShowLog err: %v", err)
		}
		if !containsSubstring(*lines, "something happened") || !containsSubstring(*lines, "key=value") {
			t.Fatalf("entry not printed: %v", *lines)
		}
	})
}

func TestRenderArticleLine(t *testing.T) {
	article := models.Article{
		ID:     "a1",
		Title:  "First Article",
		Author: &models.Author{ID: "u1", Name: "Ada"},
		Tags:   []string{"go", "testing"},
	}

	line := renderArticleLine(1, article)
	for _, want := range []string{"a1", "First Article", "Ada", "go, testing"} {
		if !containsSubstring([]string{line}, want) {
			t.Fatalf("line %q missing %q", line, want)
		}
	}
}

func TestRenderArticle(t *testing.T) {
	article := &models.Article{
		ID:        "a1",
		Title:     "First Article",
		Content:   "Full body text.",
		Author:    &models.Author{ID: "u1", Name: "Ada"},
		Tags:      []string{"go"},
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	out := renderArticle(article)
	for _, want := range []string{"First Article", "Ada", "go", "2025-06-01", "Full body text."} {
		if !containsSubstring([]string{out}, want) {
			t.Fatalf("rendered article missing %q:\n%s", want, out)
		}
	}
}
