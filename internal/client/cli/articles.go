package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/cygnuslabs/cygnusone/internal/client/feed"
	"github.com/cygnuslabs/cygnusone/internal/client/models"
)

// List shows the accumulated article list, loading the first page when
// nothing has been fetched yet.
func (a *App) List(ctx context.Context) error {
	if a.feed.State() == feed.StateIdle {
		if err := a.feed.Initialize(ctx); err != nil {
			printlnFn(errorStyle.Render(userMessage(err)))
			return err
		}
	}
	a.printArticles(0)
	return nil
}

// More loads the next page and prints only the newly fetched articles.
func (a *App) More(ctx context.Context) error {
	if !a.feed.HasMore() {
		printlnFn("No more articles.")
		return nil
	}
	before := len(a.feed.Articles())
	if err := a.feed.LoadMore(ctx); err != nil {
		printlnFn(errorStyle.Render(userMessage(err)))
		return err
	}
	a.printArticles(before)
	return nil
}

// Refresh reloads the list from the first page.
func (a *App) Refresh(ctx context.Context) error {
	if err := a.feed.Refresh(ctx); err != nil {
		printlnFn(errorStyle.Render(userMessage(err)))
		return err
	}
	a.printArticles(0)
	return nil
}

// FilterAuthor applies an author filter and reloads. "-" clears the filter.
func (a *App) FilterAuthor(ctx context.Context, value string) error {
	if value == "-" {
		value = ""
	}
	if err := a.feed.SetAuthorFilter(ctx, value); err != nil {
		printlnFn(errorStyle.Render(userMessage(err)))
		return err
	}
	a.printArticles(0)
	return nil
}

// FilterTag applies a tag filter and reloads. "-" clears the filter.
func (a *App) FilterTag(ctx context.Context, value string) error {
	if value == "-" {
		value = ""
	}
	if err := a.feed.SetTagFilter(ctx, value); err != nil {
		printlnFn(errorStyle.Render(userMessage(err)))
		return err
	}
	a.printArticles(0)
	return nil
}

// Show fetches and prints a single article.
func (a *App) Show(ctx context.Context, id string) error {
	article, err := a.articles.Get(ctx, id)
	if err != nil {
		printlnFn(errorStyle.Render(userMessage(err)))
		return err
	}
	printlnFn(renderArticle(article))
	return nil
}

// WhoAmI prints the locally stored user record without touching the network.
func (a *App) WhoAmI(ctx context.Context) error {
	user, err := a.auth.CurrentUser(ctx)
	if err != nil {
		printlnFn(errorStyle.Render(userMessage(err)))
		return err
	}
	if user == nil {
		printlnFn("Not logged in.")
		return nil
	}

	printlnFn(fmt.Sprintf("%s <%s>", user.Name, user.Email))
	printlnFn("Role: " + user.Role)
	if user.IsAdmin() {
		printlnFn(dimStyle.Render("Administrator: all permissions granted."))
	}
	return nil
}

// Permission checks a dotted permission path against the stored user.
func (a *App) Permission(ctx context.Context, path string) error {
	user, err := a.auth.CurrentUser(ctx)
	if err != nil {
		printlnFn(errorStyle.Render(userMessage(err)))
		return err
	}
	if user == nil {
		printlnFn("Not logged in.")
		return nil
	}

	if user.HasPermission(path) {
		printlnFn(fmt.Sprintf("%s: granted", path))
	} else {
		printlnFn(fmt.Sprintf("%s: denied", path))
	}
	return nil
}

// ShowLog prints the in-memory debug log, oldest entry first.
func (a *App) ShowLog(ctx context.Context) error {
	entries := a.ring.Entries()
	if len(entries) == 0 {
		printlnFn("Log is empty.")
		return nil
	}
	for _, e := range entries {
		printlnFn(e.String())
	}
	return nil
}

// printArticles prints the accumulated list starting at index from, followed
// by a pagination hint.
func (a *App) printArticles(from int) {
	articles := a.feed.Articles()
	if len(articles) == 0 {
		printlnFn("No articles found.")
		return
	}
	for i := from; i < len(articles); i++ {
		printlnFn(renderArticleLine(i+1, articles[i]))
	}
	if a.feed.HasMore() {
		printlnFn(dimStyle.Render("Type 'more' to load the next page."))
	}
}

func renderArticleLine(n int, article models.Article) string {
	line := fmt.Sprintf("%3d. [%s] %s", n, article.ID, titleStyle.Render(article.Title))
	if article.Author != nil {
		line += " " + bylineStyle.Render("by "+article.Author.Name)
	}
	if len(article.Tags) > 0 {
		line += " " + tagStyle.Render(strings.Join(article.Tags, ", "))
	}
	return line
}

func renderArticle(article *models.Article) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(article.Title))
	b.WriteString("\n")
	if article.Author != nil {
		b.WriteString(bylineStyle.Render("by " + article.Author.Name))
		b.WriteString("\n")
	}
	if len(article.Tags) > 0 {
		b.WriteString(tagStyle.Render(strings.Join(article.Tags, ", ")))
		b.WriteString("\n")
	}
	if !article.CreatedAt.IsZero() {
		b.WriteString(dimStyle.Render(article.CreatedAt.Format("2006-01-02 15:04")))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(article.Content)
	return b.String()
}
