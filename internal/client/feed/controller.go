// Package feed maintains the paginated, filterable article list: the
// pagination cursor, the accumulated page data, and the fetch state machine.
package feed

import (
	"context"
	"errors"
	"sync"

	"github.com/cygnuslabs/cygnusone/internal/client/api"
	"github.com/cygnuslabs/cygnusone/internal/client/models"
	"github.com/cygnuslabs/cygnusone/internal/logging"
)

// DefaultPageSize is the fixed page size requested from the API.
const DefaultPageSize = 10

// ErrBusy is returned when an operation would overlap an in-flight fetch.
// Only one fetch may mutate the cursor at a time; callers retry once the
// current fetch settles.
var ErrBusy = errors.New("article fetch already in progress")

// State is the controller's fetch state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateLoadingMore
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateLoadingMore:
		return "loading-more"
	default:
		return "unknown"
	}
}

// Controller accumulates article pages from the API. All exported methods
// are safe for concurrent use; the network call itself runs outside the
// lock, with the state machine preventing overlapping fetches.
type Controller struct {
	api api.ArticleAPI
	log logging.Logger

	mu       sync.Mutex
	state    State
	page     int
	pageSize int
	hasMore  bool
	author   string
	tag      string
	articles []models.Article
}

func NewController(articleAPI api.ArticleAPI, log logging.Logger) *Controller {
	return &Controller{
		api:      articleAPI,
		log:      log,
		state:    StateIdle,
		page:     1,
		pageSize: DefaultPageSize,
		hasMore:  true,
	}
}

// Initialize fetches page 1 with the current filters. On failure the
// controller returns to Idle and the error is surfaced.
func (c *Controller) Initialize(ctx context.Context) error {
	return c.reload(ctx)
}

// Refresh resets the cursor to page 1, discards the accumulated list and
// fetches anew, behaving exactly like Initialize.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.reload(ctx)
}

func (c *Controller) reload(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateLoading || c.state == StateLoadingMore {
		c.mu.Unlock()
		return ErrBusy
	}
	// Cursor reset happens before the fetch.
	c.page = 1
	c.hasMore = true
	c.articles = nil
	c.state = StateLoading
	query := api.ArticleQuery{Page: 1, Limit: c.pageSize, Author: c.author, Tag: c.tag}
	c.mu.Unlock()

	resp, err := c.api.List(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.log.Error(ctx, "loading articles failed", "page", 1, "err", err)
		c.state = StateIdle
		return err
	}

	c.articles = append([]models.Article(nil), resp.Data...)
	c.hasMore = resp.HasMore
	c.state = StateLoaded
	c.log.Debug(ctx, "articles loaded", "count", len(resp.Data), "hasMore", resp.HasMore)
	return nil
}

// LoadMore fetches the next page and appends it to the accumulated list.
// It is a silent no-op while a fetch is in flight, before the first load,
// or once the server said there is nothing more.
//
// A failed fetch keeps the list, the cursor and hasMore untouched, so the
// next LoadMore retries the same page instead of silently truncating the
// feed on a transient error.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateLoaded || !c.hasMore {
		c.mu.Unlock()
		return nil
	}
	next := c.page + 1
	c.state = StateLoadingMore
	query := api.ArticleQuery{Page: next, Limit: c.pageSize, Author: c.author, Tag: c.tag}
	c.mu.Unlock()

	resp, err := c.api.List(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateLoaded
	if err != nil {
		c.log.Error(ctx, "loading more articles failed", "page", next, "err", err)
		return err
	}

	c.articles = append(c.articles, resp.Data...)
	c.page = next
	c.hasMore = resp.HasMore
	c.log.Debug(ctx, "articles appended", "page", next, "count", len(resp.Data), "hasMore", resp.HasMore)
	return nil
}

// SetAuthorFilter activates an author filter, clearing any tag filter, and
// refreshes. An empty value clears the filter. Setting the value already in
// effect is a no-op.
func (c *Controller) SetAuthorFilter(ctx context.Context, author string) error {
	c.mu.Lock()
	if c.author == author && c.tag == "" {
		c.mu.Unlock()
		return nil
	}
	if c.state == StateLoading || c.state == StateLoadingMore {
		c.mu.Unlock()
		return ErrBusy
	}
	c.author = author
	c.tag = ""
	c.mu.Unlock()

	return c.reload(ctx)
}

// SetTagFilter activates a tag filter, clearing any author filter, and
// refreshes. Same contract as SetAuthorFilter.
func (c *Controller) SetTagFilter(ctx context.Context, tag string) error {
	c.mu.Lock()
	if c.tag == tag && c.author == "" {
		c.mu.Unlock()
		return nil
	}
	if c.state == StateLoading || c.state == StateLoadingMore {
		c.mu.Unlock()
		return ErrBusy
	}
	c.tag = tag
	c.author = ""
	c.mu.Unlock()

	return c.reload(ctx)
}

// Articles returns a snapshot of the accumulated list in server page order.
func (c *Controller) Articles() []models.Article {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Article, len(c.articles))
	copy(out, c.articles)
	return out
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

// Page is the number of the last successfully loaded page.
func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

func (c *Controller) AuthorFilter() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.author
}

func (c *Controller) TagFilter() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tag
}
