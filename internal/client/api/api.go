// Package api contains the stateless request/response adapters for the
// CygnusOne REST API: one client for authentication, one for articles.
// Both map transport and status failures onto the shared error taxonomy in
// errors.go; callers classify with errors.Is / errors.As.
package api

import (
	"context"

	"github.com/cygnuslabs/cygnusone/internal/client/models"
)

// AuthAPI is the authentication endpoint surface.
type AuthAPI interface {
	// Login exchanges credentials for a bearer token and the user record.
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	// Register creates an account and logs it in, returning token and user.
	Register(ctx context.Context, email, password, name string) (string, *models.User, error)
	// Logout invalidates the token server-side.
	Logout(ctx context.Context, token string) error
	// Me returns the user record for the given token.
	Me(ctx context.Context, token string) (*models.User, error)
}

// ArticleQuery is the query surface of GET /articles. Zero-valued fields are
// omitted from the request.
type ArticleQuery struct {
	Page   int
	Limit  int
	Author string
	Tag    string
}

// ArticleAPI is the article endpoint surface.
type ArticleAPI interface {
	List(ctx context.Context, q ArticleQuery) (*models.ArticleResponse, error)
	Get(ctx context.Context, id string) (*models.Article, error)
}
