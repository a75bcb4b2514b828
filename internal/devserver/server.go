// Package devserver is a self-contained in-memory implementation of the
// CygnusOne REST API, meant for local development and end-to-end testing of
// the client. State lives in memory and resets on restart.
package devserver

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/cygnuslabs/cygnusone/internal/client/models"
	"github.com/cygnuslabs/cygnusone/internal/common"
	"github.com/cygnuslabs/cygnusone/internal/logging"
)

const tokenTTL = 24 * time.Hour

type account struct {
	ID           string
	Email        string
	Name         string
	Role         string
	PasswordHash []byte
	Permissions  models.PermissionTree
}

// Server holds the in-memory API state. Safe for concurrent use.
type Server struct {
	log    logging.Logger
	secret []byte

	mu       sync.Mutex
	accounts map[string]*account
	revoked  map[string]struct{}
	articles []models.Article
}

// New builds a server seeded with demo accounts and articles. The JWT
// signing secret is generated per process.
func New(log logging.Logger) *Server {
	s := &Server{
		log:      log,
		secret:   common.GenerateRandByteArray(32),
		accounts: make(map[string]*account),
		revoked:  make(map[string]struct{}),
	}
	s.seed()
	return s
}

// Router returns the HTTP handler for the full API surface.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", s.handleMe).Methods(http.MethodGet)

	api.HandleFunc("/articles", s.handleListArticles).Methods(http.MethodGet)
	api.HandleFunc("/articles/{id}", s.handleGetArticle).Methods(http.MethodGet)

	return r
}

func (s *Server) seed() {
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("seeding demo account: %v", err))
	}

	s.accounts["demo@cygnusone.dev"] = &account{
		ID:           uuid.NewString(),
		Email:        "demo@cygnusone.dev",
		Name:         "Demo User",
		Role:         "editor",
		PasswordHash: hash,
		Permissions: models.PermissionTree{
			"articles": {Children: map[string]*models.PermissionNode{
				"read":  {Value: true},
				"write": {Value: true},
			}},
		},
	}

	authors := []models.Author{
		{ID: uuid.NewString(), Name: "Ada Lovelace"},
		{ID: uuid.NewString(), Name: "Grace Hopper"},
	}
	tags := [][]string{
		{"go", "backend"},
		{"frontend"},
		{"go", "tooling"},
		{"databases"},
	}

	now := time.Now().UTC()
	for i := 0; i < 25; i++ {
		author := authors[i%len(authors)]
		created := now.Add(-time.Duration(i) * time.Hour)
		s.articles = append(s.articles, models.Article{
			ID:        uuid.NewString(),
			Title:     fmt.Sprintf("Article %d", i+1),
			Content:   fmt.Sprintf("Body of article %d.", i+1),
			Author:    &author,
			Tags:      tags[i%len(tags)],
			CreatedAt: created,
			UpdatedAt: created,
		})
	}
}

// issueToken signs a JWT for the account.
func (s *Server) issueToken(a *account) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   a.ID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// authenticate resolves the bearer token on r to an account. The raw token
// string is returned alongside so logout can revoke it.
func (s *Server) authenticate(r *http.Request) (*account, string, error) {
	header := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return nil, "", fmt.Errorf("missing bearer token")
	}

	s.mu.Lock()
	_, revoked := s.revoked[raw]
	s.mu.Unlock()
	if revoked {
		return nil, "", fmt.Errorf("token revoked")
	}

	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, "", fmt.Errorf("invalid token: %w", err)
	}

	claims := token.Claims.(*jwt.RegisteredClaims)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.ID == claims.Subject {
			return a, raw, nil
		}
	}
	return nil, "", fmt.Errorf("unknown account")
}

func userPayload(a *account) *models.User {
	return &models.User{
		ID:          models.UserID(a.ID),
		Email:       a.Email,
		Name:        a.Name,
		Role:        a.Role,
		Permissions: a.Permissions,
	}
}
