package devserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/cygnuslabs/cygnusone/internal/client/models"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type authPayload struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if creds.Email == "" || creds.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	s.mu.Lock()
	acct := s.accounts[strings.ToLower(creds.Email)]
	s.mu.Unlock()

	if acct == nil || bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(creds.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.issueToken(acct)
	if err != nil {
		s.log.Error(r.Context(), "signing token", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.log.Info(r.Context(), "login", "email", acct.Email)
	writeJSON(w, http.StatusOK, authPayload{Token: token, User: userPayload(acct)})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if creds.Email == "" || creds.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	email := strings.ToLower(creds.Email)
	name := creds.Name
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	acct := &account{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		Role:         "user",
		PasswordHash: hash,
		Permissions: models.PermissionTree{
			"articles": {Children: map[string]*models.PermissionNode{
				"read": {Value: true},
			}},
		},
	}

	s.mu.Lock()
	if _, exists := s.accounts[email]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "account already exists")
		return
	}
	s.accounts[email] = acct
	s.mu.Unlock()

	token, err := s.issueToken(acct)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.log.Info(r.Context(), "account registered", "email", email)
	writeJSON(w, http.StatusCreated, authPayload{Token: token, User: userPayload(acct)})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	_, raw, err := s.authenticate(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	s.mu.Lock()
	s.revoked[raw] = struct{}{}
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	acct, _, err := s.authenticate(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]*models.User{"user": userPayload(acct)})
}

func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)
	author := r.URL.Query().Get("author")
	tag := r.URL.Query().Get("tag")

	if page < 1 || limit < 1 || limit > 100 {
		writeError(w, http.StatusBadRequest, "invalid pagination parameters")
		return
	}

	s.mu.Lock()
	var filtered []models.Article
	for _, a := range s.articles {
		if author != "" && (a.Author == nil || !strings.EqualFold(a.Author.Name, author)) {
			continue
		}
		if tag != "" && !hasTag(a.Tags, tag) {
			continue
		}
		filtered = append(filtered, a)
	}
	s.mu.Unlock()

	total := len(filtered)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	writeJSON(w, http.StatusOK, models.ArticleResponse{
		Data:       filtered[start:end],
		TotalCount: total,
		Page:       page,
		PageSize:   limit,
		HasMore:    end < total,
	})
}

func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.articles {
		if a.ID == id {
			writeJSON(w, http.StatusOK, a)
			return
		}
	}
	writeError(w, http.StatusNotFound, "article not found")
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
