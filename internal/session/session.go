// Package session manages the authenticated user stored in the global config.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"

	"github.com/MrJJimenez/ionctl/internal/config"
	"github.com/MrJJimenez/ionctl/internal/network"
)

var ErrNotLoggedIn = errors.New("not logged in")

type Session struct {
	store   *config.Store
	client  network.Doer
	baseURL string
}

func New(store *config.Store, client network.Doer) *Session {
	return &Session{store: store, client: client, baseURL: store.Config.URLs.API}
}

type loginResponse struct {
	Data struct {
		Token string `json:"token"`
		User  struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	} `json:"data"`
}

// Login exchanges credentials for a user token and persists it.
func (s *Session) Login(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return fmt.Errorf("email and password are required")
	}

	req, err := network.NewRequest(ctx, s.baseURL, fhttp.MethodPost, "login", map[string]string{
		"email":    email,
		"password": password,
		"source":   "cli",
	})
	if err != nil {
		return err
	}

	var resp loginResponse
	if err := network.DoJSON(s.client, req, &resp); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if resp.Data.Token == "" {
		return fmt.Errorf("login: empty token in response")
	}

	s.store.Config.Tokens.User = resp.Data.Token
	s.store.Config.User.ID = resp.Data.User.ID
	s.store.Config.User.Email = firstNonEmpty(resp.Data.User.Email, email)
	return s.store.Save()
}

// Logout forgets the stored token and user.
func (s *Session) Logout() error {
	s.store.Config.Tokens.User = ""
	s.store.Config.User = config.User{}
	return s.store.Save()
}

func (s *Session) IsLoggedIn() bool {
	return s.store.Config.Tokens.User != ""
}

func (s *Session) UserToken() (string, error) {
	if !s.IsLoggedIn() {
		return "", ErrNotLoggedIn
	}
	return s.store.Config.Tokens.User, nil
}

func (s *Session) Email() string {
	return s.store.Config.User.Email
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
