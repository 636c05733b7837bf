package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJJimenez/ionctl/internal/config"
	"github.com/MrJJimenez/ionctl/internal/network"
)

type stubDoer struct {
	status int
	body   string
	got    map[string]string
	path   string
}

func (s *stubDoer) Do(req *fhttp.Request) (*fhttp.Response, error) {
	s.path = req.URL.Path
	if req.Body != nil {
		_ = json.NewDecoder(req.Body).Decode(&s.got)
	}
	return &fhttp.Response{
		StatusCode: s.status,
		Body:       io.NopCloser(strings.NewReader(s.body)),
		Header:     fhttp.Header{},
	}, nil
}

func newStore(t *testing.T) *config.Store {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.URLs.API = "https://api.example.com"
	return &config.Store{Path: filepath.Join(t.TempDir(), config.ConfigFileName), Config: cfg}
}

func TestLoginStoresToken(t *testing.T) {
	store := newStore(t)
	doer := &stubDoer{status: 200, body: `{"data":{"token":"tok","user":{"id":"u1","email":"dev@example.com"}}}`}
	s := New(store, doer)

	require.NoError(t, s.Login(context.Background(), "dev@example.com", "secret"))

	assert.Equal(t, "/login", doer.path)
	assert.Equal(t, "dev@example.com", doer.got["email"])
	assert.Equal(t, "cli", doer.got["source"])
	assert.True(t, s.IsLoggedIn())
	token, err := s.UserToken()
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	reloaded, err := config.Load(store.Path)
	require.NoError(t, err)
	assert.Equal(t, "u1", reloaded.User.ID)
}

func TestLoginFailure(t *testing.T) {
	store := newStore(t)
	s := New(store, &stubDoer{status: 401, body: "bad credentials"})

	err := s.Login(context.Background(), "dev@example.com", "wrong")
	assert.True(t, errors.Is(err, network.ErrRequestFailed))
	assert.False(t, s.IsLoggedIn())
}

func TestLogout(t *testing.T) {
	store := newStore(t)
	store.Config.Tokens.User = "tok"
	store.Config.User.Email = "dev@example.com"
	s := New(store, &stubDoer{})

	require.NoError(t, s.Logout())
	_, err := s.UserToken()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Empty(t, s.Email())
}

func TestLoginRequiresCredentials(t *testing.T) {
	s := New(newStore(t), &stubDoer{})
	assert.Error(t, s.Login(context.Background(), " ", "pw"))
}
