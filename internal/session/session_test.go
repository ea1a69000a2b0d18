package session_test

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kboard/internal/service"
	"kboard/internal/session"
	"kboard/internal/testutil"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	fs := session.FileStore{Path: path}

	tok, err := fs.Load()
	require.NoError(t, err)
	assert.Empty(t, tok, "missing file loads as no token")

	require.NoError(t, fs.Save("abc"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	tok, err = fs.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	require.NoError(t, fs.Clear())
	require.NoError(t, fs.Clear(), "clearing an empty slot is not an error")
	tok, _ = fs.Load()
	assert.Empty(t, tok)
}

func TestSession_OpenRestoresToken(t *testing.T) {
	sess, err := session.Open(session.NewMemoryStore("stored"), nil)
	require.NoError(t, err)

	assert.True(t, sess.IsAuthenticated())
	tok, err := sess.Token()
	require.NoError(t, err)
	assert.Equal(t, "stored", tok.AccessToken)
	assert.Equal(t, "Bearer", tok.TokenType)

	_, known := sess.User()
	assert.False(t, known, "a restored session has no user")
}

func TestSession_TokenWhenLoggedOut(t *testing.T) {
	sess, err := session.Open(session.NewMemoryStore(""), nil)
	require.NoError(t, err)

	_, err = sess.Token()
	assert.ErrorIs(t, err, session.ErrNotLoggedIn)
}

func TestSession_Authenticate(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("u1", "Ada", "ada@example.com", "pw")
	store := session.NewMemoryStore("")
	sess, err := session.Open(store, nil)
	require.NoError(t, err)

	err = sess.Authenticate(context.Background(), svc, service.Credentials{Email: "ada@example.com", Password: "pw"})

	require.NoError(t, err)
	assert.False(t, sess.Loading())
	assert.Empty(t, sess.Err())
	u, known := sess.User()
	require.True(t, known)
	assert.Equal(t, "Ada", u.Name)
	saved, _ := store.Load()
	assert.Equal(t, "token-u1", saved)
}

func TestSession_AuthenticateRejected(t *testing.T) {
	svc := testutil.NewFakeService()
	sess, err := session.Open(session.NewMemoryStore(""), nil)
	require.NoError(t, err)

	err = sess.Authenticate(context.Background(), svc, service.Credentials{Email: "x@example.com", Password: "pw"})

	require.Error(t, err)
	assert.True(t, service.IsAuthError(err))
	assert.Equal(t, "Invalid email or password", sess.Err())
	assert.False(t, sess.IsAuthenticated())
}

func TestSession_RegisterFallbackMessage(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.Errs["Register"] = service.Rejected(http.StatusInternalServerError, "")
	sess, err := session.Open(session.NewMemoryStore(""), nil)
	require.NoError(t, err)

	err = sess.Register(context.Background(), svc, service.Registration{Name: "Ada", Email: "ada@example.com", Password: "pw"})

	require.Error(t, err)
	assert.Equal(t, "Registration failed", sess.Err())

	sess.ClearError()
	assert.Empty(t, sess.Err())
}

// emptyTokenAuth answers login with success but no token.
type emptyTokenAuth struct{}

func (emptyTokenAuth) Login(context.Context, service.Credentials) (service.AuthResult, error) {
	return service.AuthResult{User: service.User{ID: "u1"}}, nil
}

func (emptyTokenAuth) Register(context.Context, service.Registration) (service.AuthResult, error) {
	return service.AuthResult{}, nil
}

func TestSession_AuthenticateWithoutToken(t *testing.T) {
	sess, err := session.Open(session.NewMemoryStore(""), nil)
	require.NoError(t, err)

	err = sess.Authenticate(context.Background(), emptyTokenAuth{}, service.Credentials{Email: "a", Password: "b"})

	require.Error(t, err)
	assert.Equal(t, "Login failed", sess.Err())
	assert.False(t, sess.IsAuthenticated())
}

func TestSession_SaveFailure(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("u1", "Ada", "ada@example.com", "pw")
	store := session.NewMemoryStore("")
	store.SaveErr = errors.New("disk full")
	sess, err := session.Open(store, nil)
	require.NoError(t, err)

	err = sess.Authenticate(context.Background(), svc, service.Credentials{Email: "ada@example.com", Password: "pw"})

	require.Error(t, err)
	assert.Equal(t, service.MsgRequest, sess.Err())
	assert.False(t, sess.IsAuthenticated(), "token is only held once persisted")
}

func TestSession_End(t *testing.T) {
	store := session.NewMemoryStore("stored")
	sess, err := session.Open(store, nil)
	require.NoError(t, err)

	require.NoError(t, sess.End())

	assert.False(t, sess.IsAuthenticated())
	saved, _ := store.Load()
	assert.Empty(t, saved)
}

func TestSession_Claims(t *testing.T) {
	token := testutil.SignToken([]byte("secret"), "u1", time.Hour)
	sess, err := session.Open(session.NewMemoryStore(token), nil)
	require.NoError(t, err)

	claims, err := sess.Claims()

	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)
	assert.False(t, claims.Expired(time.Now()))
	assert.True(t, claims.Expired(time.Now().Add(2*time.Hour)))
}

func TestSession_ClaimsOpaqueToken(t *testing.T) {
	sess, err := session.Open(session.NewMemoryStore("opaque"), nil)
	require.NoError(t, err)

	_, err = sess.Claims()
	assert.Error(t, err)

	sess, _ = session.Open(session.NewMemoryStore(""), nil)
	_, err = sess.Claims()
	assert.ErrorIs(t, err, session.ErrNotLoggedIn)
}

func TestClaims_NoExpiryNeverExpires(t *testing.T) {
	assert.False(t, session.Claims{Subject: "u1"}.Expired(time.Now()))
}
