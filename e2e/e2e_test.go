package e2e_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/todovault/todovault"
	"github.com/todovault/todovault/clientcli"
	"github.com/todovault/todovault/database/sqlite"
	todohttp "github.com/todovault/todovault/http"
)

// fakeLinkIssuer stands in for the object store signer so the full stack can
// run without cloud credentials.
type fakeLinkIssuer struct {
	mu     sync.Mutex
	signed []string
}

func (f *fakeLinkIssuer) UploadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	f.record(key)
	return "https://bucket.test/upload/" + key + "?sig=u", nil
}

func (f *fakeLinkIssuer) DownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	f.record(key)
	return "https://bucket.test/download/" + key + "?sig=d", nil
}

func (f *fakeLinkIssuer) record(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signed = append(f.signed, key)
}

// startServer wires a full in-process server: sqlite store, RS256 token
// verification, and the real router.
func startServer(t *testing.T) (baseURL string, signingKey *rsa.PrivateKey, links *fakeLinkIssuer) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "e2e.db")
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tables := todovault.Tables{Todos: "todos"}
	require.NoError(t, sqlite.Migrate(context.Background(), db, tables))

	repo, err := sqlite.NewRepo(db, tables)
	require.NoError(t, err)

	links = &fakeLinkIssuer{}
	service, err := todovault.NewTodoService(repo, links, todovault.ServiceConfig{
		AttachmentBaseURL: "https://bucket.test",
	})
	require.NoError(t, err)

	signingKey, err = rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	verifier, err := todovault.NewTokenVerifier(&signingKey.PublicKey, time.Minute)
	require.NoError(t, err)

	handler := todohttp.NewHandler(&todohttp.HandlerConfig{Authorizer: verifier}, service)
	server := httptest.NewServer(handler.Router())
	t.Cleanup(server.Close)

	return server.URL, signingKey, links
}

func issueToken(t *testing.T, key *rsa.PrivateKey, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func newClient(t *testing.T, baseURL, token string) *clientcli.Client {
	t.Helper()
	client, err := clientcli.New(&clientcli.Config{Endpoint: baseURL, Token: token})
	require.NoError(t, err)
	return client
}

// TestE2E_TodoLifecycle runs the full create/list/update/delete flow through
// the HTTP client against a real server.
func TestE2E_TodoLifecycle(t *testing.T) {
	baseURL, key, _ := startServer(t)
	client := newClient(t, baseURL, issueToken(t, key, "user-1"))
	ctx := context.Background()

	var todoID string

	t.Run("create returns populated todo", func(t *testing.T) {
		todo, err := client.Create(ctx, clientcli.CreateTodoInput{
			Name:    "buy milk",
			DueDate: "2026-09-01",
		})
		require.NoError(t, err)

		assert.True(t, todovault.IsValidTodoID(todo.TodoID))
		assert.Equal(t, "buy milk", todo.Name)
		assert.Equal(t, "2026-09-01", todo.DueDate)
		assert.False(t, todo.Done)
		assert.Equal(t, "https://bucket.test/"+todo.TodoID+".png", todo.AttachmentURL)

		todoID = todo.TodoID
	})

	t.Run("list returns the created todo", func(t *testing.T) {
		todos, err := client.List(ctx)
		require.NoError(t, err)
		require.Len(t, todos, 1)
		assert.Equal(t, todoID, todos[0].TodoID)
	})

	t.Run("update flips done", func(t *testing.T) {
		err := client.Update(ctx, todoID, clientcli.UpdateTodoInput{
			Name:    "buy oat milk",
			DueDate: "2026-09-02",
			Done:    true,
		})
		require.NoError(t, err)

		todos, err := client.List(ctx)
		require.NoError(t, err)
		require.Len(t, todos, 1)
		assert.Equal(t, "buy oat milk", todos[0].Name)
		assert.Equal(t, "2026-09-02", todos[0].DueDate)
		assert.True(t, todos[0].Done)
	})

	t.Run("delete removes the todo", func(t *testing.T) {
		require.NoError(t, client.Delete(ctx, todoID))

		todos, err := client.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, todos)
	})

	t.Run("delete again returns not found", func(t *testing.T) {
		err := client.Delete(ctx, todoID)
		assert.ErrorIs(t, err, clientcli.ErrNotFound)
	})
}

// TestE2E_OwnerIsolation verifies todos are scoped to the token subject.
func TestE2E_OwnerIsolation(t *testing.T) {
	baseURL, key, _ := startServer(t)
	ctx := context.Background()

	alice := newClient(t, baseURL, issueToken(t, key, "alice"))
	bob := newClient(t, baseURL, issueToken(t, key, "bob"))

	_, err := alice.Create(ctx, clientcli.CreateTodoInput{Name: "alice's todo"})
	require.NoError(t, err)

	aliceTodos, err := alice.List(ctx)
	require.NoError(t, err)
	assert.Len(t, aliceTodos, 1)

	bobTodos, err := bob.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, bobTodos)
}

// TestE2E_Attachment verifies the attachment link flow persists the download
// URL on the record.
func TestE2E_Attachment(t *testing.T) {
	baseURL, key, links := startServer(t)
	client := newClient(t, baseURL, issueToken(t, key, "user-1"))
	ctx := context.Background()

	todo, err := client.Create(ctx, clientcli.CreateTodoInput{Name: "with attachment"})
	require.NoError(t, err)

	link, err := client.AttachmentLink(ctx, todo.TodoID)
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.test/upload/"+todo.TodoID+".png?sig=u", link.UploadURL)
	assert.Equal(t, []string{todo.TodoID + ".png", todo.TodoID + ".png"}, links.signed)

	todos, err := client.List(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "https://bucket.test/download/"+todo.TodoID+".png?sig=d", todos[0].AttachmentURL)

	t.Run("unknown todo returns not found", func(t *testing.T) {
		_, err := client.AttachmentLink(ctx, "2c3f8f6a-9a44-4b21-9d19-0f0a5e2a9b10")
		assert.ErrorIs(t, err, clientcli.ErrNotFound)
	})
}

// TestE2E_Auth verifies the uniform unauthorized behavior at the edge.
func TestE2E_Auth(t *testing.T) {
	baseURL, key, _ := startServer(t)
	ctx := context.Background()

	t.Run("missing token", func(t *testing.T) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/todos", http.NoBody)
		require.NoError(t, err)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		client := newClient(t, baseURL, "garbage")
		_, err := client.List(ctx)
		assert.ErrorIs(t, err, clientcli.ErrUnauthorized)
	})

	t.Run("token signed by another key", func(t *testing.T) {
		otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)

		client := newClient(t, baseURL, issueToken(t, otherKey, "user-1"))
		_, err = client.List(ctx)
		assert.ErrorIs(t, err, clientcli.ErrUnauthorized)
	})

	t.Run("expired token", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		})
		signed, err := token.SignedString(key)
		require.NoError(t, err)

		client := newClient(t, baseURL, signed)
		_, err = client.List(ctx)
		assert.ErrorIs(t, err, clientcli.ErrUnauthorized)
	})
}

// TestE2E_UploadAttachment drives the client's two-step upload against a stub
// object store.
func TestE2E_UploadAttachment(t *testing.T) {
	var uploadedBody []byte
	objectStore := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		body, readErr := io.ReadAll(r.Body)
		if readErr != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		uploadedBody = body
		w.WriteHeader(http.StatusOK)
	}))
	defer objectStore.Close()

	dbPath := filepath.Join(t.TempDir(), "e2e.db")
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	tables := todovault.Tables{Todos: "todos"}
	require.NoError(t, sqlite.Migrate(context.Background(), db, tables))
	repo, err := sqlite.NewRepo(db, tables)
	require.NoError(t, err)

	// The issuer points uploads at the stub store instead of a bucket.
	links := &redirectingLinkIssuer{base: objectStore.URL}
	service, err := todovault.NewTodoService(repo, links, todovault.ServiceConfig{
		AttachmentBaseURL: objectStore.URL,
	})
	require.NoError(t, err)

	signingKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	verifier, err := todovault.NewTokenVerifier(&signingKey.PublicKey, time.Minute)
	require.NoError(t, err)

	handler := todohttp.NewHandler(&todohttp.HandlerConfig{Authorizer: verifier}, service)
	server := httptest.NewServer(handler.Router())
	defer server.Close()

	client := newClient(t, server.URL, issueToken(t, signingKey, "user-1"))
	ctx := context.Background()

	todo, err := client.Create(ctx, clientcli.CreateTodoInput{Name: "upload target"})
	require.NoError(t, err)

	localPath := filepath.Join(t.TempDir(), "photo.png")
	require.NoError(t, os.WriteFile(localPath, []byte("image bytes"), 0o600))

	result, err := client.UploadAttachment(ctx, todo.TodoID, localPath)
	require.NoError(t, err)
	assert.Equal(t, int64(len("image bytes")), result.Size)
	assert.Equal(t, "image bytes", string(uploadedBody))
}

type redirectingLinkIssuer struct {
	base string
}

func (r *redirectingLinkIssuer) UploadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return r.base + "/" + key, nil
}

func (r *redirectingLinkIssuer) DownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return r.base + "/" + key, nil
}
