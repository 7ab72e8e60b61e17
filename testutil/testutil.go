// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/cliparse"
	"github.com/danielhkuo/livepoll/db"
	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/store"
)

// TestJWTSecret signs every token minted by the helpers below
const TestJWTSecret = "test-jwt-secret"

// SetupTestDB creates a fresh SQLite database with the full schema.
// Each test gets its own file, removed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	url := "file:" + filepath.Join(t.TempDir(), "test.db") +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	conn, err := db.Open(db.TypeSQLite, url)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseType: db.TypeSQLite,
		JWTSecret:    TestJWTSecret,
		SendBuffer:   16,
	}
}

// CreateTestPoll creates a poll owned by ownerID with the given option texts
func CreateTestPoll(t *testing.T, conn *sql.DB, ownerID string, published bool, options ...string) models.PollWithOptions {
	t.Helper()

	if len(options) == 0 {
		options = []string{"A", "B", "C"}
	}

	poll, err := store.New(conn).CreatePoll(context.Background(), ownerID, "Test Poll", options, published)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	return poll
}

// CastTestVote inserts a vote directly, bypassing admission
func CastTestVote(t *testing.T, conn *sql.DB, voterID, optionID string) models.Vote {
	t.Helper()

	vote, err := store.New(conn).InsertVote(context.Background(), voterID, optionID)
	if err != nil {
		t.Fatalf("Failed to cast test vote: %v", err)
	}

	return vote
}

// TestToken mints a bearer token for userID
func TestToken(t *testing.T, userID string) string {
	t.Helper()

	token, err := auth.IssueToken(userID, TestJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to mint test token: %v", err)
	}

	return token
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AsUser attaches an authenticated user ID to the request, as RequireIdentity would
func AsUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.WithVoterID(req.Context(), userID))
}

// AuthHeader returns the Authorization header for userID
func AuthHeader(t *testing.T, userID string) map[string]string {
	t.Helper()
	return map[string]string{"Authorization": "Bearer " + TestToken(t, userID)}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
