package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/login/", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body["username"])

		json.NewEncoder(w).Encode(map[string]any{
			"token": "abc123",
			"user":  map[string]string{"username": "alice", "email": "alice@acme.test"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	sess, err := c.Login(context.Background(), "alice", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "abc123", sess.Token)
	assert.Equal(t, "alice", sess.User.Username)
	assert.Equal(t, "abc123", c.Token())
}

func TestLoginRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Empty(t, c.Token())
}

func TestAuthorizationHeader(t *testing.T) {
	var header string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"resultData": nil})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("abc123")
	_, err := c.Records(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Token abc123", header)
}

func TestLogoutClearsTokenEvenOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("abc123")
	err := c.Logout(context.Background())
	require.Error(t, err)
	assert.Empty(t, c.Token())
}

func TestUploadParsesAnalysis(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/upload/", r.URL.Path)
		file, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "equipment.csv", hdr.Filename)

		json.NewEncoder(w).Encode(map[string]any{
			"total_count": 3,
			"averages":    map[string]float64{"flowrate": 20, "pressure": 2, "temperature": 200},
			"distribution": map[string]any{
				"labels": []string{"Pump", "Valve"},
				"values": []int{2, 1},
			},
			"created_at": "2026-09-01T10:30:00Z",
			"message":    "Analysis Complete",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	res, err := c.Upload(context.Background(), "equipment.csv", strings.NewReader("flowrate,...\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalCount)
	assert.Equal(t, 20.0, res.Averages.Flowrate)
	assert.Equal(t, []string{"Pump", "Valve"}, res.Distribution.Labels)
	assert.Equal(t, "2026-09-01T10:30:00Z", res.CreatedAt)
}

func TestRecordsNullBecomesEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"resultData": nil})
	}))
	defer srv.Close()

	c := New(srv.URL)
	records, err := c.Records(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestDownloadReturnsRawBytes(t *testing.T) {
	pdf := []byte("%PDF-1.4 fake")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/download/", r.URL.Path)

		var body DownloadRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "2026-09-01T10:30:00Z", body.CreatedAt)

		w.Header().Set("Content-Type", "application/pdf")
		w.Write(pdf)
	}))
	defer srv.Close()

	c := New(srv.URL)
	got, err := c.Download(context.Background(), DownloadRequest{CreatedAt: "2026-09-01T10:30:00Z"})
	require.NoError(t, err)
	assert.Equal(t, pdf, got)
}

func TestAPIErrorCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "No file provided"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Upload(context.Background(), "x.csv", strings.NewReader("x"))
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "No file provided", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "No file provided")
}

func TestSignupFieldErrorsSurface(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string][]string{"username": {"This field is required."}})
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.Signup(context.Background(), SignupRequest{})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "username")
}

func TestBaseURLTrailingSlashTrimmed(t *testing.T) {
	c := New("http://example.test:8000/")
	assert.Equal(t, "http://example.test:8000", c.BaseURL)
}
