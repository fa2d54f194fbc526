package main

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"go-document-parser/models"

	"github.com/stretchr/testify/require"
)

const testDocumentText = `REPUBLIC OF KAZAKHSTAN
PASSPORT
NURLANOV
ASKAR
N12936483
850115301003
15.01.1992 16.02.2010 14.01.2030`

func TestParseDocument_Success(t *testing.T) {
	storage := NewInMemoryHistoryStorage()
	startTestServer(t, storage)

	req := models.ParseRequest{Text: testDocumentText}
	resp, body, parsed := postJSON[models.ParseResponse](t, "http://localhost:8081/api/parse-document", req)
	mustStatus(t, resp, http.StatusOK, body)

	require.Len(t, parsed.SessionId, 32)
	require.True(t, parsed.Record.IsValid)
	require.Empty(t, parsed.Record.Errors)
	require.Equal(t, "N12936483", parsed.Record.DocumentNumber)
	require.Equal(t, "NURLANOV", parsed.Record.Surname)
	require.Equal(t, "ASKAR", parsed.Record.GivenName)
	require.Equal(t, "850115301003", parsed.Record.NationalId)
	require.Equal(t, "test-jwt", parsed.Jwt)

	stored, err := storage.RetrieveResult(parsed.SessionId)
	require.NoError(t, err)
	require.Contains(t, stored, "N12936483")
}

func TestParseDocument_KeepsProvidedSessionId(t *testing.T) {
	storage := NewInMemoryHistoryStorage()
	startTestServer(t, storage)

	req := models.ParseRequest{SessionId: "my-session", Text: testDocumentText}
	resp, body, parsed := postJSON[models.ParseResponse](t, "http://localhost:8081/api/parse-document", req)
	mustStatus(t, resp, http.StatusOK, body)

	require.Equal(t, "my-session", parsed.SessionId)

	_, err := storage.RetrieveResult("my-session")
	require.NoError(t, err)
}

func TestParseDocument_InvalidDocumentStillReturnsRecord(t *testing.T) {
	storage := NewInMemoryHistoryStorage()
	startTestServer(t, storage)

	req := models.ParseRequest{Text: "nothing useful in here"}
	resp, body, parsed := postJSON[models.ParseResponse](t, "http://localhost:8081/api/parse-document", req)
	mustStatus(t, resp, http.StatusOK, body)

	require.False(t, parsed.Record.IsValid)
	require.NotEmpty(t, parsed.Record.Errors)
	require.Empty(t, parsed.Jwt)
}

func TestParseDocument_RejectsGet(t *testing.T) {
	storage := NewInMemoryHistoryStorage()
	startTestServer(t, storage)

	resp, err := http.Get("http://localhost:8081/api/parse-document")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestParseDocument_BadRequestBody(t *testing.T) {
	storage := NewInMemoryHistoryStorage()
	startTestServer(t, storage)

	resp, err := http.Post("http://localhost:8081/api/parse-document", "application/json", strings.NewReader("not json"))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestValidateIin(t *testing.T) {
	storage := NewInMemoryHistoryStorage()
	startTestServer(t, storage)

	t.Run("valid iin", func(t *testing.T) {
		req := models.ValidateIdRequest{Iin: "850115301003"}
		resp, body, validated := postJSON[models.ValidateIdResponse](t, "http://localhost:8081/api/validate-iin", req)
		mustStatus(t, resp, http.StatusOK, body)

		require.True(t, validated.Valid)
		require.Equal(t, "15.01.1985", validated.BirthDate)
		require.Equal(t, "1", validated.GenderCode)
	})

	t.Run("checksum mismatch", func(t *testing.T) {
		req := models.ValidateIdRequest{Iin: "850115301004"}
		resp, body, validated := postJSON[models.ValidateIdResponse](t, "http://localhost:8081/api/validate-iin", req)
		mustStatus(t, resp, http.StatusOK, body)

		require.False(t, validated.Valid)
	})

	t.Run("malformed iin", func(t *testing.T) {
		req := models.ValidateIdRequest{Iin: "not-an-iin"}
		resp, body, validated := postJSON[models.ValidateIdResponse](t, "http://localhost:8081/api/validate-iin", req)
		mustStatus(t, resp, http.StatusOK, body)

		require.False(t, validated.Valid)
		require.Empty(t, validated.BirthDate)
	})
}

func TestHistory(t *testing.T) {
	storage := NewInMemoryHistoryStorage()
	startTestServer(t, storage)

	t.Run("returns stored result", func(t *testing.T) {
		require.NoError(t, storage.StoreResult("known-session", `{"session_id":"known-session"}`))

		resp, err := http.Get("http://localhost:8081/api/history/known-session")
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.JSONEq(t, `{"session_id":"known-session"}`, string(body))
	})

	t.Run("unknown session", func(t *testing.T) {
		resp, err := http.Get("http://localhost:8081/api/history/unknown-session")
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestHealth(t *testing.T) {
	storage := NewInMemoryHistoryStorage()
	startTestServer(t, storage)

	resp, err := http.Get("http://localhost:8081/api/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.JSONEq(t, `{"ok":true}`, string(body))
}
