package main

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go-document-parser/document"
	"go-document-parser/metrics"
	"go-document-parser/models"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const ErrorInternal = "error:internal"
const ERR_MARSHAL = "failed to marshal response message"
const ERR_JWT_CREATION = "failed to create jwt"
const ERR_RESULT_STORE = "failed to store parse result"
const ERR_RESULT_RETRIEVAL = "failed to get parse result from storage"
const ERR_DECODE_REQUEST = "failed to decode request body"

type ServerConfig struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`
	UseTls         bool   `json:"use_tls,omitempty"`
	TlsPrivKeyPath string `json:"tls_priv_key_path,omitempty"`
	TlsCertPath    string `json:"tls_cert_path,omitempty"`
}

type ServerState struct {
	historyStorage HistoryStorage
	jwtCreator     JwtCreator
	metrics        *metrics.Metrics
}

type SpaHandler struct {
	staticPath string
	indexPath  string
}

type Server struct {
	server *http.Server
	config ServerConfig
}

func (s *Server) ListenAndServe() error {
	if s.config.UseTls {
		slog.Info("Starting server with TLS", "host", s.config.Host, "port", s.config.Port, "cert", s.config.TlsCertPath, "key", s.config.TlsPrivKeyPath)
		return s.server.ListenAndServeTLS(s.config.TlsCertPath, s.config.TlsPrivKeyPath)
	} else {
		slog.Info("Starting server without TLS", "host", s.config.Host, "port", s.config.Port)
		return s.server.ListenAndServe()
	}
}

func (s *Server) Stop() error {
	slog.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := s.server.Shutdown(ctx)
	if err != nil {
		slog.Error("Error during server shutdown", "error", err)
	} else {
		slog.Info("Server shut down successfully")
	}
	return err
}

// ServeHTTP inspects the URL path to locate a file within the static dir
// on the SPA handler. If a file is found, it will be served. If not, the
// file located at the index path on the SPA handler will be served. This
// is suitable behavior for serving an SPA (single page application).
// https://github.com/gorilla/mux?tab=readme-ov-file#serving-single-page-applications
func (h SpaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	slog.Debug("SPA handler serving request", "path", r.URL.Path)
	// Join internally call path.Clean to prevent directory traversal
	path := filepath.Join(h.staticPath, r.URL.Path)
	// check whether a file exists or is a directory at the given path
	fi, err := os.Stat(path)
	if os.IsNotExist(err) || fi.IsDir() {
		// file does not exist or path is a directory, serve index.html
		slog.Debug("Serving index.html for path", "path", r.URL.Path)
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	if err != nil {
		// if we got an error (that wasn't that the file doesn't exist) stating the
		// file, return a 500 internal server error and stop
		slog.Error("Error stating file", "path", path, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// otherwise, use http.FileServer to serve the static file
	slog.Debug("Serving static file", "path", path)
	http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
}

func NewServer(state *ServerState, config ServerConfig) (*Server, error) {
	slog.Info("Creating new server", "host", config.Host, "port", config.Port, "tls", config.UseTls)
	router := mux.NewRouter()

	router.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("Health check request received")
		err := json.NewEncoder(w).Encode(map[string]bool{"ok": true})
		if err != nil {
			slog.Error("failed to write body to http response", "error", err)
		}
	})

	router.HandleFunc("/api/parse-document", func(w http.ResponseWriter, r *http.Request) {
		handleParseDocument(state, w, r)
	})
	router.HandleFunc("/api/validate-iin", func(w http.ResponseWriter, r *http.Request) {
		handleValidateIin(state, w, r)
	})
	router.HandleFunc("/api/history/{session_id}", func(w http.ResponseWriter, r *http.Request) {
		handleHistory(state, w, r)
	}).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	slog.Debug("Registered all API routes")

	spa := SpaHandler{staticPath: "./frontend/build", indexPath: "index.html"}
	router.PathPrefix("/").Handler(spa)

	addr := fmt.Sprintf("%v:%v", config.Host, config.Port)
	srv := &http.Server{
		Handler: router,
		Addr:    addr,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	slog.Info("Server created successfully", "address", addr)
	return &Server{
		server: srv,
		config: config,
	}, nil
}

func handleParseDocument(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	if !requirePOST(w, r) {
		return
	}

	slog.Info("Received request to parse a document text")

	request, err := decodeParseRequest(r)
	if err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid request", ERR_DECODE_REQUEST, err)
		return
	}

	record := document.Parse(request.Text)
	state.metrics.IncrementParses()
	if !record.IsValid {
		state.metrics.IncrementInvalidRecords()
	}
	for _, warning := range record.Warnings {
		if warning == document.WarnNationalIdChecksum {
			state.metrics.IncrementChecksumFailures()
		}
	}

	slog.Debug("Document parsed",
		"valid", record.IsValid,
		"errors", len(record.Errors),
		"warnings", len(record.Warnings))

	sessionId := request.SessionId
	if sessionId == "" {
		sessionId = GenerateSessionId()
		if sessionId == "" {
			respondWithErr(w, http.StatusInternalServerError, ErrorInternal, "failed to generate session ID", fmt.Errorf("failed to generate session ID"))
			return
		}
	}

	response := models.ParseResponse{
		SessionId: sessionId,
		Record:    record,
	}

	// Auto-fill clients only get an attestation for records that cleared
	// the hard-error checks.
	if record.IsValid && state.jwtCreator != nil {
		jwt, err := state.jwtCreator.CreateRecordJwt(record)
		if err != nil {
			respondWithErr(w, http.StatusInternalServerError, ERR_JWT_CREATION, ERR_JWT_CREATION, err)
			return
		}
		response.Jwt = jwt
	}

	if err := storeParseResult(state.historyStorage, sessionId, response); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_RESULT_STORE, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
		return
	}

	slog.Info("Document parsed successfully", "session_id", sessionId, "valid", record.IsValid)
}

func handleValidateIin(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	if !requirePOST(w, r) {
		return
	}

	slog.Debug("Received request to validate an IIN")

	var request models.ValidateIdRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid request", ERR_DECODE_REQUEST, err)
		return
	}

	response := models.ValidateIdResponse{
		Valid: document.ValidateIIN(request.Iin),
	}
	if info, ok := document.DeriveBirthInfo(request.Iin); ok {
		response.BirthDate = info.BirthDate
		response.GenderCode = info.GenderCode
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
		return
	}
}

func handleHistory(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	sessionId := mux.Vars(r)["session_id"]
	slog.Debug("Received request for a stored parse result", "session_id", sessionId)

	payload, err := state.historyStorage.RetrieveResult(sessionId)
	if err != nil {
		respondWithErr(w, http.StatusNotFound, "result not found", ERR_RESULT_RETRIEVAL, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write([]byte(payload)); err != nil {
		slog.Error("failed to write body to http response", "error", err)
	}
}

// -----------------------------------------------------------------------------------

// storeParseResult keeps the serialized response so clients can re-fetch
// the last result for their session.
func storeParseResult(storage HistoryStorage, sessionId string, response models.ParseResponse) error {
	payload, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("marshal parse result: %w", err)
	}
	return storage.StoreResult(sessionId, string(payload))
}

// decodeParseRequest decodes the request body
func decodeParseRequest(r *http.Request) (models.ParseRequest, error) {
	slog.Debug("Decoding parse request body")
	var request models.ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		slog.Warn("Failed to decode parse request", "error", err)
		return request, fmt.Errorf("decode request body: %w", err)
	}
	slog.Debug("Parse request decoded successfully", "session_id", request.SessionId)
	return request, nil
}

func GenerateSessionId() string {
	sessionId := make([]byte, 16)
	if _, err := rand.Read(sessionId); err != nil {
		slog.Error("failed to generate session ID", "error", err)
		return ""
	}
	hexId := fmt.Sprintf("%x", sessionId)
	slog.Debug("Session ID generated successfully", "session_id", hexId)
	return hexId
}

func respondWithErr(w http.ResponseWriter, code int, responseBody string, logMsg string, e error) {
	slog.Error(logMsg, "error", e, "status_code", code, "response_body", responseBody)
	w.WriteHeader(code)
	if _, err := w.Write([]byte(responseBody)); err != nil {
		slog.Error("failed to write body to http response", "error", err)
	}
}

// helpers ------------

func closeRequestBody(r *http.Request) {
	if err := r.Body.Close(); err != nil {
		slog.Error("failed to close request body", "error", err)
	}

}

func requirePOST(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		slog.Debug("Non-POST request rejected", "method", r.Method, "path", r.URL.Path)
		respondWithErr(w, http.StatusMethodNotAllowed, "method not allowed", "invalid method", nil)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	slog.Debug("Writing JSON response", "status_code", status)
	payload, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to marshal JSON payload", "error", err)
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(payload)
	if err != nil {
		slog.Error("failed to write body to http response", "error", err)
	} else {
		slog.Debug("JSON response written successfully", "status_code", status, "payload_size", len(payload))
	}
	return nil
}
