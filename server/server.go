package server

import (
	"embed"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
)

//go:embed static/index.html
var static embed.FS

// Translator is the part of driver.Translator the server uses.
type Translator interface {
	Translate(source string) (string, error)
}

type translateRequest struct {
	Code string `json:"code"`
}

// New returns the HTTP interface of the translator.
//
//	GET  /          the translation page
//	GET  /health    {"status": "ok"}
//	POST /translate {"code": "..."} -> {"julia": "..."} or 400 {"error": "..."}
func New(t Translator) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, static, "static/index.html")
	})

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /translate", func(w http.ResponseWriter, r *http.Request) {
		var req translateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, fmt.Errorf("invalid request: %w", err))
			return
		}

		julia, err := t.Translate(req.Code)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"julia": julia})
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}
