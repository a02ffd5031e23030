// Package genaitest provides an in-process stand-in for the GenAI REST API.
package genaitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// Reply is what the fake answers to one generateContent call. A zero Status
// means 200 with Text as the only candidate part.
type Reply struct {
	Status    int
	APIStatus string
	Message   string
	Text      string
}

// Overloaded is the reply the real API gives when a model is saturated.
var Overloaded = Reply{Status: http.StatusServiceUnavailable, APIStatus: "UNAVAILABLE", Message: "The model is overloaded. Please try again later."}

// Text answers with text.
func Text(s string) Reply { return Reply{Text: s} }

// Call records one generateContent request.
type Call struct {
	Model   string
	Prompt  string
	FileURI string
}

// Server fakes the Files upload and generateContent endpoints.
type Server struct {
	*httptest.Server

	reply func(model, prompt string) Reply

	mu      sync.Mutex
	calls   []Call
	uploads int
}

// NewServer starts a fake answering every generation with reply.
func NewServer(reply func(model, prompt string) Reply) *Server {
	s := &Server{reply: reply}
	mux := http.NewServeMux()
	mux.HandleFunc("/upload/v1beta/files", s.startUpload)
	mux.HandleFunc("/upload/session", s.finishUpload)
	mux.HandleFunc("/v1beta/models/", s.generate)
	s.Server = httptest.NewServer(mux)
	return s
}

// Calls returns a copy of the generation requests seen so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Uploads reports how many files were uploaded.
func (s *Server) Uploads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploads
}

func (s *Server) startUpload(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Goog-Upload-URL", s.URL+"/upload/session")
	w.WriteHeader(http.StatusOK)
}

func (s *Server) finishUpload(w http.ResponseWriter, r *http.Request) {
	_, _ = io.Copy(io.Discard, r.Body)
	s.mu.Lock()
	s.uploads++
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"file": map[string]string{
		"name":     "files/fake",
		"uri":      s.URL + "/files/fake",
		"mimeType": r.Header.Get("Content-Type"),
	}})
}

type generateBody struct {
	Contents []struct {
		Parts []struct {
			Text     string `json:"text"`
			FileData *struct {
				FileURI string `json:"fileUri"`
			} `json:"fileData"`
		} `json:"parts"`
	} `json:"contents"`
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	model := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v1beta/models/"), ":generateContent")
	var body generateBody
	_ = json.NewDecoder(r.Body).Decode(&body)
	c := Call{Model: model}
	for _, ct := range body.Contents {
		for _, p := range ct.Parts {
			if p.FileData != nil {
				c.FileURI = p.FileData.FileURI
			}
			c.Prompt += p.Text
		}
	}
	s.mu.Lock()
	s.calls = append(s.calls, c)
	s.mu.Unlock()

	rep := s.reply(c.Model, c.Prompt)
	w.Header().Set("Content-Type", "application/json")
	if rep.Status != 0 && rep.Status != http.StatusOK {
		w.WriteHeader(rep.Status)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{
			"code": rep.Status, "message": rep.Message, "status": rep.APIStatus,
		}})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{
		map[string]any{"content": map[string]any{"role": "model", "parts": []any{map[string]string{"text": rep.Text}}}},
	}})
}
