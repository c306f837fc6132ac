package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/dgallion1/mindgest/internal/mindmap"
	"github.com/dgallion1/mindgest/internal/notebook"
)

// DefaultNotebookName labels notebooks submitted without a name.
const DefaultNotebookName = "Notebook"

// maxDocuments caps the documents of a synchronous request.
const maxDocuments = 100

type generateRequest struct {
	Name      string            `json:"name"`
	Documents []notebook.Source `json:"documents"`
}

type generateResponse struct {
	Name string              `json:"name"`
	Root *mindmap.RenderNode `json:"root"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Documents) > maxDocuments {
		jsonError(w, "too many documents (max "+strconv.Itoa(maxDocuments)+")", http.StatusBadRequest)
		return
	}

	seen := make(map[string]bool, len(req.Documents))
	for i := range req.Documents {
		doc := &req.Documents[i]
		doc.ID = strings.TrimSpace(doc.ID)
		if doc.ID == "" {
			doc.ID = strconv.Itoa(i + 1)
		}
		if seen[doc.ID] {
			jsonError(w, "duplicate document id: "+doc.ID, http.StatusBadRequest)
			return
		}
		seen[doc.ID] = true
	}

	name := notebookName(req.Name)
	root := s.builder.Build(r.Context(), name, req.Documents)
	writeJSON(w, http.StatusOK, generateResponse{Name: name, Root: root})
}

type subjectRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleSubject(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)

	var req subjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"subject": mindmap.DetectSubject(req.Text)})
}

func notebookName(name string) string {
	if name = strings.TrimSpace(name); name == "" {
		return DefaultNotebookName
	}
	return name
}
