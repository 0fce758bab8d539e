package server

import (
	_ "embed"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"papersum/internal/acquire"
	"papersum/internal/domain"
	"papersum/internal/summarizer"
	"strings"
)

const (
	javaScriptHint     = "For JavaScript-rendered pages, please download as PDF and upload."
	missingCredential  = "OPENAI_API_KEY is not configured."
	multipartMemoryMax = 8 << 20
)

//go:embed web/index.html
var indexHTML []byte

type urlRequest struct {
	URL string `json:"url"`
}

type failureReport struct {
	Strategy string `json:"strategy"`
	Error    string `json:"error"`
}

type errorResponse struct {
	Error    string          `json:"error"`
	Hint     string          `json:"hint,omitempty"`
	Failures []failureReport `json:"failures,omitempty"`
	Source   string          `json:"source,omitempty"`
	Pages    int             `json:"pages,omitempty"`
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSummarizeURL(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	// Free text is accepted; anything without a URL fails acquisition below.
	target := strings.TrimSpace(req.URL)
	if found, err := acquire.ExtractURL(target); err == nil {
		target = found
	}

	doc, err := s.acquirer.AcquireURL(r.Context(), target)
	if err != nil {
		s.respondAcquisitionError(w, err, javaScriptHint)
		return
	}

	s.summarize(w, r, doc)
}

func (s *Server) handleSummarizePDF(w http.ResponseWriter, r *http.Request) {
	if s.opts.UploadMaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.opts.UploadMaxBytes)
	}

	if err := r.ParseMultipartForm(multipartMemoryMax); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			s.respondError(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "PDF file is too large"})
			return
		}

		s.respondError(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart form"})
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			s.log.ErrorContext(r.Context(), "Failed to remove multipart files",
				"error", err)
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, errorResponse{Error: "missing form field \"file\""})
		return
	}
	defer func() {
		if err = file.Close(); err != nil {
			s.log.ErrorContext(r.Context(), "Failed to close uploaded file",
				"error", err)
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, errorResponse{Error: "failed to read uploaded file"})
		return
	}

	doc, err := s.acquirer.AcquireFile(r.Context(), header.Filename, data)
	if err != nil {
		s.respondAcquisitionError(w, err, "")
		return
	}

	s.summarize(w, r, doc)
}

func (s *Server) summarize(w http.ResponseWriter, r *http.Request, doc domain.Document) {
	set, err := s.orchestrator.SummarizeAll(r.Context(), doc)
	if err != nil {
		resp := errorResponse{
			Error:  err.Error(),
			Source: doc.Source(),
			Pages:  pageCount(doc),
		}

		var cfgErr *summarizer.ConfigurationError
		if errors.As(err, &cfgErr) {
			if errors.Is(err, summarizer.ErrMissingCredential) {
				resp.Error = missingCredential
			}
			s.respondError(w, http.StatusServiceUnavailable, resp)
			return
		}

		s.log.ErrorContext(r.Context(), "Failed to summarize document",
			"error", err,
			"source", doc.Source())
		s.respondError(w, http.StatusInternalServerError, resp)
		return
	}

	s.respondJSON(w, http.StatusOK, NewReport(doc, set))
}

func (s *Server) respondAcquisitionError(w http.ResponseWriter, err error, hint string) {
	resp := errorResponse{
		Error: "Failed to load document:\n" + err.Error(),
		Hint:  hint,
	}

	var acqErr *acquire.AcquisitionError
	if errors.As(err, &acqErr) {
		resp.Source = acqErr.Source
		for _, f := range acqErr.Failures {
			resp.Failures = append(resp.Failures, failureReport{Strategy: f.Strategy, Error: f.Err.Error()})
		}
	}

	s.respondError(w, http.StatusUnprocessableEntity, resp)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, resp errorResponse) {
	s.respondJSON(w, status, resp)
}
