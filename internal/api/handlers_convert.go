package api

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/dgallion1/md2json/internal/convert"
	"github.com/go-chi/chi/v5/middleware"
)

// handleConvert accepts a Markdown document either as the raw request body
// or as the "file" field of a multipart form and responds with its tree.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	opts := convert.DefaultOptions()
	opts.Logger = s.log.With("request_id", middleware.GetReqID(r.Context()))

	if v := r.URL.Query().Get("escape"); v != "" {
		escape, err := strconv.ParseBool(v)
		if err != nil {
			jsonError(w, "escape must be a boolean", http.StatusBadRequest)
			return
		}
		opts.Escape = escape
	}

	data, status, err := s.readDocument(w, r)
	if err != nil {
		jsonError(w, err.Error(), status)
		return
	}

	tree, err := convert.Convert(data, opts)
	if err != nil {
		opts.Logger.Error("conversion failed", "error", err)
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := convert.Encode(w, tree); err != nil {
		opts.Logger.Error("encode response", "error", err)
	}
}

func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) ([]byte, int, error) {
	limit := s.cfg.MaxUploadBytes
	body := io.Reader(r.Body)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, limit+1024*1024) // extra 1MB for form overhead
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return nil, http.StatusBadRequest, fmt.Errorf("invalid multipart form: %v", err)
		}
		defer r.MultipartForm.RemoveAll()

		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, http.StatusBadRequest, fmt.Errorf("file is required: %v", err)
		}
		defer file.Close()
		body = file
	}

	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("failed to read document")
	}
	if int64(len(data)) > limit {
		return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("document exceeds max size (%d bytes)", limit)
	}
	return data, http.StatusOK, nil
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
