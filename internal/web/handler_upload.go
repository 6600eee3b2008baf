package web

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vbonduro/shopupload/internal/domain"
	"github.com/vbonduro/shopupload/internal/filestore"
	"github.com/vbonduro/shopupload/internal/service"
	"github.com/vbonduro/shopupload/internal/session"
)

const (
	// maxFormOverhead is the allowance for the text fields and multipart
	// framing on top of the file size limit.
	maxFormOverhead = 1 << 20
	// multipartMemory is how much of the form is kept in memory before
	// file parts spill to temporary files.
	multipartMemory = 1 << 20
)

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+maxFormOverhead)
	err := r.ParseMultipartForm(multipartMemory)
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		defer func() {
			if err := r.MultipartForm.RemoveAll(); err != nil {
				s.logger.Error("failed to remove multipart temp files", "error", err)
			}
		}()
	case errors.Is(err, http.ErrNotMultipart):
		// a plain urlencoded form; the text fields are parsed, there is no file
	case errors.As(err, &tooLarge):
		http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
		return
	default:
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}

	in := service.SubmitInput{
		Name:    r.FormValue("name"),
		Price:   r.FormValue("price"),
		Content: r.FormValue("content"),
	}

	if r.MultipartForm != nil {
		file, header, err := r.FormFile("filename")
		switch {
		case err == nil:
			defer closeWithLog(file, "upload file", s.logger)
			if header.Size > s.maxUpload {
				http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
				return
			}
			in.File = &service.Upload{Name: header.Filename, Body: file}
		case errors.Is(err, http.ErrMissingFile):
			// the file is optional
		default:
			http.Error(w, "failed to read file", http.StatusBadRequest)
			return
		}
	}

	rec, err := s.service.Submit(r.Context(), in)
	if err != nil {
		s.metrics.SubmitFailures.Inc()
		s.logger.Error("submit failed", "name", in.Name, "error", err)
		http.Error(w, "failed to upload file", http.StatusInternalServerError)
		return
	}
	s.metrics.RecordsSubmitted.Inc()
	if rec.HasFile() {
		s.metrics.FilesStored.Inc()
	}

	if sess := session.FromContext(r.Context()); sess != nil {
		sess.Data.Product = &domain.Submission{
			Name:     in.Name,
			Price:    in.Price,
			Content:  in.Content,
			Filename: rec.Filename,
		}
		if err := s.sessions.Save(r, sess); err != nil {
			s.logger.Warn("failed to remember submission in session", "record_id", rec.ID, "error", err)
		}
	}

	http.Redirect(w, r, fmt.Sprintf("/products/%d", rec.ID), http.StatusSeeOther)
}

func (s *Server) handleGetUpload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	reader, contentType, err := s.files.Open(r.Context(), name)
	if err != nil {
		if !errors.Is(err, filestore.ErrNotFound) {
			s.logger.Warn("open upload failed", "name", name, "error", err)
		}
		http.NotFound(w, r)
		return
	}
	defer closeWithLog(reader, "upload reader", s.logger)

	w.Header().Set("Content-Type", contentType)
	// Uploaded content is untrusted; never let it run script in our origin.
	w.Header().Set("Content-Security-Policy", "sandbox")
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write upload failed", "name", name, "error", err)
	}
}

// handleView renders the caller's last submission from the session, or
// sends them to the form when there is none.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if sess == nil || sess.Data.Product == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	if err := s.renderPage(w,
		map[string]any{"Submission": sess.Data.Product, "ActiveNav": "upload"},
		"base.html", "pages/view.html",
	); err != nil {
		s.logger.Error("render page failed", "page", "view", "error", err)
	}
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
