package web

import (
	"net/http"
	"strconv"
)

func (s *Server) handleUploadForm(w http.ResponseWriter, r *http.Request) {
	if err := s.renderPage(w,
		map[string]any{"ActiveNav": "upload", "MaxUploadMB": s.maxUpload / (1024 * 1024)},
		"base.html", "pages/upload_form.html",
	); err != nil {
		s.logger.Error("render page failed", "page", "upload_form", "error", err)
	}
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.service.List(r.Context())
	if err != nil {
		http.Error(w, "failed to list products", http.StatusInternalServerError)
		s.logger.Error("list products failed", "error", err)
		return
	}

	if err := s.renderPage(w,
		map[string]any{"Products": products, "ActiveNav": "products"},
		"base.html", "pages/products.html", "partials/product_card.html",
	); err != nil {
		s.logger.Error("render page failed", "page", "products", "error", err)
	}
}

// handleGetProduct renders one record. An unknown or malformed id is not an
// error: the caller is sent back to the list.
func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Redirect(w, r, "/products", http.StatusFound)
		return
	}

	product, err := s.service.Detail(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to get product", http.StatusInternalServerError)
		s.logger.Error("get product failed", "record_id", id, "error", err)
		return
	}
	if product == nil {
		http.Redirect(w, r, "/products", http.StatusFound)
		return
	}

	if err := s.renderPage(w,
		map[string]any{"Product": product, "ActiveNav": "products"},
		"base.html", "pages/product_detail.html",
	); err != nil {
		s.logger.Error("render page failed", "page", "product_detail", "error", err)
	}
}

// parseID extracts the {id} path variable and returns it as int64.
func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
