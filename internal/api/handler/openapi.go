package handler

import (
	"log/slog"
	"net/http"

	"sigs.k8s.io/yaml"

	"github.com/daap14/members/internal/api/middleware"
	"github.com/daap14/members/internal/api/response"
)

// OpenAPIHandler serves the OpenAPI document as JSON.
type OpenAPIHandler struct {
	spec []byte
	err  error
}

// NewOpenAPIHandler converts the YAML document once. A conversion failure is
// logged here and reported on every request.
func NewOpenAPIHandler(yamlSpec []byte) *OpenAPIHandler {
	spec, err := yaml.YAMLToJSON(yamlSpec)
	if err != nil {
		slog.Error("failed to convert OpenAPI spec to JSON", "error", err)
	}
	return &OpenAPIHandler{spec: spec, err: err}
}

// ServeHTTP writes the converted document.
func (h *OpenAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.err != nil {
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to convert OpenAPI spec", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(h.spec); err != nil {
		slog.Error("failed to write OpenAPI spec response", "error", err)
	}
}
