// internal/server/response.go
package server

import (
	"encoding/json"
	"net/http"

	"marketplace-admin/internal/common/errors"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError maps the application error onto an HTTP status and a
// stable JSON shape.
func respondError(w http.ResponseWriter, err error) {
	std := errors.AsStandard(err)
	respondJSON(w, std.HTTPStatus(), map[string]interface{}{
		"error": map[string]interface{}{
			"code":    std.Code,
			"message": std.Message,
			"details": std.Details,
		},
	})
}
