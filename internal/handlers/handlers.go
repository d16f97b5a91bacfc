// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the Inkpress HTTP API: authentication,
// draft composition, image uploads, and the post read/write endpoints.
// All responses are JSON.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"inkpress/internal/posts"
)

// respondJSON writes v as a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// respondError writes a JSON error body with the given status code.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// respondServiceError maps the post service failure taxonomy onto HTTP
// status codes. Unrecognized errors become opaque 500s.
func respondServiceError(w http.ResponseWriter, err error) {
	if ve, ok := posts.IsValidation(err); ok {
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "validation failed",
			"reasons": ve.Reasons,
		})
		return
	}

	switch {
	case errors.Is(err, posts.ErrUnauthenticated):
		respondError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, posts.ErrForbidden):
		respondError(w, http.StatusForbidden, "not the post author")
	case errors.Is(err, posts.ErrNotFound):
		respondError(w, http.StatusNotFound, "post not found")
	default:
		slog.Error("service error", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// decodeJSON decodes a request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
