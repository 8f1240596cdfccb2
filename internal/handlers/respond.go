// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON HTTP API: authentication, article
// listing and editing, and comments. Handlers decode requests, call the
// service layer and translate its errors into status codes.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"pressroom/internal/store"
)

// errorResponse is the JSON body of every failed request. Errors holds
// per-field messages for validation failures.
type errorResponse struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Errors  validation.Errors `json:"errors,omitempty"`
}

// writeJSON renders v with the given status code.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

// writeMessage renders an error body with a fixed message.
func writeMessage(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, errorResponse{Status: status, Message: message})
}

// writeError maps a service error to its HTTP status. Anything that is
// not a known client error is logged and reported as 500 without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		nf   *store.NotFoundError
		errs validation.Errors
	)
	switch {
	case errors.As(err, &nf):
		writeMessage(w, r, http.StatusNotFound, nf.Subject)
	case errors.As(err, &errs):
		writeJSON(w, r, http.StatusBadRequest, errorResponse{
			Status:  http.StatusBadRequest,
			Message: "Validation failed",
			Errors:  errs,
		})
	case errors.Is(err, store.ErrDuplicateUser):
		writeMessage(w, r, http.StatusConflict, "Email or username already taken")
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeMessage(w, r, http.StatusInternalServerError, "Internal Server Error")
	}
}

// decodeJSON reads a JSON request body into v. It reports false after
// writing a 400 if the body is malformed.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		writeMessage(w, r, http.StatusBadRequest, "Malformed JSON body")
		return false
	}
	return true
}
