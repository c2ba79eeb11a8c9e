// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Memo Contributors

package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/samber/oops"
)

// maxBodyBytes caps request bodies; credentials are a few dozen bytes.
const maxBodyBytes = 1 << 12

// ContentTypeProblem is the RFC 7807 media type.
const ContentTypeProblem = "application/problem+json"

// Problem is an RFC 7807 problem document with a machine-readable code.
type Problem struct {
	Type   string `json:"type,omitempty"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
	Code   string `json:"code"`
}

// errMalformedBody is returned by decodeJSON for unreadable request bodies.
var errMalformedBody = errors.New("request body is not a valid JSON object")

// writeJSON sends data as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data) //nolint:errcheck // client may disconnect
}

// writeProblem sends p as a problem document.
func writeProblem(w http.ResponseWriter, p Problem) {
	if p.Type == "" {
		p.Type = "about:blank"
	}
	if p.Title == "" {
		p.Title = http.StatusText(p.Status)
	}
	w.Header().Set("Content-Type", ContentTypeProblem)
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p) //nolint:errcheck // client may disconnect
}

// decodeJSON reads a single JSON object from the request body into target.
func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(target); err != nil {
		return oops.Code(CodeMalformedRequest).Wrap(errors.Join(errMalformedBody, err))
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return oops.Code(CodeMalformedRequest).
			With("reason", "trailing data").
			Wrap(errMalformedBody)
	}
	return nil
}
