package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	bperrors "github.com/matzehuels/bpmnlayout/pkg/errors"
	"github.com/matzehuels/bpmnlayout/pkg/observability"
)

type errorResponse struct {
	Code    bperrors.Code `json:"code"`
	Message string        `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeBytes(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// writeError maps err to a status and a {code, message} body. Internal
// details are logged, not returned.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := bperrors.HTTPStatus(err)
	code := bperrors.GetCode(err)
	msg := bperrors.UserMessage(err)

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
		code = bperrors.ErrCodeInvalidInput
		msg = fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)
	}
	if code == "" {
		code = bperrors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "path", r.URL.Path, "error", err)
		msg = "internal error"
	}

	observability.HTTP().OnError(r.Context(), r.Method, routePattern(r), err)
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func readBody(r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, bperrors.Wrap(bperrors.ErrCodeInvalidInput, err, "read request body")
	}
	return data, nil
}

func decodeJSON(r *http.Request, v any) error {
	data, err := readBody(r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return bperrors.Wrap(bperrors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func errNotFound(path string) error {
	return bperrors.New(bperrors.ErrCodeNotFound, "no route for %s", path)
}
