package router

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stridehq/backend/pkg/errorx"
)

type response struct {
	Code  int64  `json:"code"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func writeResponse(w http.ResponseWriter, data any) error {
	return writeJSON(w, response{Code: 0, Data: data})
}

func writeError(w http.ResponseWriter, err error) {
	errx := errorx.Error{}
	if !errors.As(err, &errx) {
		errx = errorx.Unknown
	}

	// Business errors travel in the envelope, not in the HTTP status.
	_ = writeJSON(w, response{Code: int64(errx.Code), Error: errx.Message})
}

func writeJSON(w http.ResponseWriter, resp any) error {
	w.Header().Set("Content-Type", "application/json")
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	_, err = w.Write(b)
	return err
}
