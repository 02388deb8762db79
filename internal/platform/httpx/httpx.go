// Package httpx junta los helpers que antes estaban duplicados en cada handler
// (writeJSON y el mapeo de errores de dominio a status HTTP).
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"pet-services/internal/platform/apperr"
	"pet-services/internal/platform/logger"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// StatusOf traduce una categoría de apperr a status HTTP.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, apperr.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError responde con el mensaje del error para 4xx y "internal error" para el resto.
func WriteError(w http.ResponseWriter, log logger.Logger, err error) {
	st := StatusOf(err)
	if st == http.StatusInternalServerError {
		if log != nil {
			log.Error("request failed", map[string]any{"error": err})
		}
		http.Error(w, "internal error", st)
		return
	}
	http.Error(w, err.Error(), st)
}

// MaxBodyBytes limita los bodies JSON. Las subidas multipart tienen su propio límite.
const MaxBodyBytes = 1 << 20

var ErrBodyTooLarge = fmt.Errorf("%w: request body too large", apperr.ErrInvalidInput)

// DecodeJSON decodifica el body rechazando campos desconocidos.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return ErrBodyTooLarge
		}
		return apperr.ErrInvalidInput
	}
	return nil
}

// QueryInt lee un entero de la query; devuelve def si falta o es inválido.
func QueryInt(r *http.Request, key string, def int) int {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
