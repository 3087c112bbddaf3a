package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/justinjudd/league/models"
)

type envelope map[string]interface{}

const maxBodyBytes = 1 << 20

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return models.Validationf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return models.Validationf("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return models.Validationf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return models.Validationf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return models.Validationf("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			return models.Validationf("body contains unknown key %s", strings.TrimPrefix(err.Error(), "json: unknown field "))
		case errors.As(err, &maxBytesError):
			return models.Validationf("body must not be larger than %d bytes", maxBodyBytes)
		default:
			return models.Validationf("%v", err)
		}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return models.Validationf("body must only contain a single JSON value")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// statusFor maps a league error kind onto an HTTP status
func statusFor(err error) int {
	switch models.KindOf(err) {
	case models.KindValidation:
		return http.StatusBadRequest
	case models.KindState:
		return http.StatusConflict
	case models.KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, status int, kind, message string) {
	env := envelope{"error": envelope{"kind": kind, "message": message}}
	if err := writeJSON(w, status, env); err != nil {
		s.logger.Error("writing error response", slog.Any("error", err), slog.String("path", r.URL.Path))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// failure renders err with the status of its kind. Store and integrity failures are logged and
// hidden behind a generic message.
func (s *Server) failure(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", slog.Any("error", err), slog.String("method", r.Method), slog.String("path", r.URL.Path))
		s.errorResponse(w, r, status, "internal", "the server encountered a problem and could not process your request")
		return
	}
	s.errorResponse(w, r, status, models.KindOf(err).String(), err.Error())
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if err := writeJSON(w, status, data); err != nil {
		s.logger.Error("writing response", slog.Any("error", err), slog.String("path", r.URL.Path))
	}
}

// queryInt reads an optional integer query parameter. ok is false when it is absent.
func queryInt(r *http.Request, key string) (n int, ok bool, err error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, false, nil
	}
	n, err = strconv.Atoi(v)
	if err != nil {
		return 0, false, models.Validationf("query parameter %s must be a whole number, got %q", key, v)
	}
	return n, true, nil
}

func queryBool(r *http.Request, key string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return b
}

func requireGoals(home, away *int) (int, int, error) {
	if home == nil || away == nil {
		return 0, 0, fmt.Errorf("%w: homeGoals and awayGoals are required", models.ErrInvalidGoals)
	}
	return *home, *away, nil
}
