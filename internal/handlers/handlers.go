package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-engine/internal/game"
	"github.com/vancomm/minesweeper-engine/internal/mines"
)

var (
	ErrBadQuery     = errors.New("bad query")
	ErrNoToken      = errors.New("missing or invalid session token")
	ErrForeignToken = errors.New("token belongs to another session")
)

// sendJSONOrLog writes v with status code. The status is only written once
// v has been marshaled, so a marshal failure can still answer 500.
func sendJSONOrLog(w http.ResponseWriter, log *logrus.Logger, code int, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.WithError(err).WithField("response", v).Error("unable to send response")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(payload); err != nil {
		log.WithError(err).Debug("unable to write response")
	}
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}

// statusCode maps domain errors to HTTP status codes.
func statusCode(err error) int {
	var paramsErr *mines.ParamsError
	switch {
	case errors.Is(err, ErrNoToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForeignToken):
		return http.StatusForbidden
	case errors.Is(err, game.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrGameOver):
		return http.StatusConflict
	case errors.Is(err, ErrBadQuery),
		errors.Is(err, game.ErrOutOfBounds),
		errors.Is(err, game.ErrUnknownCommand),
		errors.Is(err, game.ErrBadArguments),
		errors.As(err, &paramsErr):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// sendError writes err as {"error": "..."} with the matching status code.
// Internal errors are logged and their text is not sent.
func sendError(w http.ResponseWriter, log *logrus.Logger, err error) {
	code := statusCode(err)
	if code == http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
		err = errors.New(http.StatusText(code))
	}
	sendJSONOrLog(w, log, code, wrapError(err))
}

func Health(log *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sendJSONOrLog(w, log, http.StatusOK, map[string]string{"status": "ok"})
	}
}
