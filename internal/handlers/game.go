package handlers

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/game"
	"github.com/vancomm/minesweeper-engine/internal/middleware"
)

type GameHandler struct {
	log      *logrus.Logger
	store    *game.Store
	jwt      *config.JWT
	ws       *config.WebSocket
	maxCells int
	now      func() time.Time
}

func NewGameHandler(
	log *logrus.Logger,
	store *game.Store,
	jwt *config.JWT,
	ws *config.WebSocket,
	maxCells int,
) *GameHandler {
	handler := &GameHandler{
		log:      log,
		store:    store,
		jwt:      jwt,
		ws:       ws,
		maxCells: maxCells,
		now:      func() time.Time { return time.Now().UTC() },
	}

	return handler
}

// authorize checks that the request carries a token for session id.
func authorize(r *http.Request, id string) error {
	claims, ok := middleware.SessionClaims(r.Context())
	if !ok {
		return ErrNoToken
	}
	if claims.SessionID != id {
		return ErrForeignToken
	}
	return nil
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	params, err := ParseCreateNewGameDTO(r.URL.Query(), g.maxCells)
	if err != nil {
		sendError(w, g.log, err)
		return
	}

	session, err := g.store.Create(params, g.now())
	if err != nil {
		sendError(w, g.log, err)
		return
	}

	token, err := g.jwt.Sign(g.jwt.NewSessionClaims(session.ID))
	if err != nil {
		g.store.Delete(session.ID)
		sendError(w, g.log, err)
		return
	}

	g.log.WithFields(logrus.Fields{
		"session_id":     session.ID,
		"params":         params.String(),
		"token_lifetime": g.jwt.TokenLifetime().String(),
	}).Debug("created game session")

	dto := NewGameSessionDTO(session.Snapshot())
	dto.Token = token
	sendJSONOrLog(w, g.log, http.StatusOK, dto)
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	session, err := g.store.Get(r.PathValue("id"), g.now())
	if err != nil {
		sendError(w, g.log, err)
		return
	}

	sendJSONOrLog(w, g.log, http.StatusOK, NewGameSessionDTO(session.Snapshot()))
}

func (g GameHandler) MakeAMove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := authorize(r, id); err != nil {
		sendError(w, g.log, err)
		return
	}

	cmd, err := ParseMoveDTO(r.URL.Query())
	if err != nil {
		sendError(w, g.log, err)
		return
	}

	session, err := g.store.Get(id, g.now())
	if err != nil {
		sendError(w, g.log, err)
		return
	}

	status, err := session.Apply(cmd, g.now())
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	if status != game.Playing {
		g.log.WithFields(logrus.Fields{
			"session_id": id,
			"status":     status,
		}).Info("game over")
	}

	sendJSONOrLog(w, g.log, http.StatusOK, NewGameSessionDTO(session.Snapshot()))
}
