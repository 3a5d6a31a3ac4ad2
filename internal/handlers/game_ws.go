package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-engine/internal/game"
)

// runFrame applies every command in a text frame. Processing stops at the
// first bad command or once the game is over.
func (g GameHandler) runFrame(session *game.Session, text string) error {
	for i, line := range game.Lines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cmd, err := game.ParseCommand(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
		status, err := session.Apply(cmd, g.now())
		if err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
		if status != game.Playing {
			g.log.WithFields(logrus.Fields{
				"session_id": session.ID,
				"status":     status,
			}).Info("game over")
			break
		}
	}
	return nil
}

// ConnectWS speaks the line protocol of [game.ParseCommand] over a
// WebSocket. Every text frame is answered with the session, or with
// {"error": "..."} when a command in it failed.
func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := authorize(r, id); err != nil {
		sendError(w, g.log, err)
		return
	}

	session, err := g.store.Get(id, g.now())
	if err != nil {
		sendError(w, g.log, err)
		return
	}

	c, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.WithError(err).Error("unable to upgrade")
		return
	}

	defer c.Close()

	log := g.log.WithField("session_id", id)
	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("abnormal ws break")
			}
			break
		}
		if mt != websocket.TextMessage {
			break
		}
		text := strings.TrimSpace(string(message))
		log.Debugf("\t> %s", text)

		var reply any
		if err := g.runFrame(session, text); err != nil {
			log.WithError(err).Debug("unable to process command")
			reply = wrapError(err)
		} else {
			reply = NewGameSessionDTO(session.Snapshot())
		}

		if err := c.WriteJSON(reply); err != nil {
			log.WithError(err).Error("unable to write json")
			break
		}
		log.Debug("\t< <session data>")
	}
}
