package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/logging"
	"github.com/vancomm/minesweeper-engine/internal/random"
)

type sessionReply struct {
	GameSessionID string `json:"game_session_id"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	MineCount     int    `json:"mine_count"`
	HiddenMines   int    `json:"hidden_mines"`
	Status        string `json:"status"`
	Moves         int    `json:"moves"`
	Cells         []byte `json:"cells"`
	StartedAt     int64  `json:"started_at"`
	EndedAt       *int64 `json:"ended_at"`
	Token         string `json:"token"`
	Error         string `json:"error"`
}

type AppSuite struct {
	suite.Suite
	cfg    *config.App
	app    *App
	server *httptest.Server
}

func TestAppSuite(t *testing.T) {
	suite.Run(t, new(AppSuite))
}

func (s *AppSuite) SetupTest() {
	cfg, err := config.Load(config.NewViper(), "")
	s.Require().NoError(err)
	cfg.JWT.Secret = "test-secret"
	s.cfg = cfg

	// the first board of every test is 3x3 with its mine in the middle
	s.app, err = newApp(logging.Discard(), cfg, random.NewSequence(4))
	s.Require().NoError(err)
	s.server = httptest.NewServer(s.app.Handler())
}

func (s *AppSuite) TearDownTest() {
	s.server.Close()
}

func (s *AppSuite) do(method, path string, query url.Values, token string) (int, sessionReply) {
	req, err := http.NewRequest(method, s.server.URL+path+"?"+query.Encode(), nil)
	s.Require().NoError(err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var reply sessionReply
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&reply))
	return resp.StatusCode, reply
}

func (s *AppSuite) newGame(width, height, mineCount int) sessionReply {
	code, reply := s.do(http.MethodPost, "/game", url.Values{
		"width":      {fmt.Sprint(width)},
		"height":     {fmt.Sprint(height)},
		"mine_count": {fmt.Sprint(mineCount)},
	}, "")
	s.Require().Equal(http.StatusOK, code, reply.Error)
	return reply
}

func (s *AppSuite) move(id, token, move string, x, y int) (int, sessionReply) {
	return s.do(http.MethodPost, "/game/"+id+"/move", url.Values{
		"move": {move},
		"x":    {fmt.Sprint(x)},
		"y":    {fmt.Sprint(y)},
	}, token)
}

func (s *AppSuite) TestHealth() {
	resp, err := s.server.Client().Get(s.server.URL + "/healthz")
	s.Require().NoError(err)
	defer resp.Body.Close()

	var body map[string]string
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("ok", body["status"])
}

func (s *AppSuite) TestNewGame() {
	reply := s.newGame(3, 3, 1)

	s.NotEmpty(reply.GameSessionID)
	s.NotEmpty(reply.Token)
	s.Equal(3, reply.Width)
	s.Equal(3, reply.Height)
	s.Equal(1, reply.MineCount)
	s.Equal(1, reply.HiddenMines)
	s.Equal("playing", reply.Status)
	s.Equal(0, reply.Moves)
	s.Equal([]byte{9, 9, 9, 9, 9, 9, 9, 9, 9}, reply.Cells)
	s.NotZero(reply.StartedAt)
	s.Nil(reply.EndedAt)
	s.Equal(1, s.app.store.Len())
}

func (s *AppSuite) TestNewGameBadParams() {
	tests := []struct {
		query url.Values
		want  string
	}{
		{url.Values{"width": {"3"}, "height": {"3"}}, "bad query"},
		{url.Values{"width": {"abc"}, "height": {"3"}, "mine_count": {"1"}}, "bad query"},
		{url.Values{"width": {"3"}, "height": {"3"}, "mine_count": {"9"}}, "mine count"},
		{url.Values{"width": {"0"}, "height": {"3"}, "mine_count": {"0"}}, "positive width"},
		{url.Values{"width": {"501"}, "height": {"500"}, "mine_count": {"0"}}, "at most 250000"},
		{url.Values{"width": {"1000000"}, "height": {"1000000"}, "mine_count": {"1"}}, "at most 250000"},
		{url.Values{"width": {"4611686018427387905"}, "height": {"4"}, "mine_count": {"0"}}, "more cells"},
	}

	for _, test := range tests {
		code, reply := s.do(http.MethodPost, "/game", test.query, "")
		s.Equal(http.StatusBadRequest, code, test.query.Encode())
		s.Contains(reply.Error, test.want)
	}
	s.Equal(0, s.app.store.Len())
}

func (s *AppSuite) TestNewGameAtCellLimit() {
	s.Require().Equal(250000, s.cfg.Server.MaxCells)
	reply := s.newGame(500, 500, 0)
	s.Len(reply.Cells, 250000)
}

func (s *AppSuite) TestFetch() {
	created := s.newGame(3, 3, 1)

	code, reply := s.do(http.MethodGet, "/game/"+created.GameSessionID, nil, "")
	s.Equal(http.StatusOK, code)
	s.Equal(created.GameSessionID, reply.GameSessionID)
	s.Empty(reply.Token)

	code, reply = s.do(http.MethodGet, "/game/nope", nil, "")
	s.Equal(http.StatusNotFound, code)
	s.Equal("game session not found", reply.Error)
}

func (s *AppSuite) TestMoveAuth() {
	first := s.newGame(3, 3, 1)
	second := s.newGame(3, 3, 1)

	code, _ := s.move(first.GameSessionID, "", "open", 0, 0)
	s.Equal(http.StatusUnauthorized, code)

	code, _ = s.move(first.GameSessionID, "garbage", "open", 0, 0)
	s.Equal(http.StatusUnauthorized, code)

	code, _ = s.move(first.GameSessionID, second.Token, "open", 0, 0)
	s.Equal(http.StatusForbidden, code)

	code, reply := s.do(http.MethodPost, "/game/"+first.GameSessionID+"/move", url.Values{
		"move": {"flag"}, "x": {"0"}, "y": {"0"}, "token": {first.Token},
	}, "")
	s.Equal(http.StatusOK, code, reply.Error)
	s.Equal(byte(11), reply.Cells[0])
}

func (s *AppSuite) TestMoveLoss() {
	game := s.newGame(3, 3, 1)

	code, reply := s.move(game.GameSessionID, game.Token, "open", 0, 0)
	s.Require().Equal(http.StatusOK, code, reply.Error)
	s.Equal("playing", reply.Status)
	s.Equal(1, reply.Moves)
	s.Equal([]byte{1, 9, 9, 9, 9, 9, 9, 9, 9}, reply.Cells)

	code, reply = s.move(game.GameSessionID, game.Token, "open", 1, 1)
	s.Require().Equal(http.StatusOK, code, reply.Error)
	s.Equal("lost", reply.Status)
	s.Equal(byte(13), reply.Cells[4])
	s.Equal(0, reply.HiddenMines)
	s.NotNil(reply.EndedAt)

	code, reply = s.move(game.GameSessionID, game.Token, "open", 2, 2)
	s.Equal(http.StatusConflict, code)
	s.Equal("game is over", reply.Error)
}

func (s *AppSuite) TestMoveBadQuery() {
	game := s.newGame(3, 3, 1)

	code, _ := s.move(game.GameSessionID, game.Token, "explode", 0, 0)
	s.Equal(http.StatusBadRequest, code)

	code, reply := s.move(game.GameSessionID, game.Token, "open", 3, 0)
	s.Equal(http.StatusBadRequest, code)
	s.Contains(reply.Error, "outside the board")
}

func (s *AppSuite) dial(id, token string) (*websocket.Conn, *http.Response, error) {
	u := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/game/" + id + "/connect"
	if token != "" {
		u += "?token=" + url.QueryEscape(token)
	}
	return websocket.DefaultDialer.Dial(u, nil)
}

func (s *AppSuite) send(c *websocket.Conn, text string) sessionReply {
	s.Require().NoError(c.WriteMessage(websocket.TextMessage, []byte(text)))
	var reply sessionReply
	s.Require().NoError(c.ReadJSON(&reply))
	return reply
}

func (s *AppSuite) TestWebSocket() {
	game := s.newGame(3, 3, 1)

	c, _, err := s.dial(game.GameSessionID, game.Token)
	s.Require().NoError(err)
	defer c.Close()

	reply := s.send(c, "g")
	s.Equal(game.GameSessionID, reply.GameSessionID)
	s.Equal("playing", reply.Status)

	reply = s.send(c, "o 0 0")
	s.Equal(byte(1), reply.Cells[0])

	reply = s.send(c, "x 1 1")
	s.Contains(reply.Error, "unknown command")

	reply = s.send(c, "f 1 1\no 1 0\n2 0\n0 1\no 2 1\no 0 2\no 1 2\no 2 2")
	s.Empty(reply.Error)
	s.Equal("won", reply.Status)
	s.Equal(byte(12), reply.Cells[4], "mines are shown once the game is over")
	s.NotNil(reply.EndedAt)

	reply = s.send(c, "o 0 0")
	s.Contains(reply.Error, "game is over")

	s.Require().NoError(c.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	))
}

func (s *AppSuite) TestWebSocketAuth() {
	game := s.newGame(3, 3, 1)

	_, resp, err := s.dial(game.GameSessionID, "")
	s.Require().ErrorIs(err, websocket.ErrBadHandshake)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = s.dial("nope", game.Token)
	s.Require().ErrorIs(err, websocket.ErrBadHandshake)
	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *AppSuite) TestBasePath() {
	s.cfg.Server.BasePath = "/api/"
	server := httptest.NewServer(s.app.Handler())
	defer server.Close()

	resp, err := server.Client().Get(server.URL + "/api/healthz")
	s.Require().NoError(err)
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	resp, err = server.Client().Get(server.URL + "/healthz")
	s.Require().NoError(err)
	resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func TestServeShutsDown(t *testing.T) {
	cfg, err := config.Load(config.NewViper(), "")
	require.NoError(t, err)
	cfg.Server.SweepInterval = 10 * time.Millisecond

	a, err := New(logging.Discard(), cfg)
	require.NoError(t, err)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, l) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + l.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
