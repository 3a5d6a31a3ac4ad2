package handlers

import (
	"fmt"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-engine/internal/game"
	"github.com/vancomm/minesweeper-engine/internal/mines"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

type CreateNewGameDTO struct {
	Width     int `schema:"width,required"`
	Height    int `schema:"height,required"`
	MineCount int `schema:"mine_count,required"`
}

// ParseCreateNewGameDTO decodes ?width=&height=&mine_count= and rejects
// boards with more than maxCells cells.
func ParseCreateNewGameDTO(src map[string][]string, maxCells int) (mines.GameParams, error) {
	var dto CreateNewGameDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return mines.GameParams{}, fmt.Errorf("%w: %w", ErrBadQuery, err)
	}
	params := mines.GameParams(dto)
	if err := params.Validate(); err != nil {
		return mines.GameParams{}, err
	}
	if params.Size() > maxCells {
		return mines.GameParams{}, fmt.Errorf(
			"%w: board has %d cells, at most %d are allowed",
			ErrBadQuery, params.Size(), maxCells,
		)
	}
	return params, nil
}

type MoveDTO struct {
	Move string `schema:"move,required"`
	X    int    `schema:"x,required"`
	Y    int    `schema:"y,required"`
}

// ParseMoveDTO decodes ?move=open|flag|chord&x=&y= into a command.
func ParseMoveDTO(src map[string][]string) (game.Command, error) {
	var dto MoveDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return game.Command{}, fmt.Errorf("%w: %w", ErrBadQuery, err)
	}
	action, err := game.ParseAction(dto.Move)
	if err != nil || action == game.Get {
		return game.Command{}, fmt.Errorf(
			"%w: move must be one of 'open', 'flag', 'chord'", ErrBadQuery,
		)
	}
	return game.Command{Action: action, X: dto.X, Y: dto.Y}, nil
}

type GameSessionDTO struct {
	GameSessionID string       `json:"game_session_id"`
	Width         int          `json:"width"`
	Height        int          `json:"height"`
	MineCount     int          `json:"mine_count"`
	HiddenMines   int          `json:"hidden_mines"`
	Status        game.Status  `json:"status"`
	Moves         int          `json:"moves"`
	Cells         []mines.Cell `json:"cells"`
	StartedAt     int64        `json:"started_at"`
	EndedAt       *int64       `json:"ended_at,omitempty"`
	Token         string       `json:"token,omitempty"`
}

// NewGameSessionDTO takes ownership of snap.Cells. Mines stay hidden until
// the game is over.
func NewGameSessionDTO(snap game.Snapshot) *GameSessionDTO {
	if snap.Status == game.Playing {
		for i, c := range snap.Cells {
			snap.Cells[i] = c.Masked()
		}
	}
	var endedAt *int64
	if !snap.EndedAt.IsZero() {
		e := snap.EndedAt.UnixMilli()
		endedAt = &e
	}
	dto := &GameSessionDTO{
		GameSessionID: snap.ID,
		Width:         snap.Params.Width,
		Height:        snap.Params.Height,
		MineCount:     snap.Params.MineCount,
		HiddenMines:   snap.HiddenMines,
		Status:        snap.Status,
		Moves:         snap.Moves,
		Cells:         snap.Cells,
		StartedAt:     snap.StartedAt.UnixMilli(),
		EndedAt:       endedAt,
	}
	return dto
}
