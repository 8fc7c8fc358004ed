package games

import (
	"fmt"
	"strings"

	"github.com/corentings/chess/v2"
	"github.com/corentings/chess/v2/opening"
)

// ReplayedGame is a move list expanded into per-ply positions for the
// game detail board viewer.
type ReplayedGame struct {
	FENs    []string `json:"fens"`  // start position plus one entry per ply
	Moves   []string `json:"moves"` // one per ply
	ECO     string   `json:"eco"`
	Opening string   `json:"opening"`
}

// Replay parses a movetext string and returns the position after every ply.
// The ECO book is consulted so callers can backfill a missing opening name.
func Replay(movetext string) (*ReplayedGame, error) {
	movetext = strings.TrimSpace(movetext)
	if movetext == "" {
		return nil, fmt.Errorf("empty move list")
	}

	pgnOpt, err := chess.PGN(strings.NewReader(movetext))
	if err != nil {
		return nil, fmt.Errorf("parse movetext: %w", err)
	}
	game := chess.NewGame(pgnOpt)

	moves := game.Moves()
	positions := game.Positions()

	rg := &ReplayedGame{
		FENs:  make([]string, 0, len(positions)),
		Moves: make([]string, 0, len(moves)),
	}
	for _, p := range positions {
		rg.FENs = append(rg.FENs, p.String())
	}
	for _, m := range moves {
		rg.Moves = append(rg.Moves, m.String())
	}

	book := opening.NewBookECO()
	if found := book.Find(moves); found != nil {
		rg.ECO = found.Code()
		rg.Opening = found.Title()
	}

	return rg, nil
}
