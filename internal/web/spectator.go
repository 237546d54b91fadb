package web

import (
	"net/http"
	"time"

	"github.com/justinabrahms/chessengine/internal/chess"
	"github.com/justinabrahms/chessengine/internal/store"
	"github.com/rs/zerolog/log"
)

// GameIndex represents a game available for spectating
type GameIndex struct {
	GameID         string              `json:"gameId"`
	Players        GamePlayers         `json:"players"`
	Status         chess.GameStatus    `json:"status"`
	ActiveColor    chess.Color         `json:"activeColor"`
	MoveCount      int                 `json:"moveCount"`
	LastMoveAt     *time.Time          `json:"lastMoveAt,omitempty"`
	SpectatorCount int                 `json:"spectatorCount"`
	MaterialCount  chess.MaterialCount `json:"materialCount"`
}

type GamePlayers struct {
	White string `json:"white"`
	Black string `json:"black"`
}

func (s *Service) newGameIndex(sess *store.Session, game *chess.Game) GameIndex {
	idx := GameIndex{
		GameID:         sess.ID,
		Players:        GamePlayers{White: sess.White, Black: sess.Black},
		Status:         game.GetStatus(),
		ActiveColor:    game.GetActiveColor(),
		MoveCount:      len(sess.Game.History) - 1,
		SpectatorCount: s.hub.ClientCount(sess.ID),
		MaterialCount:  game.GetMaterialCount(),
	}
	if idx.MoveCount > 0 {
		last := sess.UpdatedAt
		idx.LastMoveAt = &last
	}
	return idx
}

// ListGamesHandler returns every stored session, oldest first. Sessions
// that fail to restore are skipped.
func (s *Service) ListGamesHandler(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.store.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list games")
		writeError(w, err)
		return
	}

	games := make([]GameIndex, 0, len(sessions))
	for _, sess := range sessions {
		game, err := chess.RestoreGame(sess.Game)
		if err != nil {
			log.Error().Err(err).Str("gameID", sess.ID).Msg("Failed to restore game for listing")
			continue
		}
		games = append(games, s.newGameIndex(sess, game))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"games": games,
		"total": len(games),
	})
}
