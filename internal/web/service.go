package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/justinabrahms/chessengine/internal/bot"
	"github.com/justinabrahms/chessengine/internal/chess"
	"github.com/justinabrahms/chessengine/internal/config"
	"github.com/justinabrahms/chessengine/internal/store"
	"github.com/rs/zerolog/log"
)

// PlayerHuman marks a color whose moves arrive over the API.
const PlayerHuman = "human"

var (
	ErrBadRequest    = errors.New("bad request")
	ErrHumanToMove   = errors.New("side to move is played by a human")
	ErrBotControlled = errors.New("side to move is played by a bot")
	errUnknownPlayer = errors.New("unknown player")
)

type Service struct {
	store  store.Store
	hub    *Hub
	config *config.Config
	locks  *sessionLocks
	now    func() time.Time
}

func NewService(st store.Store, hub *Hub, config *config.Config) *Service {
	return &Service{
		store:  st,
		hub:    hub,
		config: config,
		locks:  newSessionLocks(),
		now:    time.Now,
	}
}

// Router wires every endpoint.
func (s *Service) Router() *mux.Router {
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.HealthHandler).Methods("GET")
	api.HandleFunc("/games", s.CreateGameHandler).Methods("POST")
	api.HandleFunc("/games", s.ListGamesHandler).Methods("GET")
	api.HandleFunc("/games/{id}", s.GetGameHandler).Methods("GET")
	api.HandleFunc("/games/{id}/moves", s.LegalMovesHandler).Methods("GET")
	api.HandleFunc("/games/{id}/moves", s.MakeMoveHandler).Methods("POST")
	api.HandleFunc("/games/{id}/bot", s.BotMoveHandler).Methods("POST")
	api.HandleFunc("/games/{id}/revert", s.RevertHandler).Methods("POST")

	router.HandleFunc("/ws", s.WebSocketHandler(s.hub))
	return router
}

func (s *Service) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"storage": s.config.Storage.Driver,
	})
}

// GameView is the full state of a session as served to clients.
type GameView struct {
	ID             string               `json:"id"`
	White          string               `json:"white"`
	Black          string               `json:"black"`
	FEN            string               `json:"fen"`
	Status         chess.GameStatus     `json:"status"`
	ActiveColor    chess.Color          `json:"activeColor"`
	Castling       chess.CastlingRights `json:"castling"`
	EnPassant      *chess.Position      `json:"enPassant,omitempty"`
	HalfmoveClock  int                  `json:"halfmoveClock"`
	FullmoveNumber int                  `json:"fullmoveNumber"`
	Captured       []chess.ColoredPiece `json:"captured"`
	History        []string             `json:"history"`
	Material       chess.MaterialCount  `json:"material"`
	DrawReason     string               `json:"drawReason,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

func newGameView(sess *store.Session, game *chess.Game) GameView {
	state := game.State()
	view := GameView{
		ID:             sess.ID,
		White:          sess.White,
		Black:          sess.Black,
		FEN:            game.GetFEN(),
		Status:         game.GetStatus(),
		ActiveColor:    game.GetActiveColor(),
		Castling:       state.CastlingRights(),
		HalfmoveClock:  state.HalfmoveClock(),
		FullmoveNumber: state.FullmoveNumber(),
		Captured:       state.CapturedPieces(),
		History:        state.History(),
		Material:       game.GetMaterialCount(),
		DrawReason:     game.GetDrawReason(),
		CreatedAt:      sess.CreatedAt,
		UpdatedAt:      sess.UpdatedAt,
	}
	if ep, ok := state.EnPassantTarget(); ok {
		view.EnPassant = &ep
	}
	if view.Captured == nil {
		view.Captured = []chess.ColoredPiece{}
	}
	return view
}

type CreateGameRequest struct {
	FEN   string `json:"fen,omitempty"`
	White string `json:"white"`
	Black string `json:"black"`
}

func (s *Service) CreateGameHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", ErrBadRequest))
		return
	}
	if req.White == "" {
		req.White = PlayerHuman
	}
	if req.Black == "" {
		req.Black = PlayerHuman
	}
	for _, p := range []string{req.White, req.Black} {
		if err := validatePlayer(p); err != nil {
			writeError(w, err)
			return
		}
	}

	game := chess.NewGame()
	if req.FEN != "" {
		var err error
		game, err = chess.NewGameFromFEN(req.FEN)
		if err != nil {
			log.Error().Err(err).Str("fen", req.FEN).Msg("Invalid FEN")
			writeError(w, err)
			return
		}
	}

	now := s.now().UTC()
	seed := s.config.Bots.Seed
	if seed == 0 {
		seed = now.UnixNano()
	}
	sess := &store.Session{
		ID:        uuid.NewString(),
		White:     req.White,
		Black:     req.Black,
		Seed:      seed,
		Game:      game.Snapshot(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("Failed to create game")
		writeError(w, err)
		return
	}

	log.Info().Str("gameID", sess.ID).Str("white", sess.White).Str("black", sess.Black).Msg("Game created")
	writeJSON(w, http.StatusCreated, newGameView(sess, game))
}

func (s *Service) GetGameHandler(w http.ResponseWriter, r *http.Request) {
	sess, game, err := s.loadGame(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newGameView(sess, game))
}

// MoveView is one legal move as served to clients.
type MoveView struct {
	UCI       string             `json:"uci"`
	From      chess.Position     `json:"from"`
	To        chess.Position     `json:"to"`
	Piece     chess.ColoredPiece `json:"piece"`
	Flags     chess.MoveFlag     `json:"flags"`
	Promotion chess.PieceType    `json:"promotion,omitempty"`
}

// LegalMovesHandler lists the legal moves of the side to move, optionally
// only those starting on ?from=.
func (s *Service) LegalMovesHandler(w http.ResponseWriter, r *http.Request) {
	_, game, err := s.loadGame(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var moves []chess.Move
	if from := r.URL.Query().Get("from"); from != "" {
		pos, err := chess.ParsePosition(from)
		if err != nil {
			writeError(w, err)
			return
		}
		moves = game.MovesFrom(pos)
	} else {
		moves = game.LegalMoves()
	}

	out := make([]MoveView, len(moves))
	for i, m := range moves {
		out[i] = MoveView{
			UCI:       m.UCI(),
			From:      m.From,
			To:        m.To,
			Piece:     m.Piece,
			Flags:     m.Flags,
			Promotion: m.Promotion,
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"moves": out,
		"total": len(out),
	})
}

type MakeMoveRequest struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

func (s *Service) MakeMoveHandler(w http.ResponseWriter, r *http.Request) {
	var req MakeMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", ErrBadRequest))
		return
	}
	promotion := chess.ParsePromotion(req.Promotion)
	if req.Promotion != "" && promotion == chess.NoPieceType {
		writeError(w, fmt.Errorf("%w: %q", chess.ErrInvalidPromotionPiece, req.Promotion))
		return
	}

	s.mutate(w, r, func(sess *store.Session, game *chess.Game) (interface{}, error) {
		if player := sess.Player(game.GetActiveColor()); player != PlayerHuman {
			return nil, fmt.Errorf("%w: %s", ErrBotControlled, player)
		}

		result, err := game.MakeMove(req.From, req.To, promotion)
		if err != nil {
			log.Info().Err(err).Str("gameID", sess.ID).Str("from", req.From).Str("to", req.To).Msg("Move rejected")
			return nil, err
		}

		log.Info().Str("gameID", sess.ID).Str("san", result.SAN).Str("resultFEN", result.FEN).Str("status", string(result.Status)).Msg("Move executed successfully")
		return result, nil
	})
}

// BotMoveHandler lets the bot assigned to the side to move play once.
func (s *Service) BotMoveHandler(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(sess *store.Session, game *chess.Game) (interface{}, error) {
		color := game.GetActiveColor()
		player := sess.Player(color)
		if player == PlayerHuman {
			return nil, fmt.Errorf("%w: %s", ErrHumanToMove, color)
		}
		kind, err := bot.ParseKind(player)
		if err != nil {
			return nil, err
		}

		// One source per ply keeps a session reproducible from its seed.
		rng := rand.New(rand.NewSource(sess.Seed + int64(len(sess.Game.History))))
		strategy, err := bot.New(kind, color, rng)
		if err != nil {
			return nil, err
		}
		return bot.HandleTurn(strategy, game)
	})
}

type RevertRequest struct {
	Index *int `json:"index"`
}

func (s *Service) RevertHandler(w http.ResponseWriter, r *http.Request) {
	var req RevertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
		writeError(w, fmt.Errorf("%w: index is required", ErrBadRequest))
		return
	}

	s.mutate(w, r, func(sess *store.Session, game *chess.Game) (interface{}, error) {
		if err := game.Revert(*req.Index); err != nil {
			return nil, err
		}
		log.Info().Str("gameID", sess.ID).Int("index", *req.Index).Msg("Game reverted")
		return nil, nil
	})
}

// mutate runs fn on the session named in the path while holding its lock,
// saves the result and notifies watchers. fn returns the executed move, or
// nil for a revert.
func (s *Service) mutate(w http.ResponseWriter, r *http.Request, fn func(*store.Session, *chess.Game) (interface{}, error)) {
	id := mux.Vars(r)["id"]
	unlock := s.locks.lock(id)
	defer unlock()

	sess, game, err := s.loadGame(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := fn(sess, game)
	if err != nil {
		writeError(w, err)
		return
	}

	sess.Game = game.Snapshot()
	sess.UpdatedAt = s.now().UTC()
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Str("gameID", sess.ID).Msg("Failed to save game")
		writeError(w, err)
		return
	}

	view := newGameView(sess, game)
	if move, ok := result.(*chess.ExecutedMove); ok {
		s.hub.BroadcastGameUpdate(GameUpdate{GameID: sess.ID, Type: UpdateMove, Data: move})
		if move.Status.IsGameOver() {
			s.hub.BroadcastGameUpdate(GameUpdate{GameID: sess.ID, Type: UpdateGameEnd, Data: newGameEnd(game)})
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"move": move,
			"game": view,
		})
		return
	}

	s.hub.BroadcastGameUpdate(GameUpdate{GameID: sess.ID, Type: UpdateRevert, Data: view})
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"game": view,
	})
}

func (s *Service) loadGame(r *http.Request) (*store.Session, *chess.Game, error) {
	id := mux.Vars(r)["id"]
	sess, err := s.store.Load(r.Context(), id)
	if err != nil {
		return nil, nil, err
	}
	game, err := chess.RestoreGame(sess.Game)
	if err != nil {
		return nil, nil, fmt.Errorf("session %s: %w", id, err)
	}
	return sess, game, nil
}

func validatePlayer(p string) error {
	if p == PlayerHuman {
		return nil
	}
	if _, err := bot.ParseKind(p); err != nil {
		return fmt.Errorf("%w: %w", errUnknownPlayer, err)
	}
	return nil
}

type errorResponse struct {
	Error             string `json:"error"`
	PromotionRequired bool   `json:"promotion_required,omitempty"`
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, chess.ErrInvalidSnapshot):
		// A stored game that no longer restores is our fault, not the caller's.
		return http.StatusInternalServerError
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, errUnknownPlayer),
		errors.Is(err, chess.ErrMalformedPosition),
		errors.Is(err, chess.ErrMalformedNotation):
		return http.StatusBadRequest
	case errors.Is(err, chess.ErrPromotionRequired),
		errors.Is(err, chess.ErrGameOver),
		errors.Is(err, bot.ErrNoLegalMove),
		errors.Is(err, bot.ErrNotBotTurn),
		errors.Is(err, ErrHumanToMove),
		errors.Is(err, ErrBotControlled):
		return http.StatusConflict
	case errors.Is(err, chess.ErrNoPieceAtSource),
		errors.Is(err, chess.ErrNotActiveColor),
		errors.Is(err, chess.ErrIllegalMove),
		errors.Is(err, chess.ErrInvalidPromotionPiece),
		errors.Is(err, chess.ErrInvalidHistoryIndex):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{
		Error:             msg,
		PromotionRequired: errors.Is(err, chess.ErrPromotionRequired),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
