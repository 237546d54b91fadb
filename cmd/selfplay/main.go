package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/justinabrahms/chessengine/internal/bot"
	"github.com/justinabrahms/chessengine/internal/chess"
	"github.com/justinabrahms/chessengine/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	var (
		white    = flag.String("white", cfg.Bots.White, "Bot for white (random, basic)")
		black    = flag.String("black", cfg.Bots.Black, "Bot for black (random, basic)")
		seed     = flag.Int64("seed", cfg.Bots.Seed, "Random seed, 0 seeds from the clock")
		fen      = flag.String("fen", chess.StandardStartPositionFEN, "Starting position")
		maxPlies = flag.Int("max-plies", 400, "Stop after this many plies")
		delay    = flag.Duration("delay", time.Duration(cfg.Bots.DelayMS)*time.Millisecond, "Pause between moves")
	)
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if level, err := zerolog.ParseLevel(cfg.Development.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	players := make(map[chess.Color]bot.Strategy, 2)
	for color, name := range map[chess.Color]string{chess.White: *white, chess.Black: *black} {
		kind, err := bot.ParseKind(name)
		if err != nil {
			log.Fatal().Err(err).Str("color", color.String()).Msg("Invalid bot")
		}
		s, err := bot.New(kind, color, rng)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create bot")
		}
		players[color] = s
	}

	game, err := chess.NewGameFromFEN(*fen)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid starting position")
	}

	log.Info().Str("white", *white).Str("black", *black).Int64("seed", *seed).Msg("Starting self-play")

	result, err := run(game, players, *maxPlies, *delay, func(ply int, m *chess.ExecutedMove) {
		if m.Piece.Color == chess.White {
			fmt.Printf("%d. %s", game.State().FullmoveNumber(), m.SAN)
		} else {
			fmt.Printf(" %s\n", m.SAN)
		}
	})
	fmt.Println()
	if err != nil {
		log.Fatal().Err(err).Msg("Self-play failed")
	}

	fmt.Printf("Result: %s\n", result)
	fmt.Printf("FEN: %s\n", game.GetFEN())
}

// run plays bots against each other until the game ends, a draw can be
// claimed, or maxPlies is reached. It returns a one-word result.
func run(game *chess.Game, players map[chess.Color]bot.Strategy, maxPlies int, delay time.Duration, onMove func(int, *chess.ExecutedMove)) (string, error) {
	for ply := 0; ply < maxPlies; ply++ {
		if game.GetStatus().IsGameOver() {
			break
		}
		if reason := game.GetDrawReason(); reason != "" {
			return "draw (" + reason + ")", nil
		}

		m, err := bot.HandleTurn(players[game.GetActiveColor()], game)
		if err != nil {
			return "", err
		}
		onMove(ply, m)

		if delay > 0 {
			time.Sleep(delay)
		}
	}

	switch game.GetStatus() {
	case chess.StatusCheckmate:
		return game.GetActiveColor().Opposite().String() + " wins", nil
	case chess.StatusStalemate:
		return "draw (Stalemate)", nil
	default:
		return "unfinished", nil
	}
}
