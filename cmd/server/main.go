package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinabrahms/chessengine/internal/config"
	"github.com/justinabrahms/chessengine/internal/store"
	"github.com/justinabrahms/chessengine/internal/web"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Parse command line flags
	var showHelp bool
	var staticDir string
	flag.BoolVar(&showHelp, "help", false, "Show help information")
	flag.BoolVar(&showHelp, "h", false, "Show help information")
	flag.StringVar(&staticDir, "static", "./web/static/", "Directory of static files served at /")
	flag.Parse()

	if showHelp {
		showHelpMessage()
		return
	}

	// Setup logging
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if level, err := zerolog.ParseLevel(cfg.Development.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessions, err := store.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to open session store")
	}
	defer sessions.Close()

	hub := web.NewHub()
	go hub.Run(ctx)

	service := web.NewService(sessions, hub, cfg)
	router := service.Router()

	// Serve static files
	router.PathPrefix("/").Handler(http.FileServer(http.Dir(staticDir)))

	// Create server
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      web.WithMiddleware(router, os.Stdout),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		log.Info().Str("addr", srv.Addr).Str("storage", cfg.Storage.Driver).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func showHelpMessage() {
	fmt.Println(`Chess Engine Server

DESCRIPTION:
    Hosts chess games over HTTP. Every move is validated by the rules
    engine; bots can be assigned to either color. Watchers receive move,
    revert and game_end updates over a WebSocket.

USAGE:
    chess-server [OPTIONS]

OPTIONS:
    -h, --help       Show this help message
    --static DIR     Directory of static files served at / (default ./web/static/)

CONFIGURATION:
    The server is configured via config.yaml in the current directory or
    ./config. Every key can be overridden with a CHESS_ variable, for
    example CHESS_SERVER_PORT=9000 or CHESS_STORAGE_DRIVER=redis.

    Example config.yaml:
        server:
          host: localhost
          port: 8080
        bots:
          seed: 0           # 0 seeds bots from the clock
        storage:
          driver: redis     # memory or redis
          redis_url: redis://localhost:6379/0
          ttl: 24h
        development:
          log_level: debug

API ENDPOINTS:
    GET  /api/health                  - Service health check
    POST /api/games                   - Create a game {fen?, white, black}
    GET  /api/games                   - List games
    GET  /api/games/{id}              - Full game state
    GET  /api/games/{id}/moves?from=  - Legal moves
    POST /api/games/{id}/moves        - Play a move {from, to, promotion?}
    POST /api/games/{id}/bot          - Let the bot to move play once
    POST /api/games/{id}/revert       - Revert to a history index {index}
    GET  /ws?gameId={id}              - Stream game updates

EXAMPLES:
    # Start with default configuration
    chess-server

    # Human as white against the basic bot
    curl -X POST http://localhost:8080/api/games \
      -H "Content-Type: application/json" \
      -d '{"white": "human", "black": "basic"}'`)
}
