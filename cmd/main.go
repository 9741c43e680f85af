package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rabbithabit/rabbit-core/config"
	chat_repo "github.com/rabbithabit/rabbit-core/internal/repo/chat"
	"github.com/rabbithabit/rabbit-core/internal/routers"
	"github.com/rabbithabit/rabbit-core/internal/websocket"
	"github.com/rabbithabit/rabbit-core/internal/worker"
	"github.com/rabbithabit/rabbit-core/state"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// initialize the application
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	state, err := state.InitAppState(ctx, stop)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application state")
	}
	defer state.Close()

	if err := state.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database schema")
	}

	wsHub := websocket.NewHub()
	relay := websocket.NewRelay(wsHub, chat_repo.NewChatRepo(state))
	log.Info().Msg("Websocket hub initialized")

	r := routers.NewRouter(state, wsHub, relay)

	workerPool := worker.NewWorkerPool(state.Redis, config.Conf.WORKER.Num, wsHub)
	workerPool.Start(ctx)
	workerPool.StartDLQWorker(ctx)

	server := &http.Server{
		Addr:         config.Conf.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// serve the application
	go func() {
		log.Info().Msgf("Starting server on http://localhost%s", config.Conf.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(fmt.Sprintf("ListenAndServe failed: %v", err))
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutdown initiated...")
	// gracefully shutdown the application
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("Graceful shutdown failed: %v\n", err)
	} else {
		fmt.Println("Server exited gracefully.")
	}
	wsHub.Close()
	workerPool.Stop()
}
