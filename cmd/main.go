package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/zlog"

	"github.com/lennartdeknikker/jaco-line/cmd/buildCFG"
	"github.com/lennartdeknikker/jaco-line/internal/admission"
	"github.com/lennartdeknikker/jaco-line/internal/api/api"
	rabbitReader "github.com/lennartdeknikker/jaco-line/internal/consumerWorker"
	"github.com/lennartdeknikker/jaco-line/internal/mailer"
	"github.com/lennartdeknikker/jaco-line/internal/rabbit"
	"github.com/lennartdeknikker/jaco-line/internal/service"
	"github.com/lennartdeknikker/jaco-line/internal/store"
	"github.com/lennartdeknikker/jaco-line/internal/verifier"
)

func main() {
	zlog.Init()
	log := zlog.Logger

	cfg := config.New()
	if err := cfg.Load("config.yaml", "", "'"); err != nil {
		log.Fatal().Msgf("failed to load configuration: %v", err)
	}
	serverCfg := buildCFG.BuildServerConfig(cfg, &log)
	port := serverCfg.Port

	storeCfg, err := buildCFG.BuildStoreConfig(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build store config")
	}
	client, err := store.NewClient(storeCfg, &log)
	if err != nil {
		log.Fatal().Msgf("failed to create store client: %v", err)
	}
	if err := client.Ping(context.Background()); err != nil {
		log.Fatal().Msgf("store ping failed: %v", err)
	}
	log.Info().Msg("Document store reachable")

	documents, err := store.NewStore(client, &log)
	if err != nil {
		log.Fatal().Msgf("failed to initialize store: %v", err)
	}

	rabbitCfg, err := buildCFG.BuildRabbitConfig(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load RabbitMQ config")
	}
	rmq, err := rabbit.NewRabbit(rabbitCfg.Url, rabbitCfg.Exchange, rabbitCfg.Queue)
	if err != nil {
		log.Fatal().Msgf("Failed to connect to RabbitMQ: %v", err)
	}
	defer rmq.Close()

	notificationMailer := mailer.New(buildCFG.BuildMailerConfig(cfg, &log), &log)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())

	rabbitReaderer := rabbitReader.NewReader(rmq, notificationMailer)
	go rabbitReaderer.Start(workerCtx)

	tokenVerifier := verifier.New(buildCFG.BuildVerifierConfig(cfg, &log), &log)
	controller := admission.NewController(documents, tokenVerifier, &log)

	serviceInstance := service.NewService(documents, controller, tokenVerifier, &log, rmq)
	app := api.NewRouters(&api.Routers{Service: serviceInstance})

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info().Msgf("Starting server on %s", port)
		if err := app.Run(":" + port); err != nil {
			serverErrChan <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-signalChan:
		log.Info().Msgf("Received signal %s. Initiating shutdown...", sig)
	case err := <-serverErrChan:
		log.Error().Msgf("Server error: %v", err)
	}

	cancelWorkers()
	rabbitReaderer.Stop()

	log.Info().Msg("Shutdown complete")
}
