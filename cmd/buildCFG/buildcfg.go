package buildCFG

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"

	"github.com/lennartdeknikker/jaco-line/internal/mailer"
	"github.com/lennartdeknikker/jaco-line/internal/store"
	"github.com/lennartdeknikker/jaco-line/internal/verifier"
)

type ServerConfig struct {
	Port string
}

type RabbitConfig struct {
	Url      string
	Exchange string
	Queue    string
}

func BuildServerConfig(cfg *config.Config, log *zerolog.Logger) ServerConfig {
	port := cfg.GetString("server.port")
	if port == "" {
		port = "8080"
		log.Warn().Msg("server.port not set, defaulting to 8080")
	}
	return ServerConfig{Port: port}
}

func BuildStoreConfig(cfg *config.Config, log *zerolog.Logger) (store.Config, error) {
	storeCfg := store.Config{
		ProjectID:  cfg.GetString("store.project_id"),
		Dataset:    cfg.GetString("store.dataset"),
		Token:      cfg.GetString("store.token"),
		APIVersion: cfg.GetString("store.api_version"),
	}
	if storeCfg.ProjectID == "" || storeCfg.Dataset == "" {
		return store.Config{}, fmt.Errorf("store.project_id and store.dataset are required")
	}
	if storeCfg.Token == "" {
		log.Warn().Msg("store.token not set, write operations will be rejected by the store")
	}
	return storeCfg, nil
}

func BuildRabbitConfig(cfg *config.Config, log *zerolog.Logger) (RabbitConfig, error) {
	rabbitCfg := RabbitConfig{
		Url:      cfg.GetString("rabbit.url"),
		Exchange: cfg.GetString("rabbit.exchange"),
		Queue:    cfg.GetString("rabbit.queue"),
	}
	if rabbitCfg.Url == "" {
		return RabbitConfig{}, fmt.Errorf("rabbit.url is required")
	}
	if rabbitCfg.Exchange == "" {
		rabbitCfg.Exchange = "notifications"
	}
	if rabbitCfg.Queue == "" {
		rabbitCfg.Queue = "notifications"
	}
	return rabbitCfg, nil
}

func BuildMailerConfig(cfg *config.Config, log *zerolog.Logger) mailer.Config {
	mailerCfg := mailer.Config{
		Host:     cfg.GetString("smtp.host"),
		Port:     cfg.GetInt("smtp.port"),
		From:     cfg.GetString("smtp.from"),
		Password: cfg.GetString("smtp.password"),
		To:       cfg.GetString("smtp.notify_to"),
	}
	if mailerCfg.Host == "" {
		log.Warn().Msg("smtp.host not set, notification e-mails will be skipped")
	}
	if mailerCfg.Port == 0 {
		mailerCfg.Port = 587
	}
	return mailerCfg
}

func BuildVerifierConfig(cfg *config.Config, log *zerolog.Logger) verifier.Config {
	verifierCfg := verifier.Config{
		Secret:   cfg.GetString("verification.secret"),
		Required: cfg.GetBool("verification.required"),
	}
	if verifierCfg.Required && verifierCfg.Secret == "" {
		log.Warn().Msg("verification.required is set without verification.secret, all tokens will fail")
	}
	return verifierCfg
}
