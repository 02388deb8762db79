package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"pet-services/internal/adapters/mq/rabbit"
	"pet-services/internal/platform/config"
	"pet-services/internal/platform/logger"
	"pet-services/internal/router"
)

// notifier consume los eventos publicados por la API y envía los mails.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("invalid configuration: " + err.Error())
	}
	log := logger.New(logger.Options{
		Level: logger.ParseLevel(cfg.LogLevel),
		Env:   cfg.Env,
		App:   cfg.AppName + "-notifier",
	})
	if cfg.RabbitURL == "" {
		log.Error("RABBIT_URL is required", nil)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := router.OpenBackend(ctx, cfg)
	if err != nil {
		log.Error("open store failed", map[string]any{"error": err})
		os.Exit(1)
	}
	defer func() { _ = backend.Close(context.Background()) }()
	if backend.Mem != nil {
		log.Warn("memory store: notification dedupe is not shared with other processes", nil)
	}

	sender, err := router.NewMailSender(cfg, log)
	if err != nil {
		log.Error("mail sender", map[string]any{"error": err})
		os.Exit(1)
	}
	dispatcher, err := router.NewDispatcher(cfg, log, backend, sender)
	if err != nil {
		log.Error("dispatcher", map[string]any{"error": err})
		os.Exit(1)
	}

	consumer, err := rabbit.NewConsumer(cfg.RabbitURL, cfg.RabbitExchange, cfg.RabbitQueue, []string{"#"}, log)
	if err != nil {
		log.Error("rabbitmq consumer", map[string]any{"error": err})
		os.Exit(1)
	}
	defer func() { _ = consumer.Close() }()

	log.Info("notifier started", map[string]any{"queue": cfg.RabbitQueue, "mail": cfg.MailDriver})
	err = consumer.Run(ctx, dispatcher.Handle)
	if err != nil && ctx.Err() == nil {
		log.Error("consumer stopped", map[string]any{"error": err})
		os.Exit(1)
	}
	log.Info("notifier stopped", nil)
}
