package router

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"pet-services/internal/adapters/auth/jwt"
	blobmem "pet-services/internal/adapters/blob/memory"
	"pet-services/internal/adapters/blob/gridfs"
	rediscache "pet-services/internal/adapters/cache/redis"
	"pet-services/internal/adapters/mail/logmail"
	"pet-services/internal/adapters/mail/relay"
	"pet-services/internal/adapters/mail/smtp"
	"pet-services/internal/adapters/mq/rabbit"
	"pet-services/internal/notifications"
	"pet-services/internal/platform/config"
	"pet-services/internal/platform/logger"
	"pet-services/internal/ports/auth"
	"pet-services/internal/ports/blob"
	"pet-services/internal/ports/cache"
	"pet-services/internal/ports/mail"
)

// NewMailSender elige el sender según MAIL_DRIVER.
func NewMailSender(cfg config.App, log logger.Logger) (mail.Sender, error) {
	switch cfg.MailDriver {
	case "", "log":
		return logmail.NewSender(log), nil
	case "smtp":
		return smtp.NewSender(smtp.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	case "relay":
		return relay.NewSender(cfg.MailRelayURL, cfg.MailRelayKey)
	default:
		return nil, fmt.Errorf("unknown MAIL_DRIVER %q", cfg.MailDriver)
	}
}

// NewDispatcher arma el dispatcher de notificaciones sobre el backend.
func NewDispatcher(cfg config.App, log logger.Logger, b Backend, sender mail.Sender) (*notifications.Dispatcher, error) {
	return notifications.NewDispatcher(
		sender,
		Collection[notifications.LogEntry](b, notifications.LogCollection),
		notifications.Options{App: cfg.AppName, AdminNotify: cfg.AdminNotifyEmail},
		log.With(map[string]any{"component": "notifications"}),
	)
}

// newTokenManager: sin JWT_SECRET se firma con un secreto aleatorio y no se verifica
// (modo dev por headers X-Debug-*).
func newTokenManager(cfg config.App) (auth.TokenIssuer, auth.AuthVerifier, error) {
	if !cfg.DevAuth() {
		m := jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL)
		return m, m, nil
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, nil, err
	}
	return jwt.NewManager(hex.EncodeToString(buf), cfg.JWTTTL), nil, nil
}

// Setup abre la infraestructura configurada y arma el router.
// El cleanup devuelto cierra conexiones; llamarlo siempre (aunque haya error es nil).
func Setup(ctx context.Context, cfg config.App, log logger.Logger) (*App, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (*App, func(), error) {
		cleanup()
		return nil, nil, err
	}

	backend, err := OpenBackend(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, func() {
		if err := backend.Close(context.Background()); err != nil {
			log.Warn("backend close failed", map[string]any{"error": err})
		}
	})
	log.Info("document store ready", map[string]any{"driver": backend.Driver})

	var blobs blob.Store = blobmem.NewStore(cfg.PublicBaseURL)
	if backend.Mongo != nil {
		gs, err := gridfs.NewStore(backend.Mongo, "files", cfg.PublicBaseURL)
		if err != nil {
			return fail(fmt.Errorf("open gridfs: %w", err))
		}
		blobs = gs
	}

	var c cache.Cache
	if cfg.RedisAddr != "" {
		rdb, err := rediscache.Open(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fail(fmt.Errorf("open redis: %w", err))
		}
		closers = append(closers, func() { _ = rdb.Close() })
		c = rediscache.New(rdb, cfg.AppName+":")
	}

	sender, err := NewMailSender(cfg, log)
	if err != nil {
		return fail(err)
	}

	opts := Options{
		Config:  cfg,
		Log:     log,
		Backend: backend,
		Blobs:   blobs,
		Cache:   c,
		Mail:    sender,
	}
	if cfg.RabbitURL != "" {
		pub, err := rabbit.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() { _ = pub.Close() })
		opts.Publisher = pub
		log.Info("publishing events to rabbitmq", map[string]any{"exchange": cfg.RabbitExchange})
	}

	app, err := NewRouter(opts)
	if err != nil {
		return fail(err)
	}
	return app, cleanup, nil
}
