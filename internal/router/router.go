package router

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	_ "pet-services/docs"

	blobmem "pet-services/internal/adapters/blob/memory"
	"pet-services/internal/adapters/mail/logmail"
	"pet-services/internal/domain/admins"
	"pet-services/internal/domain/appointments"
	authn "pet-services/internal/domain/auth"
	"pet-services/internal/domain/boarding"
	"pet-services/internal/domain/customers"
	"pet-services/internal/domain/doctors"
	"pet-services/internal/domain/grooming"
	"pet-services/internal/domain/messages"
	"pet-services/internal/domain/prescriptions"
	"pet-services/internal/domain/products"
	"pet-services/internal/domain/slots"
	"pet-services/internal/domain/testimonials"
	"pet-services/internal/jobs"
	"pet-services/internal/middleware"
	"pet-services/internal/notifications"
	"pet-services/internal/platform/config"
	"pet-services/internal/platform/httpx"
	"pet-services/internal/platform/logger"
	"pet-services/internal/ports/auth"
	"pet-services/internal/ports/blob"
	"pet-services/internal/ports/cache"
	"pet-services/internal/ports/events"
	"pet-services/internal/ports/mail"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Config config.App
	Log    logger.Logger

	// Zero value = memory.
	Backend Backend
	// nil = blobs en memoria.
	Blobs blob.Store
	// nil = sin cache.
	Cache cache.Cache

	// Si se pasan, reemplazan lo que se derivaría de Config (tests).
	Issuer   auth.TokenIssuer
	Verifier auth.AuthVerifier

	// nil = dispatch in-process con Mail.
	Publisher events.Publisher
	Mail      mail.Sender
}

// App es el router más lo que main necesita arrancar aparte.
type App struct {
	Handler    http.Handler
	Scheduler  *jobs.Scheduler
	Dispatcher *notifications.Dispatcher // nil si los eventos van a rabbit
}

func NewRouter(opts Options) (*App, error) {
	cfg := opts.Config
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	b := opts.Backend
	if b.Mem == nil && b.Mongo == nil && b.SQL == nil {
		b = MemoryBackend()
	}
	blobs := opts.Blobs
	if blobs == nil {
		blobs = blobmem.NewStore(cfg.PublicBaseURL)
	}

	issuer, verifier := opts.Issuer, opts.Verifier
	if issuer == nil {
		i, v, err := newTokenManager(cfg)
		if err != nil {
			return nil, err
		}
		issuer = i
		if verifier == nil {
			verifier = v
		}
	}

	app := &App{}
	pub := opts.Publisher
	if pub == nil {
		sender := opts.Mail
		if sender == nil {
			sender = logmail.NewSender(log)
		}
		d, err := NewDispatcher(cfg, log, b, sender)
		if err != nil {
			return nil, err
		}
		app.Dispatcher = d
		pub = d
	}

	// Services
	adminSvc := admins.NewService(admins.NewRepository(Collection[admins.Admin](b, admins.Collection)))
	authSvc := authn.NewService(
		adminSvc,
		authn.NewRepository(Collection[authn.Challenge](b, authn.Collection)),
		issuer, pub, log,
		authn.Options{OTPRequired: cfg.OTPRequired, OTPTTL: cfg.OTPTTL},
	)
	customerSvc := customers.NewService(customers.NewRepository(Collection[customers.Customer](b, customers.Collection)))
	doctorSvc := doctors.NewService(doctors.NewRepository(Collection[doctors.Doctor](b, doctors.Collection)))
	slotSvc := slots.NewService(slots.NewRepository(Collection[slots.Slot](b, slots.Collection)))
	apptSvc := appointments.NewService(
		appointments.NewRepository(Collection[appointments.Appointment](b, appointments.Collection)),
		slotSvc, doctorSvc, pub, log,
	)
	groomingSvc := grooming.NewService(grooming.NewRepository(Collection[grooming.Booking](b, grooming.Collection)), pub, log)
	boardingSvc := boarding.NewService(boarding.NewRepository(Collection[boarding.Center](b, boarding.Collection)), adminSvc, pub, log)
	productSvc := products.NewService(
		products.NewRepository(Collection[products.Product](b, products.Collection)),
		blobs, opts.Cache, cfg.CacheTTL, log,
	)
	testimonialSvc := testimonials.NewService(testimonials.NewRepository(Collection[testimonials.Testimonial](b, testimonials.Collection)), blobs, log)
	prescriptionSvc := prescriptions.NewService(
		prescriptions.NewRepository(Collection[prescriptions.Prescription](b, prescriptions.Collection)),
		apptSvc, doctorSvc, blobs, pub, log,
	)
	messageSvc := messages.NewService(messages.NewRepository(Collection[messages.Message](b, messages.Collection)), pub, log)

	app.Scheduler = jobs.NewScheduler(doctorSvc, slotSvc, cfg.SlotHorizonDays, log)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log))

	r.Use(middleware.AuthContext(verifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/files/*", filesHandler(blobs, log))
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Rutas por módulo
	admins.RegisterRoutes(r, adminSvc, log)
	authn.RegisterRoutes(r, authSvc, log)
	customers.RegisterRoutes(r, customerSvc, log)
	doctors.RegisterRoutes(r, doctorSvc, log)
	slots.RegisterRoutes(r, slotSvc, log)
	appointments.RegisterRoutes(r, apptSvc, log)
	grooming.RegisterRoutes(r, groomingSvc, log)
	boarding.RegisterRoutes(r, boardingSvc, log)
	products.RegisterRoutes(r, productSvc, log)
	testimonials.RegisterRoutes(r, testimonialSvc, log)
	prescriptions.RegisterRoutes(r, prescriptionSvc, log)
	messages.RegisterRoutes(r, messageSvc, log)

	app.Handler = r
	return app, nil
}

// filesHandler sirve los blobs guardados (imágenes, recetas).
func filesHandler(blobs blob.Store, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		if path == "" || strings.Contains(path, "..") {
			http.NotFound(w, r)
			return
		}
		rc, obj, err := blobs.Open(r.Context(), path)
		if err != nil {
			if errors.Is(err, blob.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			httpx.WriteError(w, log, err)
			return
		}
		defer rc.Close()

		if obj.ContentType != "" {
			w.Header().Set("Content-Type", obj.ContentType)
		}
		if obj.Size > 0 {
			w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
		}
		w.Header().Set("Cache-Control", "public, max-age=86400")
		if _, err := io.Copy(w, rc); err != nil {
			log.Warn("file stream interrupted", map[string]any{"error": err, "path": path})
		}
	}
}
