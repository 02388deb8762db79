package jobs

import (
	"context"
	"time"

	"pet-services/internal/domain/doctors"
	"pet-services/internal/domain/slots"
	"pet-services/internal/platform/logger"

	"github.com/robfig/cron/v3"
)

const (
	SlotGenerationSpec = "5 0 * * *"
	SlotPurgeSpec      = "30 0 * * *"

	dateLayout = "2006-01-02"
)

type Doctors interface {
	List(ctx context.Context, onlyActive bool) ([]doctors.Doctor, error)
}

type Slots interface {
	Generate(ctx context.Context, in slots.GenerateInput) (slots.GenerateResult, error)
	PurgeBefore(ctx context.Context, date string) (int, error)
}

// Scheduler corre los jobs diarios de la agenda.
type Scheduler struct {
	cron        *cron.Cron
	doctors     Doctors
	slots       Slots
	horizonDays int
	log         logger.Logger
	now         func() time.Time
}

func NewScheduler(docs Doctors, slotSvc Slots, horizonDays int, log logger.Logger) *Scheduler {
	if horizonDays <= 0 {
		horizonDays = 14
	}
	return &Scheduler{
		cron:        cron.New(),
		doctors:     docs,
		slots:       slotSvc,
		horizonDays: horizonDays,
		log:         log.With(map[string]any{"component": "jobs"}),
		now:         time.Now,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(SlotGenerationSpec, func() {
		s.log.Info("running daily slot generation", nil)
		s.GenerateSlots(context.Background())
	}); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(SlotPurgeSpec, func() {
		s.log.Info("running stale slot purge", nil)
		s.PurgeStaleSlots(context.Background())
	}); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop espera a que terminen los jobs en curso o a que venza ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

type GenerationSummary struct {
	Doctors int
	Created int
	Skipped int
	Failed  int
}

// GenerateSlots crea turnos para cada doctor activo con agenda, desde hoy hasta el horizonte.
// Los turnos ya existentes se saltean, así que correrlo dos veces es inocuo.
func (s *Scheduler) GenerateSlots(ctx context.Context) GenerationSummary {
	var sum GenerationSummary
	docs, err := s.doctors.List(ctx, true)
	if err != nil {
		s.log.Error("list doctors failed", map[string]any{"error": err})
		return sum
	}

	today := s.now()
	for _, d := range docs {
		if d.Schedule.Empty() {
			continue
		}
		sum.Doctors++
		for i := 0; i < s.horizonDays; i++ {
			day := today.AddDate(0, 0, i)
			if !d.Schedule.WorksOn(day.Weekday()) {
				continue
			}
			res, err := s.slots.Generate(ctx, slots.GenerateInput{
				DoctorID:        d.ID,
				Date:            day.Format(dateLayout),
				Start:           d.Schedule.Start,
				End:             d.Schedule.End,
				DurationMinutes: d.Schedule.SlotMinutes,
			})
			if err != nil {
				sum.Failed++
				s.log.Error("slot generation failed", map[string]any{
					"error": err, "doctor_id": d.ID, "date": day.Format(dateLayout),
				})
				continue
			}
			sum.Created += res.Created
			sum.Skipped += res.Skipped
		}
	}
	s.log.Info("slot generation done", map[string]any{
		"doctors": sum.Doctors, "created": sum.Created, "skipped": sum.Skipped, "failed": sum.Failed,
	})
	return sum
}

func (s *Scheduler) PurgeStaleSlots(ctx context.Context) int {
	today := s.now().Format(dateLayout)
	n, err := s.slots.PurgeBefore(ctx, today)
	if err != nil {
		s.log.Error("slot purge failed", map[string]any{"error": err, "before": today})
	}
	if n > 0 {
		s.log.Info("stale slots purged", map[string]any{"deleted": n, "before": today})
	}
	return n
}
