// Package sched runs the once-per-day birthday scan. The loop wakes on a
// short ticker, and only the first tick of a new calendar day triggers a
// scan; the checkpoint lives in memory, so a restart may rescan the current
// day.
package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/yourname/bday-bot/internal/domain"
)

// Clock is injected so tests can simulate day rollovers.
type Clock interface {
	Today() string         // DD.MM.YYYY
	TodayDayMonth() string // DD.MM
}

type SystemClock struct{}

func (SystemClock) Today() string         { return time.Now().Format(domain.DateLayout) }
func (SystemClock) TodayDayMonth() string { return time.Now().Format(domain.DayMonthLayout) }

type Store interface {
	ListAll(ctx context.Context) ([]domain.Birthday, error)
}

type Dispatcher interface {
	SendText(ctx context.Context, ownerID int64, text string) error
	SendPhoto(ctx context.Context, ownerID int64, path, caption string) error
}

type Content interface {
	Congratulation(name string) string
	GiftIdea() string
	RandomImage() (string, bool)
}

type Scheduler struct {
	store   Store
	disp    Dispatcher
	content Content
	clock   Clock
	log     zerolog.Logger

	lastFired string // last date a full scan completed for
}

func New(store Store, disp Dispatcher, content Content, clock Clock, log zerolog.Logger) *Scheduler {
	return &Scheduler{store: store, disp: disp, content: content, clock: clock, log: log}
}

// Run blocks until ctx is done. The scan executes synchronously inside the
// tick, so a new tick can never overlap a scan still in flight.
func (s *Scheduler) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick checks for a day rollover and scans at most once per calendar day.
func (s *Scheduler) Tick(ctx context.Context) {
	today := s.clock.Today()
	if today == s.lastFired {
		return
	}
	s.lastFired = today
	s.scan(ctx)
}

func (s *Scheduler) scan(ctx context.Context) {
	recs, err := s.store.ListAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("scan: list birthdays")
		return
	}

	dayMonth := s.clock.TodayDayMonth()
	sent := 0
	for _, r := range recs {
		if _, err := time.Parse(domain.DateLayout, r.Date); err != nil {
			// the store is not trusted to reject malformed dates
			s.log.Warn().Int64("id", r.ID).Str("date", r.Date).Msg("scan: bad stored date")
			continue
		}
		if !r.Matches(dayMonth) {
			continue
		}
		s.notify(ctx, r)
		sent++
	}
	s.log.Info().Str("day", dayMonth).Int("records", len(recs)).Int("notified", sent).Msg("daily scan done")
}

// notify sends the congratulation, an optional postcard and a gift idea, in
// that order. Any failure is logged and never stops the rest of the scan.
func (s *Scheduler) notify(ctx context.Context, r domain.Birthday) {
	if err := s.disp.SendText(ctx, r.OwnerID, s.content.Congratulation(r.Name)); err != nil {
		s.log.Error().Err(err).Int64("owner", r.OwnerID).Int64("id", r.ID).Msg("notify: congratulation")
	}
	if path, ok := s.content.RandomImage(); ok {
		if err := s.disp.SendPhoto(ctx, r.OwnerID, path, ""); err != nil {
			s.log.Error().Err(err).Int64("owner", r.OwnerID).Msg("notify: photo")
		}
	}
	if err := s.disp.SendText(ctx, r.OwnerID, s.content.GiftIdea()); err != nil {
		s.log.Error().Err(err).Int64("owner", r.OwnerID).Msg("notify: gift idea")
	}
}
