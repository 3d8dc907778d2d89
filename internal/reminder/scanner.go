// Package reminder runs a background digest of upcoming events. It only
// writes to the server log; there is no push channel to clients.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/okravets/calendar-be/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Lookahead window covered by each digest.
const digestWindow = 24 * time.Hour

// Scanner logs a periodic digest of events starting soon.
type Scanner struct {
	eventSvc services.EventServiceProvider
	schedule cron.Schedule
	expr     string
	done     chan bool
}

// NewScanner creates a scanner firing on the given cron expression.
func NewScanner(eventSvc services.EventServiceProvider, cronExpr string) (*Scanner, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid reminder cron expression: %w", err)
	}
	return &Scanner{
		eventSvc: eventSvc,
		schedule: schedule,
		expr:     cronExpr,
		done:     make(chan bool),
	}, nil
}

// Run blocks until Stop, firing a digest at each scheduled time.
func (s *Scanner) Run() {
	log.Info().Str("schedule", s.expr).Msg("starting reminder scanner")
	for {
		next := s.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-s.done:
			timer.Stop()
			log.Info().Msg("stopping reminder scanner")
			return
		case fired := <-timer.C:
			s.scan(fired)
		}
	}
}

// Stop halts the scanner.
func (s *Scanner) Stop() {
	s.done <- true
}

func (s *Scanner) scan(now time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	events, err := s.eventSvc.ListStartingBetween(ctx, now, now.Add(digestWindow))
	if err != nil {
		log.Error().Err(err).Msg("reminder scan failed")
		return
	}

	for _, event := range events {
		log.Info().
			Str("user_id", event.UserID).
			Str("event_id", event.ID).
			Str("title", event.Title).
			Str("importance", string(event.Importance)).
			Time("starts_at", event.StartDate).
			Msg("upcoming event")
	}
	log.Info().Int("count", len(events)).Msg("reminder digest complete")
}
