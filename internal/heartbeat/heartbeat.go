// Package heartbeat schedules proactive check-ins and nightly maintenance.
package heartbeat

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bowerhall/vera/internal/agent"
	"github.com/bowerhall/vera/internal/bot"
	"github.com/bowerhall/vera/internal/logger"
)

type Runner struct {
	cron *cron.Cron
}

func NewRunner(loc *time.Location) *Runner {
	if loc == nil {
		loc = time.UTC
	}
	return &Runner{
		cron: cron.New(cron.WithLocation(loc)),
	}
}

// AddCheckIn wires a persona's heartbeat: on each tick the agent drafts a
// check-in from memory and pushes it to the configured chat.
func (r *Runner) AddCheckIn(a *agent.Agent, b bot.Bot, spec string, chatID int64) error {
	if spec == "" || chatID == 0 {
		return nil
	}

	_, err := r.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		msg, err := a.Heartbeat(ctx)
		if err != nil {
			logger.Error("heartbeat failed", "persona", a.Name(), "error", err)
			return
		}
		if err := b.Send(chatID, msg); err != nil {
			logger.Error("heartbeat send failed", "persona", a.Name(), "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("heartbeat schedule %q: %w", spec, err)
	}

	logger.Info("heartbeat scheduled", "persona", a.Name(), "spec", spec, "chat", chatID)
	return nil
}

// AddJob registers a named maintenance job (memory rescan, cache prune,
// backups).
func (r *Runner) AddJob(name, spec string, fn func(ctx context.Context)) error {
	_, err := r.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		logger.Debug("scheduled job running", "job", name)
		fn(ctx)
	})
	if err != nil {
		return fmt.Errorf("job %s schedule %q: %w", name, spec, err)
	}
	return nil
}

func (r *Runner) Jobs() int {
	return len(r.cron.Entries())
}

func (r *Runner) Start() {
	r.cron.Start()
}

func (r *Runner) Stop() {
	r.cron.Stop()
}
