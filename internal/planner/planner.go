// Package planner runs the weekly background job that plans, resolves and saves
// next week's schedule for every athlete.
package planner

import (
	"context"
	"errors"
	"time"

	"alcyxob/adaptive-trainer/internal/domain"
	"alcyxob/adaptive-trainer/internal/metrics"
	"alcyxob/adaptive-trainer/internal/service"

	"github.com/robfig/cron"
	"github.com/sirupsen/logrus"
)

// DefaultSpec fires every Sunday at 20:00 (seconds field first).
const DefaultSpec = "0 0 20 * * 0"

const runTimeout = 5 * time.Minute

var ErrAlreadyStarted = errors.New("planner already started")

// Planner owns a cron scheduler with a single weekly job.
type Planner struct {
	svc     service.TrainingService
	metrics *metrics.Manager
	spec    string
	now     func() time.Time
	cron    *cron.Cron
}

// New creates a planner. An empty spec falls back to DefaultSpec and a nil clock to time.Now.
func New(svc service.TrainingService, metricsManager *metrics.Manager, spec string, now func() time.Time) *Planner {
	if spec == "" {
		spec = DefaultSpec
	}
	if now == nil {
		now = time.Now
	}
	return &Planner{svc: svc, metrics: metricsManager, spec: spec, now: now}
}

// Start registers the weekly job and starts the cron goroutine.
func (p *Planner) Start() error {
	if p.cron != nil {
		return ErrAlreadyStarted
	}
	c := cron.New()
	if err := c.AddFunc(p.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		p.RunOnce(ctx)
	}); err != nil {
		return err
	}
	c.Start()
	p.cron = c
	logrus.Infof("weekly planner started with spec %q", p.spec)
	return nil
}

// Stop halts the cron scheduler. A job already running is not interrupted.
func (p *Planner) Stop() {
	if p.cron == nil {
		return
	}
	p.cron.Stop()
	p.cron = nil
	logrus.Info("weekly planner stopped")
}

// RunReport summarizes one planner run.
type RunReport struct {
	WeekStart time.Time
	Planned   int
	Failed    int
	Sessions  int
}

// RunOnce plans next week for every athlete. One athlete failing does not stop the run.
func (p *Planner) RunOnce(ctx context.Context) RunReport {
	report := RunReport{WeekStart: domain.WeekStart(p.now()).AddDate(0, 0, 7)}
	log := logrus.WithField("week_start", report.WeekStart.Format(domain.DateLayout))

	athletes, err := p.svc.ListAthletes(ctx)
	if err != nil {
		log.WithError(err).Error("planner: failed to list athletes")
		p.metrics.CounterPlannerRuns.WithLabelValues("error").Inc()
		return report
	}

	for _, a := range athletes {
		if ctx.Err() != nil {
			log.WithError(ctx.Err()).Warn("planner: run cancelled")
			break
		}
		schedule, _, err := p.svc.PlanWeek(ctx, a.ID, report.WeekStart)
		if err != nil {
			report.Failed++
			p.metrics.CounterPlannerRuns.WithLabelValues("error").Inc()
			log.WithError(err).WithField("user_id", a.ID).Error("planner: failed to plan week")
			continue
		}
		report.Planned++
		report.Sessions += len(schedule.Sessions)
		p.metrics.CounterPlannerRuns.WithLabelValues("ok").Inc()
	}

	log.WithFields(logrus.Fields{
		"planned":  report.Planned,
		"failed":   report.Failed,
		"sessions": report.Sessions,
	}).Info("planner run finished")
	return report
}
