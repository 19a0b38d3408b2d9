package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"StockReconciler/internal/domain"
	"StockReconciler/internal/ports"
)

// SchedulerDeps wires the recurring scrape job.
type SchedulerDeps struct {
	Driver     ports.Scheduler
	Assembler  *Assembler
	Reconciler *Reconciler
	Notifier   ports.Notifier
	Logger     *slog.Logger
}

// Scheduler wires the ticker driver with the scrape (and optional digest) use cases.
type Scheduler struct {
	driver     ports.Scheduler
	assembler  *Assembler
	reconciler *Reconciler
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring jobs.
func NewScheduler(deps SchedulerDeps) *Scheduler {
	return &Scheduler{
		driver:     deps.Driver,
		assembler:  deps.Assembler,
		reconciler: deps.Reconciler,
		notifier:   deps.Notifier,
		logger:     deps.Logger,
	}
}

// Start registers the job with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.assembler == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if err := s.RunOnce(ctx, trigger); err != nil && s.logger != nil {
			s.logger.Error("scheduled run failed", "trigger", trigger.Format(time.RFC3339), "error", err)
		}
	}

	return s.driver.Start(ctx, job)
}

// RunOnce scrapes and stores a snapshot, then publishes a discrepancy digest when
// a notifier is configured.
func (s *Scheduler) RunOnce(ctx context.Context, trigger time.Time) error {
	snapshot, err := s.assembler.ScrapeAndStore(ctx)
	if err != nil {
		return fmt.Errorf("scrape: %w", err)
	}

	if s.notifier == nil || s.reconciler == nil {
		return nil
	}

	result, err := s.reconciler.Run(ctx)
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}

	diffs := Discrepancies(result.Results)
	if len(diffs) == 0 {
		return nil
	}

	message := BuildDigestMessage(snapshot.CapturedAt, diffs)
	if err := s.notifier.PublishDigest(ctx, message); err != nil {
		return fmt.Errorf("publish digest: %w", err)
	}
	return nil
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}

// BuildDigestMessage renders discrepancies as a Markdown list.
func BuildDigestMessage(capturedAt time.Time, records []domain.ComparisonRecord) string {
	if len(records) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Stock reconciliation* %s\n%d discrepancies\n\n", capturedAt.UTC().Format("2006-01-02 15:04"), len(records))
	for _, rec := range records {
		fmt.Fprintf(&b, "- %s / %s: %s", escapeMarkdown(rec.Brand), escapeMarkdown(rec.ProductName), rec.Status)
		if rec.DiffPercent != "" {
			fmt.Fprintf(&b, " (%s)", rec.DiffPercent)
		}
		fmt.Fprintf(&b, "\n  external %s, platform %s\n", formatPrice(rec.PriceExternal), formatPrice(rec.PricePlatform))
	}
	return b.String()
}

// markdownEscaper covers the entity characters of Telegram's legacy Markdown mode.
var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func formatPrice(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *p)
}
