package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"vscraper/internal/ui"
)

type Summary struct {
	Successful int
	Failed     int
	FailedURLs []string
}

func (s Summary) String() string {
	return fmt.Sprintf("Download complete. Successfully downloaded: %d, Failed: %d", s.Successful, s.Failed)
}

type AttemptRecorder interface {
	RecordAttempt(ctx context.Context, a Attempt) error
}

// Batch downloads URLs one at a time and folds the outcomes into a Summary.
type Batch struct {
	Downloader Downloader
	// Recorder is optional.
	Recorder AttemptRecorder
	Strategy Strategy
	Printer  *ui.Printer
	Logger   *slog.Logger
}

// Run processes urls in order. A missing yt-dlp or a cancelled context ends
// the batch early with an error; any other failure is counted and the batch
// moves on.
func (b *Batch) Run(ctx context.Context, urls []string) (Summary, error) {
	if b.Downloader == nil {
		return Summary{}, fmt.Errorf("batch is not fully configured")
	}
	printer := b.Printer
	if printer == nil {
		printer = ui.NewPrinter(nil)
	}
	logger := b.Logger
	if logger == nil {
		logger = slog.Default()
	}
	runID := uuid.NewString()
	logger.Debug("batch started", "run_id", runID, "urls", len(urls), "strategy", b.Strategy)

	var summary Summary
	for _, u := range urls {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		printer.Info("Downloading: %s", u)
		res, err := b.Downloader.Download(ctx, u)
		if errors.Is(err, ErrToolNotFound) {
			return summary, err
		}
		b.record(ctx, logger, runID, u, res, err)

		if err != nil {
			summary.Failed++
			summary.FailedURLs = append(summary.FailedURLs, u)
			printer.Error("Failed to download: %s", u)
			printer.Detail("%v", err)
			logger.Debug("download failed", "url", u, "error", err)
			if ctxErr := ctx.Err(); ctxErr != nil {
				return summary, ctxErr
			}
			continue
		}
		summary.Successful++
		printer.Success("Successfully downloaded: %s", u)
		if res.Filename != "" {
			printer.Detail("saved as %s", res.Filename)
		}
	}

	printer.Plain("")
	printer.Plain("%s", summary)
	return summary, nil
}

func (b *Batch) record(ctx context.Context, logger *slog.Logger, runID, u string, res Result, downloadErr error) {
	if b.Recorder == nil {
		return
	}
	a := Attempt{
		RunID:    runID,
		URL:      u,
		Strategy: b.Strategy,
		Filename: res.Filename,
		Status:   StatusSuccess,
	}
	if downloadErr != nil {
		a.Status = StatusFailed
		a.Error = downloadErr.Error()
	}
	// an interrupted batch still gets its last row
	if err := b.Recorder.RecordAttempt(context.WithoutCancel(ctx), a); err != nil {
		logger.Warn("failed to record attempt", "url", u, "error", err)
	}
}
