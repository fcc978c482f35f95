package slicer

import (
	"context"
	"log/slog"
	"time"

	"github.com/cuongbtq/slicer-be/internal/progress"
)

// Watch returns a stream of progress records for a job, polled on the
// service's interval. The channel closes after a terminal record, whose
// store entry is deleted on emission, or after a synthetic not-found record
// when the id is unknown or already cleaned up. Cancelling ctx stops the
// stream without deleting anything.
func (s *Service) Watch(ctx context.Context, jobID string) <-chan progress.Record {
	events := make(chan progress.Record)

	go func() {
		defer close(events)

		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()

		for {
			record, ok := s.store.Get(jobID)
			if !ok {
				select {
				case events <- progress.NotFound():
				case <-ctx.Done():
				}
				return
			}

			select {
			case events <- record:
			case <-ctx.Done():
				return
			}

			if record.Stage.Terminal() {
				s.store.Delete(jobID)
				s.logger.Debug("Terminal record delivered, job cleaned up",
					slog.String("job_id", jobID),
					slog.String("stage", string(record.Stage)),
				)
				return
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events
}
