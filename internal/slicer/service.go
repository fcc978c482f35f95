package slicer

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/cuongbtq/slicer-be/internal/progress"
)

// ErrValidation marks intake parameter errors. No job is created when Start
// returns an error wrapping it.
var ErrValidation = errors.New("invalid slicing parameters")

// Params are the validated inputs of a slicing job
type Params struct {
	Pitch     float64
	NumAngles int
	RotX      float64
	RotY      float64
	RotZ      float64
}

// Config holds slicer service configuration
type Config struct {
	Logger *slog.Logger
	Store  *progress.Store

	// Concurrency bounds the projection worker pool; 0 means one worker
	// per CPU
	Concurrency int

	// PollInterval is the progress stream's polling cadence
	PollInterval time.Duration
}

// Service turns mesh payloads into background slicing jobs and exposes their
// progress
type Service struct {
	logger       *slog.Logger
	store        *progress.Store
	concurrency  int
	pollInterval time.Duration
}

// NewService creates a slicer service
func NewService(cfg *Config) *Service {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = 200 * time.Millisecond
	}

	return &Service{
		logger:       cfg.Logger,
		store:        cfg.Store,
		concurrency:  concurrency,
		pollInterval: pollInterval,
	}
}

// Start validates the inputs, registers a new job and launches it in the
// background. It returns the job id immediately without waiting for any
// stage to run.
func (s *Service) Start(meshData []byte, params Params) (string, error) {
	if err := validate(meshData, params); err != nil {
		return "", err
	}

	jobID := uuid.New().String()
	s.store.Set(jobID, progress.Record{
		Progress: 0,
		Stage:    progress.StageIdle,
		Status:   "Initializing...",
	})

	s.logger.Info("Slicing job accepted",
		slog.String("job_id", jobID),
		slog.Float64("pitch", params.Pitch),
		slog.Int("num_angles", params.NumAngles),
	)

	go s.run(jobID, meshData, params)

	return jobID, nil
}

func validate(meshData []byte, params Params) error {
	if len(meshData) == 0 {
		return fmt.Errorf("%w: mesh payload is empty", ErrValidation)
	}
	if params.Pitch <= 0 || math.IsNaN(params.Pitch) || math.IsInf(params.Pitch, 0) {
		return fmt.Errorf("%w: pitch must be a positive number", ErrValidation)
	}
	if params.NumAngles <= 0 {
		return fmt.Errorf("%w: num_angles must be a positive integer", ErrValidation)
	}
	for _, rot := range []float64{params.RotX, params.RotY, params.RotZ} {
		if math.IsNaN(rot) || math.IsInf(rot, 0) {
			return fmt.Errorf("%w: rotation values must be finite numbers", ErrValidation)
		}
	}
	return nil
}

// publish records the latest progress for a job
func (s *Service) publish(jobID string, percent int, stage progress.Stage, status string) {
	s.store.Set(jobID, progress.Record{
		Progress: percent,
		Stage:    stage,
		Status:   status,
	})
}
