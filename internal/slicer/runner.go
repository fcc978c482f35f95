package slicer

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/cuongbtq/slicer-be/internal/geometry"
	"github.com/cuongbtq/slicer-be/internal/imaging"
	"github.com/cuongbtq/slicer-be/internal/progress"
)

// Stage progress ranges. Each stage publishes its start on entry and owns the
// percentage points up to the next stage's start.
const (
	loadingStart    = 0
	voxelizingStart = 5
	projectingStart = 15
	encodingStart   = 85
	progressDone    = 100
)

// run drives one job through every stage to a terminal record. It is the only
// writer of COMPLETE and FAILED records.
func (s *Service) run(jobID string, meshData []byte, params Params) {
	defer func() {
		if r := recover(); r != nil {
			s.fail(jobID, fmt.Errorf("slicing panicked: %v", r))
		}
	}()

	images, err := s.execute(jobID, meshData, params)
	if err != nil {
		s.fail(jobID, err)
		return
	}

	s.store.Set(jobID, progress.Record{
		Progress: progressDone,
		Stage:    progress.StageComplete,
		Status:   "complete",
		Images:   images,
	})

	s.logger.Info("Slicing job completed",
		slog.String("job_id", jobID),
		slog.Int("images", len(images)),
	)
}

func (s *Service) execute(jobID string, meshData []byte, params Params) ([]string, error) {
	// --- Loading ---
	s.publish(jobID, loadingStart, progress.StageLoading, "Centering and rotating mesh...")

	mesh, err := geometry.LoadSTL(meshData)
	if err != nil {
		return nil, err
	}
	if mesh.IsEmpty() {
		return nil, geometry.ErrEmptyMesh
	}
	mesh.Center()
	if params.RotX != 0 || params.RotY != 0 || params.RotZ != 0 {
		mesh.Rotate(params.RotX, params.RotY, params.RotZ)
	}

	// --- Voxelizing ---
	s.publish(jobID, voxelizingStart, progress.StageVoxelizing, "Voxelizing mesh...")

	grid, err := mesh.Voxelize(params.Pitch)
	if err != nil {
		return nil, err
	}

	// --- Projecting ---
	s.publish(jobID, projectingStart, progress.StageProjecting, "Preparing for projection...")

	// Pad so no 45-degree rotation crops the grid
	maxDim := grid.MaxDim()
	pad := int(math.Ceil((math.Sqrt2*float64(maxDim) - float64(maxDim)) / 2))
	padded := grid.Pad(pad)

	angles := make([]float64, params.NumAngles)
	for i := range angles {
		angles[i] = float64(i) * 360 / float64(params.NumAngles)
	}

	projections, err := runProjections(padded, angles, s.concurrency, func(done, total, percent int, status string) {
		s.publish(jobID, percent, progress.StageProjecting, status)
	})
	if err != nil {
		return nil, err
	}

	// --- Encoding ---
	s.publish(jobID, encodingStart, progress.StageEncoding, "Encoding images...")

	total := len(projections)
	images := make([]string, 0, total)
	for i, projection := range projections {
		data, err := imaging.EncodePNG(imaging.Normalize(projection))
		if err != nil {
			return nil, fmt.Errorf("encoding projection %d: %w", i, err)
		}
		images = append(images, imaging.EncodeBase64(data))

		percent := encodingStart + int(float64(i+1)/float64(total)*(progressDone-encodingStart))
		s.publish(jobID, percent, progress.StageEncoding, fmt.Sprintf("Encoding image %d/%d", i+1, total))
	}

	return images, nil
}

// fail publishes the terminal FAILED record. Errors never escape the runner:
// a failing job must not take down the process or touch other jobs.
func (s *Service) fail(jobID string, err error) {
	s.logger.Error("Slicing job failed",
		slog.String("job_id", jobID),
		slog.String("kind", classify(err)),
		slog.String("error", err.Error()),
	)

	s.store.Set(jobID, progress.Record{
		Progress: progressDone,
		Stage:    progress.StageFailed,
		Status:   "failed",
		Error:    err.Error(),
	})
}

func classify(err error) string {
	switch {
	case errors.Is(err, geometry.ErrEmptyMesh):
		return "empty_mesh"
	case errors.Is(err, geometry.ErrMeshFormat):
		return "mesh_format"
	default:
		return "unclassified"
	}
}
