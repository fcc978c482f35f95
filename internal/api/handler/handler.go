package handler

import (
	"log/slog"

	"github.com/cuongbtq/slicer-be/internal/slicer"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger         *slog.Logger
	Slicer         *slicer.Service
	MaxUploadBytes int64
}

// SliceHandler handles slicing-related HTTP requests
type SliceHandler struct {
	logger         *slog.Logger
	slicer         *slicer.Service
	maxUploadBytes int64
}

// NewSliceHandler creates a new SliceHandler instance
func NewSliceHandler(deps *Dependencies) *SliceHandler {
	return &SliceHandler{
		logger:         deps.Logger,
		slicer:         deps.Slicer,
		maxUploadBytes: deps.MaxUploadBytes,
	}
}
