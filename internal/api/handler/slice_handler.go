package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cuongbtq/slicer-be/internal/api/dto"
	"github.com/cuongbtq/slicer-be/internal/slicer"
)

// StartSlice handles POST /api/slice/start
// Accepts a multipart STL upload plus slicing parameters and launches a
// background job, returning its id immediately.
func (h *SliceHandler) StartSlice(c *gin.Context) {
	h.logger.Info("StartSlice called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
	)

	fileHeader, err := c.FormFile("stl_file")
	if err != nil {
		h.logger.Error("Missing stl_file part", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "stl_file is required"})
		return
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{Error: "mesh file is too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open upload", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to read mesh file"})
		return
	}
	defer file.Close()

	meshData, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("Failed to read upload", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to read mesh file"})
		return
	}

	params, err := parseSliceParams(c)
	if err != nil {
		h.logger.Error("Invalid slicing parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	jobID, err := h.slicer.Start(meshData, params)
	if err != nil {
		if errors.Is(err, slicer.ErrValidation) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
			return
		}
		h.logger.Error("Failed to start slicing job", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to start slicing job"})
		return
	}

	c.JSON(http.StatusOK, dto.StartSliceResponse{JobID: jobID})
}

// StreamProgress handles GET /api/slice/progress/:job_id
// Emits the job's progress records as server-sent events until a terminal
// record (or the synthetic not-found record) ends the stream.
func (h *SliceHandler) StreamProgress(c *gin.Context) {
	jobID := c.Param("job_id")

	h.logger.Info("StreamProgress called",
		slog.String("path", c.Request.URL.Path),
		slog.String("job_id", jobID),
	)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	events := h.slicer.Watch(c.Request.Context(), jobID)

	c.Stream(func(w io.Writer) bool {
		record, open := <-events
		if !open {
			return false
		}
		c.SSEvent("message", record)
		return true
	})
}

func parseSliceParams(c *gin.Context) (slicer.Params, error) {
	var params slicer.Params
	var err error

	params.Pitch, err = strconv.ParseFloat(c.DefaultPostForm("pitch", dto.DefaultPitch), 64)
	if err != nil {
		return slicer.Params{}, errors.New("pitch must be a number")
	}

	params.NumAngles, err = strconv.Atoi(c.DefaultPostForm("num_angles", dto.DefaultNumAngles))
	if err != nil {
		return slicer.Params{}, errors.New("num_angles must be an integer")
	}

	rotations := []struct {
		field string
		dst   *float64
	}{
		{"rot_x", &params.RotX},
		{"rot_y", &params.RotY},
		{"rot_z", &params.RotZ},
	}
	for _, rot := range rotations {
		*rot.dst, err = strconv.ParseFloat(c.DefaultPostForm(rot.field, dto.DefaultRotation), 64)
		if err != nil {
			return slicer.Params{}, errors.New(rot.field + " must be a number")
		}
	}

	return params, nil
}
