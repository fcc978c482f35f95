package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuongbtq/slicer-be/internal/api/dto"
	"github.com/cuongbtq/slicer-be/internal/api/handler"
	"github.com/cuongbtq/slicer-be/internal/api/router"
	"github.com/cuongbtq/slicer-be/internal/progress"
	"github.com/cuongbtq/slicer-be/internal/slicer"
)

func newTestRouter(t *testing.T, maxUpload int64) (*gin.Engine, *progress.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := progress.NewStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := slicer.NewService(&slicer.Config{
		Logger:       logger,
		Store:        store,
		Concurrency:  4,
		PollInterval: 5 * time.Millisecond,
	})

	return router.SetupRouter(&handler.Dependencies{
		Logger:         logger,
		Slicer:         service,
		MaxUploadBytes: maxUpload,
	}), store
}

func cubeUpload(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/cube.stl")
	require.NoError(t, err)
	return data
}

// multipartBody builds a slice/start request body. A nil file map omits the
// file part entirely.
func multipartBody(t *testing.T, file []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if file != nil {
		part, err := writer.CreateFormFile("stl_file", "model.stl")
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

// sseRecorder adds the http.CloseNotifier method that gin's Context.Stream
// requires but httptest.ResponseRecorder does not implement.
type sseRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func newSSERecorder() *sseRecorder {
	return &sseRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool)}
}

func (r *sseRecorder) CloseNotify() <-chan bool { return r.closed }

func postStart(t *testing.T, r *gin.Engine, file []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartBody(t, file, fields)
	req := httptest.NewRequest(http.MethodPost, "/api/slice/start", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStartSlice_Success(t *testing.T) {
	r, store := newTestRouter(t, 0)

	w := postStart(t, r, cubeUpload(t), map[string]string{
		"pitch":      "1.0",
		"num_angles": "2",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.StartSliceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.JobID)

	// The job record exists until a progress stream observes its terminal
	// stage
	assert.Equal(t, 1, store.Len())
}

func TestStartSlice_DefaultsApplied(t *testing.T) {
	r, _ := newTestRouter(t, 0)

	// Only override num_angles so the default 360 does not slow the test;
	// pitch and rotations fall back to their defaults
	w := postStart(t, r, cubeUpload(t), map[string]string{"num_angles": "1"})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStartSlice_ValidationFailures(t *testing.T) {
	tests := []struct {
		name      string
		noFile    bool
		emptyFile bool
		fields    map[string]string
	}{
		{name: "missing file part", noFile: true, fields: map[string]string{"pitch": "1.0"}},
		{name: "empty file", emptyFile: true, fields: map[string]string{"pitch": "1.0"}},
		{name: "zero pitch", fields: map[string]string{"pitch": "0"}},
		{name: "negative pitch", fields: map[string]string{"pitch": "-2"}},
		{name: "non-numeric pitch", fields: map[string]string{"pitch": "thin"}},
		{name: "zero num_angles", fields: map[string]string{"num_angles": "0"}},
		{name: "non-integer num_angles", fields: map[string]string{"num_angles": "4.5"}},
		{name: "non-numeric rotation", fields: map[string]string{"rot_x": "sideways"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, store := newTestRouter(t, 0)

			var file []byte
			switch {
			case tt.noFile:
				file = nil
			case tt.emptyFile:
				file = []byte{}
			default:
				file = cubeUpload(t)
			}

			w := postStart(t, r, file, tt.fields)

			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)

			// A rejected request never creates a job
			assert.Equal(t, 0, store.Len())
		})
	}
}

func TestStartSlice_UploadTooLarge(t *testing.T) {
	r, store := newTestRouter(t, 16)

	w := postStart(t, r, cubeUpload(t), nil)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, 0, store.Len())
}

func TestStreamProgress_UnknownJob(t *testing.T) {
	r, _ := newTestRouter(t, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/slice/progress/no-such-job", nil)
	w := newSSERecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")

	body := w.Body.String()
	assert.Contains(t, body, `"stage":"ERROR"`)
	assert.Contains(t, body, "job not found")
	// Exactly one event before the stream ends
	assert.Equal(t, 1, bytes.Count([]byte(body), []byte("data:")))
}

func TestStreamProgress_EndToEnd(t *testing.T) {
	r, store := newTestRouter(t, 0)

	w := postStart(t, r, cubeUpload(t), map[string]string{
		"pitch":      "1.0",
		"num_angles": "2",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.StartSliceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	req := httptest.NewRequest(http.MethodGet, "/api/slice/progress/"+resp.JobID, nil)
	sw := newSSERecorder()
	r.ServeHTTP(sw, req)

	require.Equal(t, http.StatusOK, sw.Code)

	body := sw.Body.String()
	assert.Contains(t, body, `"stage":"COMPLETE"`)
	assert.Contains(t, body, `"progress":100`)
	assert.Contains(t, body, `"images":`)

	// Terminal delivery cleans up the record
	assert.Equal(t, 0, store.Len())
}

func TestHealthEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, 0)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
