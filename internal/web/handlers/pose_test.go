package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"image"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kozaktomas/pose-detector/internal/database"
	"github.com/kozaktomas/pose-detector/internal/database/mock"
	"github.com/kozaktomas/pose-detector/internal/display"
	"github.com/kozaktomas/pose-detector/internal/logger"
	"github.com/kozaktomas/pose-detector/internal/pose"
)

func TestPoseHandler_Get(t *testing.T) {
	preview := display.NewPreview(800, 600)
	preview.SetLabel(pose.Heart, true)

	recorder := httptest.NewRecorder()
	NewPoseHandler(preview).Get(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/pose", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	var snap display.Snapshot
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &snap))
	assert.Equal(t, pose.Heart, snap.Label)
	assert.True(t, snap.Detected)
	assert.Equal(t, 800, snap.Width)
}

func TestPoseHandler_SetViewport(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantW      int
		wantH      int
	}{
		{"valid", `{"width": 1280, "height": 720}`, http.StatusOK, 1280, 720},
		{"zero width", `{"width": 0, "height": 720}`, http.StatusBadRequest, 640, 480},
		{"negative height", `{"width": 10, "height": -1}`, http.StatusBadRequest, 640, 480},
		{"too large", `{"width": 20000, "height": 10}`, http.StatusBadRequest, 640, 480},
		{"invalid json", `{"width":`, http.StatusBadRequest, 640, 480},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			preview := display.NewPreview(640, 480)
			req := httptest.NewRequest(http.MethodPut, "/api/v1/viewport", strings.NewReader(tc.body))
			recorder := httptest.NewRecorder()

			NewPoseHandler(preview).SetViewport(recorder, req)

			assert.Equal(t, tc.wantStatus, recorder.Code)
			w, h := preview.Size()
			assert.Equal(t, tc.wantW, w)
			assert.Equal(t, tc.wantH, h)
		})
	}
}

func TestHistoryHandler(t *testing.T) {
	ctx := context.Background()
	rec := mock.NewMockRecorder()
	s, err := rec.StartSession(ctx, "test")
	require.NoError(t, err)
	for i, l := range []pose.Label{pose.Standing, pose.HandsUp, pose.Waving} {
		require.NoError(t, rec.RecordEvent(ctx, database.Event{SessionID: s.ID, Frame: int64(i), Label: l, OccurredAt: time.Now()}))
	}
	h := NewHistoryHandler(rec, logger.Discard())

	recorder := httptest.NewRecorder()
	h.List(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/history?limit=2", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var events []database.Event
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &events))
	require.Len(t, events, 2)
	assert.Equal(t, pose.Waving, events[0].Label)

	recorder = httptest.NewRecorder()
	h.List(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/history?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	rec.RecentEventsError = errors.New("db down")
	recorder = httptest.NewRecorder()
	h.List(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/history", nil))
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestHistoryHandler_Disabled(t *testing.T) {
	recorder := httptest.NewRecorder()
	NewHistoryHandler(nil, logger.Discard()).List(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/history", nil))
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}

func TestStreamHandler_Events(t *testing.T) {
	preview := display.NewPreview(0, 0)
	h := NewStreamHandler(preview, logger.Discard())
	server := httptest.NewServer(http.HandlerFunc(h.Events))
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEvent := func() (string, string) {
		var name, data string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\n")
			switch {
			case strings.HasPrefix(line, "event: "):
				name = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			case line == "":
				return name, data
			}
		}
	}

	name, _ := readEvent()
	assert.Equal(t, "status", name)

	require.Eventually(t, func() bool { return preview.Labels().Listeners() == 1 }, time.Second, time.Millisecond)
	preview.SetLabel(pose.ArmsCrossed, true)

	name, data := readEvent()
	assert.Equal(t, "pose", name)
	var event display.LabelEvent
	require.NoError(t, json.Unmarshal([]byte(data), &event))
	assert.Equal(t, pose.ArmsCrossed, event.Label)
	assert.True(t, event.Detected)

	require.NoError(t, preview.Close())
}

func TestStreamHandler_MJPEG(t *testing.T) {
	preview := display.NewPreview(0, 0)
	require.NoError(t, preview.Show(image.NewRGBA(image.Rect(0, 0, 16, 16))))

	h := NewStreamHandler(preview, logger.Discard())
	server := httptest.NewServer(http.HandlerFunc(h.MJPEG))
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "multipart/x-mixed-replace; boundary="+mjpegBoundary, resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "--"+mjpegBoundary+"\r\n", line)
	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "Content-Type: image/jpeg\r\n", line)

	require.NoError(t, preview.Close())
}
