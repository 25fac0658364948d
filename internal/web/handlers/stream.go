package handlers

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/kozaktomas/pose-detector/internal/display"
)

const mjpegBoundary = "poseframe"

// StreamHandler pushes frames and label changes to the browser.
type StreamHandler struct {
	preview *display.Preview
	log     *logrus.Logger
}

// NewStreamHandler creates a stream handler
func NewStreamHandler(preview *display.Preview, log *logrus.Logger) *StreamHandler {
	return &StreamHandler{preview: preview, log: log}
}

// MJPEG streams the presented frames as multipart/x-mixed-replace until the
// client disconnects or the preview closes.
func (h *StreamHandler) MJPEG(w http.ResponseWriter, r *http.Request) {
	flusher, ok := setupStream(w, "multipart/x-mixed-replace; boundary="+mjpegBoundary)
	if !ok {
		return
	}

	frames := h.preview.Frames().AddListener()
	defer h.preview.Frames().RemoveListener(frames)

	h.log.WithField("remote", r.RemoteAddr).Debug("Stream client connected")
	defer h.log.WithField("remote", r.RemoteAddr).Debug("Stream client disconnected")

	var last uint64
	send := func() error {
		data, seq := h.preview.Frame()
		if seq == last || data == nil {
			return nil
		}
		last = seq
		if err := writeFramePart(w, data); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	if err := send(); err != nil {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case _, ok := <-frames:
			if !ok {
				return
			}
			if err := send(); err != nil {
				return
			}
		}
	}
}

func writeFramePart(w http.ResponseWriter, data []byte) error {
	if _, err := fmt.Fprintf(w, "--%s\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", mjpegBoundary, len(data)); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err := w.Write([]byte("\r\n"))
	return err
}

// Events streams label changes as server-sent "pose" events, starting with
// a "status" event holding the current state.
func (h *StreamHandler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := setupStream(w, "text/event-stream")
	if !ok {
		return
	}

	eventCh := h.preview.Labels().AddListener()
	defer h.preview.Labels().RemoveListener(eventCh)

	sendSSEEvent(w, flusher, "status", h.preview.Snapshot())

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-eventCh:
			if !ok {
				return
			}
			sendSSEEvent(w, flusher, event.Type, event)
		}
	}
}
