package landmarks

import (
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kozaktomas/pose-detector/internal/pose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFrame() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for x := range 32 {
		for y := range 24 {
			img.Set(x, y, color.RGBA{R: 10, G: 200, B: 30, A: 255})
		}
	}
	return img
}

func TestClient_Extract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/pose", r.URL.Path)

		file, _, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()

		img, err := jpeg.Decode(file)
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, 32, img.Bounds().Dx())

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"person_detected": true, "model": "mediapipe", "landmarks": ` + tPoseJSON + `}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", time.Second)
	assert.Equal(t, server.URL, client.BaseURL())

	set, err := client.Extract(context.Background(), testFrame())
	require.NoError(t, err)
	require.NotNil(t, set)

	label, err := pose.ClassifySet(set)
	require.NoError(t, err)
	assert.Equal(t, pose.TPose, label)
}

func TestClient_Extract_NoPerson(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"person_detected": false}`))
	}))
	defer server.Close()

	set, err := NewClient(server.URL, time.Second).Extract(context.Background(), testFrame())
	require.NoError(t, err)
	assert.Nil(t, set)
}

func TestClient_Extract_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("model crashed"))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, time.Second).Extract(context.Background(), testFrame())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "model crashed")
}

func TestClient_Extract_BadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, time.Second).Extract(context.Background(), testFrame())
	assert.Error(t, err)
}

func TestClient_Health(t *testing.T) {
	healthy := true
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	assert.NoError(t, client.Health(context.Background()))

	healthy = false
	assert.Error(t, client.Health(context.Background()))
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient("", 0)
	assert.Equal(t, defaultServiceURL, client.BaseURL())
	assert.Equal(t, defaultTimeout, client.client.Timeout)
}
