package landmarks

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/kozaktomas/pose-detector/internal/pose"
)

// Frame is one recorded landmark snapshot. Landmarks is nil when no person
// was detected in the frame.
type Frame struct {
	Index     int
	Landmarks *pose.LandmarkSet
}

// point is the JSON form of a landmark. Visibility defaults to 1 when absent.
type point struct {
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Z          float64  `json:"z"`
	Visibility *float64 `json:"visibility"`
}

func (p point) landmark() pose.Landmark {
	lm := pose.Landmark{X: p.X, Y: p.Y, Z: p.Z, Visibility: 1}
	if p.Visibility != nil {
		lm.Visibility = *p.Visibility
	}
	return lm
}

// detection is the single-frame envelope, also used by the pose service.
type detection struct {
	PersonDetected *bool           `json:"person_detected"`
	Landmarks      json.RawMessage `json:"landmarks"`
	Model          string          `json:"model"`
}

// mmdFrames is the multi-frame tracking export keyed by frame number.
type mmdFrames struct {
	Frames map[string]struct {
		Mediapipe json.RawMessage `json:"mediapipe"`
	} `json:"frames"`
}

// decodeLandmarks decodes either a joint-name keyed object or a MediaPipe
// ordered array. Unknown joint names are ignored. An empty or null value
// yields nil.
func decodeLandmarks(raw json.RawMessage) (*pose.LandmarkSet, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	points := make(map[pose.Joint]pose.Landmark)
	switch raw[0] {
	case '[':
		var list []point
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("failed to parse landmark array: %w", err)
		}
		for i, p := range list {
			if j := pose.Joint(i); j.Valid() {
				points[j] = p.landmark()
			}
		}
	case '{':
		var named map[string]json.RawMessage
		if err := json.Unmarshal(raw, &named); err != nil {
			return nil, fmt.Errorf("failed to parse landmark map: %w", err)
		}
		for name, value := range named {
			j, err := pose.ParseJoint(name)
			if err != nil {
				continue
			}
			var p point
			if err := json.Unmarshal(value, &p); err != nil {
				return nil, fmt.Errorf("failed to parse landmark %s: %w", name, err)
			}
			points[j] = p.landmark()
		}
	default:
		return nil, errors.New("landmarks must be an object or an array")
	}

	if len(points) == 0 {
		return nil, nil
	}
	return pose.NewLandmarkSet(points), nil
}

// DecodeFrame decodes a single landmark snapshot. Accepted forms are an
// envelope {"person_detected": ..., "landmarks": ...}, a bare joint map and a
// MediaPipe ordered array.
func DecodeFrame(data []byte) (*pose.LandmarkSet, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var env detection
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("failed to parse frame: %w", err)
		}
		if env.PersonDetected != nil && !*env.PersonDetected {
			return nil, nil
		}
		if env.Landmarks != nil {
			return decodeLandmarks(env.Landmarks)
		}
	}
	return decodeLandmarks(data)
}

// DecodeFrames decodes a landmark file. Besides the single-frame forms of
// DecodeFrame it accepts {"frames": {"<n>": {"mediapipe": {...}}}} with one
// entry per video frame; frames are returned sorted by frame number.
func DecodeFrames(data []byte) ([]Frame, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var multi mmdFrames
		if err := json.Unmarshal(trimmed, &multi); err == nil && multi.Frames != nil {
			frames := make([]Frame, 0, len(multi.Frames))
			for key, f := range multi.Frames {
				idx, err := strconv.Atoi(key)
				if err != nil {
					return nil, fmt.Errorf("invalid frame number %q", key)
				}
				set, err := decodeLandmarks(f.Mediapipe)
				if err != nil {
					return nil, fmt.Errorf("frame %d: %w", idx, err)
				}
				frames = append(frames, Frame{Index: idx, Landmarks: set})
			}
			sort.Slice(frames, func(a, b int) bool { return frames[a].Index < frames[b].Index })
			return frames, nil
		}
	}

	set, err := DecodeFrame(trimmed)
	if err != nil {
		return nil, err
	}
	return []Frame{{Index: 0, Landmarks: set}}, nil
}

// LoadFile reads and decodes a landmark file.
func LoadFile(path string) ([]Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read landmark file: %w", err)
	}
	frames, err := DecodeFrames(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return frames, nil
}
