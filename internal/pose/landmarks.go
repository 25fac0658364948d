package pose

import (
	"errors"
	"fmt"
	"sort"
)

// ErrMissingJoint is returned when a landmark set lacks a joint the classifier needs.
var ErrMissingJoint = errors.New("missing required joint")

// Landmark is a normalized body landmark. X and Y are relative to the image
// width and height (origin top-left, Y grows downward). Z is the model's
// relative depth and is not used for classification.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// LandmarkSet is an immutable mapping from joints to landmarks for one frame.
type LandmarkSet struct {
	points map[Joint]Landmark
}

// NewLandmarkSet builds a landmark set from points. The map is copied and
// unknown joints are dropped.
func NewLandmarkSet(points map[Joint]Landmark) *LandmarkSet {
	set := &LandmarkSet{points: make(map[Joint]Landmark, len(points))}
	for j, lm := range points {
		if j.Valid() {
			set.points[j] = lm
		}
	}
	return set
}

// Get returns the landmark for a joint.
func (s *LandmarkSet) Get(j Joint) (Landmark, bool) {
	if s == nil {
		return Landmark{}, false
	}
	lm, ok := s.points[j]
	return lm, ok
}

// Len returns the number of joints in the set.
func (s *LandmarkSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.points)
}

// Joints returns the joints present in the set in landmark index order.
func (s *LandmarkSet) Joints() []Joint {
	if s == nil {
		return nil
	}
	joints := make([]Joint, 0, len(s.points))
	for j := range s.points {
		joints = append(joints, j)
	}
	sort.Slice(joints, func(a, b int) bool { return joints[a] < joints[b] })
	return joints
}

// Snapshot holds the ten joints the classifier reads. It can only be built
// from a landmark set that contains all of them.
type Snapshot struct {
	LeftWrist, RightWrist       Landmark
	LeftElbow, RightElbow       Landmark
	LeftShoulder, RightShoulder Landmark
	LeftHip, RightHip           Landmark
	LeftKnee, RightKnee         Landmark
}

// NewSnapshot extracts the required joints from set. Coordinates are not
// range checked.
func NewSnapshot(set *LandmarkSet) (Snapshot, error) {
	var s Snapshot
	targets := map[Joint]*Landmark{
		LeftWrist:     &s.LeftWrist,
		RightWrist:    &s.RightWrist,
		LeftElbow:     &s.LeftElbow,
		RightElbow:    &s.RightElbow,
		LeftShoulder:  &s.LeftShoulder,
		RightShoulder: &s.RightShoulder,
		LeftHip:       &s.LeftHip,
		RightHip:      &s.RightHip,
		LeftKnee:      &s.LeftKnee,
		RightKnee:     &s.RightKnee,
	}
	for _, j := range RequiredJoints {
		lm, ok := set.Get(j)
		if !ok {
			return Snapshot{}, fmt.Errorf("%w: %s", ErrMissingJoint, j)
		}
		*targets[j] = lm
	}
	return s, nil
}

// Set converts the snapshot back into a landmark set.
func (s Snapshot) Set() *LandmarkSet {
	return NewLandmarkSet(map[Joint]Landmark{
		LeftWrist:     s.LeftWrist,
		RightWrist:    s.RightWrist,
		LeftElbow:     s.LeftElbow,
		RightElbow:    s.RightElbow,
		LeftShoulder:  s.LeftShoulder,
		RightShoulder: s.RightShoulder,
		LeftHip:       s.LeftHip,
		RightHip:      s.RightHip,
		LeftKnee:      s.LeftKnee,
		RightKnee:     s.RightKnee,
	})
}
