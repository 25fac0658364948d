// Package pose holds the body landmark model and the rule cascade that turns a
// landmark snapshot into a pose label.
package pose

import (
	"fmt"
	"strings"
)

// Joint identifies one body landmark. Values follow the MediaPipe pose model
// landmark indices so that a model output array can be mapped directly.
type Joint int

const (
	Nose Joint = iota
	LeftEyeInner
	LeftEye
	LeftEyeOuter
	RightEyeInner
	RightEye
	RightEyeOuter
	LeftEar
	RightEar
	MouthLeft
	MouthRight
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftPinky
	RightPinky
	LeftIndex
	RightIndex
	LeftThumb
	RightThumb
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
	LeftHeel
	RightHeel
	LeftFootIndex
	RightFootIndex

	// NumJoints is the number of landmarks produced by the pose model.
	NumJoints = int(RightFootIndex) + 1
)

var jointNames = [NumJoints]string{
	"nose",
	"left_eye_inner",
	"left_eye",
	"left_eye_outer",
	"right_eye_inner",
	"right_eye",
	"right_eye_outer",
	"left_ear",
	"right_ear",
	"mouth_left",
	"mouth_right",
	"left_shoulder",
	"right_shoulder",
	"left_elbow",
	"right_elbow",
	"left_wrist",
	"right_wrist",
	"left_pinky",
	"right_pinky",
	"left_index",
	"right_index",
	"left_thumb",
	"right_thumb",
	"left_hip",
	"right_hip",
	"left_knee",
	"right_knee",
	"left_ankle",
	"right_ankle",
	"left_heel",
	"right_heel",
	"left_foot_index",
	"right_foot_index",
}

// RequiredJoints are the joints the classifier reads. A landmark set missing
// any of them cannot be classified.
var RequiredJoints = []Joint{
	LeftWrist, RightWrist,
	LeftElbow, RightElbow,
	LeftShoulder, RightShoulder,
	LeftHip, RightHip,
	LeftKnee, RightKnee,
}

// Valid reports whether j is a known joint.
func (j Joint) Valid() bool {
	return j >= 0 && int(j) < NumJoints
}

// Index returns the MediaPipe landmark index of the joint.
func (j Joint) Index() int {
	return int(j)
}

func (j Joint) String() string {
	if !j.Valid() {
		return fmt.Sprintf("joint(%d)", int(j))
	}
	return jointNames[j]
}

// ParseJoint resolves a joint name. It accepts the snake case form used in JSON
// ("left_wrist"), the upper case MediaPipe enum form ("LEFT_WRIST") and
// dashed or spaced variants ("left-wrist", "Left Wrist").
func ParseJoint(name string) (Joint, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	for i, n := range jointNames {
		if n == key {
			return Joint(i), nil
		}
	}
	return 0, fmt.Errorf("unknown joint %q", name)
}
