package pose

import "math"

// Rule is one step of the classification cascade.
type Rule struct {
	Label       Label
	Description string
	match       func(g *geometry) bool
}

// Matches reports whether the rule holds for the snapshot.
func (r Rule) Matches(s Snapshot) bool {
	g := newGeometry(s)
	return r.match(&g)
}

// geometry caches the torso averages shared by the lower-body rules.
type geometry struct {
	Snapshot
	avgShoulderY float64
	avgHipY      float64
	avgKneeY     float64
}

func newGeometry(s Snapshot) geometry {
	return geometry{
		Snapshot:     s,
		avgShoulderY: (s.LeftShoulder.Y + s.RightShoulder.Y) / 2,
		avgHipY:      (s.LeftHip.Y + s.RightHip.Y) / 2,
		avgKneeY:     (s.LeftKnee.Y + s.RightKnee.Y) / 2,
	}
}

// The tolerances below were tuned by hand. They are compared with strict
// inequalities except for the Bending Down torso check.
var cascade = []Rule{
	{
		Label:       TPose,
		Description: "wrists level with elbows and shoulders on both sides",
		match: func(g *geometry) bool {
			return math.Abs(g.LeftWrist.Y-g.LeftElbow.Y) < 0.1 &&
				math.Abs(g.RightWrist.Y-g.RightElbow.Y) < 0.1 &&
				math.Abs(g.LeftWrist.Y-g.LeftShoulder.Y) < 0.1 &&
				math.Abs(g.RightWrist.Y-g.RightShoulder.Y) < 0.1
		},
	},
	{
		Label:       Heart,
		Description: "wrists raised above elbows and shoulders, close together and angled inward",
		match: func(g *geometry) bool {
			return math.Abs(g.LeftWrist.X-g.RightWrist.X) < 0.3 &&
				g.LeftWrist.Y < g.LeftElbow.Y &&
				g.RightWrist.Y < g.RightElbow.Y &&
				g.LeftWrist.Y < g.LeftShoulder.Y &&
				g.RightWrist.Y < g.RightShoulder.Y &&
				!(math.Abs(g.LeftWrist.X-g.LeftElbow.X) < 0.1) &&
				!(math.Abs(g.RightWrist.X-g.RightElbow.X) < 0.1)
		},
	},
	{
		Label:       HandsUp,
		Description: "both wrists above their elbows and shoulders",
		match: func(g *geometry) bool {
			return g.LeftWrist.Y < g.LeftElbow.Y &&
				g.RightWrist.Y < g.RightElbow.Y &&
				g.LeftWrist.Y < g.LeftShoulder.Y &&
				g.RightWrist.Y < g.RightShoulder.Y
		},
	},
	{
		Label:       Waving,
		Description: "a wrist above its elbow and a wrist above its shoulder",
		match: func(g *geometry) bool {
			return (g.LeftWrist.Y < g.LeftElbow.Y || g.RightWrist.Y < g.RightElbow.Y) &&
				(g.LeftWrist.Y < g.LeftShoulder.Y || g.RightWrist.Y < g.RightShoulder.Y)
		},
	},
	{
		Label:       FoldedHands,
		Description: "wrists together above the elbows but below the shoulder",
		match: func(g *geometry) bool {
			return math.Abs(g.LeftWrist.X-g.RightWrist.X) < 0.05 &&
				g.LeftWrist.Y < g.LeftElbow.Y &&
				g.RightWrist.Y < g.RightElbow.Y &&
				g.LeftWrist.Y > g.LeftShoulder.Y
		},
	},
	{
		Label:       ArmsCrossed,
		Description: "wrists crossed past the opposite shoulders with elbows below the wrists",
		match: func(g *geometry) bool {
			return g.LeftWrist.X > g.RightShoulder.X &&
				g.RightWrist.X < g.LeftShoulder.X &&
				g.LeftElbow.Y > g.LeftWrist.Y &&
				g.RightElbow.Y > g.RightWrist.Y
		},
	},
	{
		Label:       BendingDown,
		Description: "shoulders within 0.2 of the hips vertically, hips above knees",
		match: func(g *geometry) bool {
			return math.Abs(g.avgShoulderY-g.avgHipY) <= 0.2 && g.avgHipY < g.avgKneeY
		},
	},
	{
		Label:       Sitting,
		Description: "hips at or below knee height and roughly level",
		match: func(g *geometry) bool {
			return g.avgHipY > g.avgKneeY && math.Abs(g.LeftHip.Y-g.RightHip.Y) < 0.5
		},
	},
	{
		Label:       Standing,
		Description: "wrists hanging at hip height with elbows inside the wrists",
		match: func(g *geometry) bool {
			return math.Abs(g.LeftWrist.Y-g.LeftHip.Y) < 0.1 &&
				math.Abs(g.RightWrist.Y-g.RightHip.Y) < 0.1 &&
				g.LeftElbow.X < g.LeftWrist.X &&
				g.RightElbow.X > g.RightWrist.X
		},
	},
	{
		Label:       HandsOnHips,
		Description: "upright torso longer than 0.2 with hips above knees",
		match: func(g *geometry) bool {
			return math.Abs(g.avgShoulderY-g.avgHipY) > 0.2 && g.avgHipY < g.avgKneeY
		},
	},
}

// Rules returns the classification cascade in evaluation order.
func Rules() []Rule {
	rules := make([]Rule, len(cascade))
	copy(rules, cascade)
	return rules
}

// Classify returns the label of the first rule that holds for s, or Unknown.
func Classify(s Snapshot) Label {
	g := newGeometry(s)
	for _, r := range cascade {
		if r.match(&g) {
			return r.Label
		}
	}
	return Unknown
}

// Matches returns the labels of every rule that holds for s, in cascade
// order. The first element, if any, is what Classify returns.
func Matches(s Snapshot) []Label {
	g := newGeometry(s)
	var labels []Label
	for _, r := range cascade {
		if r.match(&g) {
			labels = append(labels, r.Label)
		}
	}
	return labels
}

// ClassifySet classifies a landmark set. It fails only when the set is
// missing a required joint.
func ClassifySet(set *LandmarkSet) (Label, error) {
	s, err := NewSnapshot(set)
	if err != nil {
		return Unknown, err
	}
	return Classify(s), nil
}
