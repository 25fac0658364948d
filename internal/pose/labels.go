package pose

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Label is the result of classification. The zero value is Unknown.
type Label int

const (
	Unknown Label = iota
	TPose
	Heart
	HandsUp
	Waving
	FoldedHands
	ArmsCrossed
	BendingDown
	Sitting
	Standing
	HandsOnHips
)

var labelNames = map[Label]string{
	Unknown:     "Unknown",
	TPose:       "T-Pose",
	Heart:       "Heart",
	HandsUp:     "Hands Up",
	Waving:      "Waving",
	FoldedHands: "Folded Hands",
	ArmsCrossed: "Arms Crossed",
	BendingDown: "Bending Down",
	Sitting:     "Sitting",
	Standing:    "Standing",
	HandsOnHips: "Hands on Hips",
}

// Labels returns every label in cascade order with Unknown last.
func Labels() []Label {
	return []Label{TPose, Heart, HandsUp, Waving, FoldedHands, ArmsCrossed, BendingDown, Sitting, Standing, HandsOnHips, Unknown}
}

func (l Label) String() string {
	if name, ok := labelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("label(%d)", int(l))
}

// normalizeLabelText folds case, strips diacritics and treats dashes and
// underscores as spaces, so "t_pose", "T-Pose" and "t pose" compare equal.
func normalizeLabelText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, _ = transform.String(t, s)
	s = strings.ToLower(s)
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// ParseLabel resolves a label from its display name.
func ParseLabel(text string) (Label, error) {
	key := normalizeLabelText(text)
	if key == "unknown pose" {
		return Unknown, nil
	}
	for l, name := range labelNames {
		if normalizeLabelText(name) == key {
			return l, nil
		}
	}
	return Unknown, fmt.Errorf("unknown pose label %q", text)
}

func (l Label) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *Label) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding label: %w", err)
	}
	parsed, err := ParseLabel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
