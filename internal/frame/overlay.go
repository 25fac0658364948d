package frame

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
	"github.com/kozaktomas/pose-detector/internal/config"
	"github.com/kozaktomas/pose-detector/internal/pose"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Overlay draws the pose label and the landmark skeleton onto frames.
type Overlay struct {
	label       config.LabelStyle
	skeleton    config.SkeletonStyle
	fill        color.RGBA
	border      color.RGBA
	line        color.RGBA
	joint       color.RGBA
	connections [][2]pose.Joint
	lineWidth   float64
	face        font.Face
}

// NewOverlay validates the style and resolves colours and joint names.
func NewOverlay(style config.OverlayConfig) (*Overlay, error) {
	o := &Overlay{
		label:    style.Label,
		skeleton: style.Skeleton,
		face:     basicfont.Face7x13,
	}
	if o.label.Scale < 1 {
		o.label.Scale = 1
	}
	if o.label.OutlinePasses < 0 {
		o.label.OutlinePasses = 0
	}
	o.lineWidth = style.Skeleton.LineWidth
	if o.lineWidth <= 0 {
		o.lineWidth = 1
	}

	var err error
	for _, c := range []struct {
		dst   *color.RGBA
		value string
		name  string
	}{
		{&o.fill, style.Label.Fill, "label fill"},
		{&o.border, style.Label.Border, "label border"},
		{&o.line, style.Skeleton.Line, "skeleton line"},
		{&o.joint, style.Skeleton.Joint, "skeleton joint"},
	} {
		if *c.dst, err = ParseHexColor(c.value); err != nil {
			return nil, fmt.Errorf("invalid %s colour: %w", c.name, err)
		}
	}

	for i, pair := range style.Skeleton.Connections {
		if len(pair) != 2 {
			return nil, fmt.Errorf("skeleton connection %d: expected 2 joints, got %d", i, len(pair))
		}
		a, err := pose.ParseJoint(pair[0])
		if err != nil {
			return nil, fmt.Errorf("skeleton connection %d: %w", i, err)
		}
		b, err := pose.ParseJoint(pair[1])
		if err != nil {
			return nil, fmt.Errorf("skeleton connection %d: %w", i, err)
		}
		o.connections = append(o.connections, [2]pose.Joint{a, b})
	}

	return o, nil
}

// ParseHexColor parses "#rrggbb" or "#rgb" into an opaque colour.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("malformed colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("malformed colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// DrawLabel draws text at the configured position. The text is drawn
// several times offset up-left in the border colour, each pass one pixel
// thicker, and once on top in the fill colour, so it stays legible on any
// background. The position is the left end of the text baseline.
func (o *Overlay) DrawLabel(dst draw.Image, text string) {
	if text == "" {
		return
	}

	passes := o.label.OutlinePasses
	pad := passes + 1
	metrics := o.face.Metrics()
	ascent := metrics.Ascent.Ceil()
	textW := font.MeasureString(o.face, text).Ceil()
	textH := ascent + metrics.Descent.Ceil()

	// Render at 1x into a transparent buffer, then scale it onto the frame.
	buf := image.NewRGBA(image.Rect(0, 0, textW+2*pad, textH+2*pad))
	originX, originY := pad, pad+ascent

	for i := range passes {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if i == 0 && (dx != 0 || dy != 0) {
					continue
				}
				o.drawString(buf, o.border, originX-i+dx, originY-i+dy, text)
			}
		}
	}
	o.drawString(buf, o.fill, originX, originY, text)

	scale := o.label.Scale
	db := dst.Bounds()
	x0 := db.Min.X + o.label.X - pad*scale
	y0 := db.Min.Y + o.label.Y - originY*scale
	target := image.Rect(x0, y0, x0+buf.Bounds().Dx()*scale, y0+buf.Bounds().Dy()*scale)
	draw.NearestNeighbor.Scale(dst, target, buf, buf.Bounds(), draw.Over, nil)
}

func (o *Overlay) drawString(dst draw.Image, c color.Color, x, y int, text string) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: o.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// DrawSkeleton draws the configured joint connections and the joints of set.
// Landmarks below the visibility threshold are skipped.
func (o *Overlay) DrawSkeleton(dst *image.RGBA, set *pose.LandmarkSet) {
	if !o.skeleton.Enabled || set.Len() == 0 {
		return
	}

	b := dst.Bounds()
	// Pixel centres, so a joint lands on the pixel its coordinates truncate to.
	toPixel := func(j pose.Joint) (x, y float64, ok bool) {
		lm, ok := set.Get(j)
		if !ok || lm.Visibility < o.skeleton.MinVisibility {
			return 0, 0, false
		}
		x = float64(b.Min.X+int(lm.X*float64(b.Dx()))) + 0.5
		y = float64(b.Min.Y+int(lm.Y*float64(b.Dy()))) + 0.5
		return x, y, true
	}

	dc := gg.NewContextForRGBA(dst)
	dc.SetColor(o.line)
	dc.SetLineWidth(o.lineWidth)
	for _, c := range o.connections {
		x1, y1, ok1 := toPixel(c[0])
		x2, y2, ok2 := toPixel(c[1])
		if ok1 && ok2 {
			dc.DrawLine(x1, y1, x2, y2)
			dc.Stroke()
		}
	}

	if o.skeleton.JointRadius <= 0 {
		return
	}
	dc.SetColor(o.joint)
	for _, j := range set.Joints() {
		if x, y, ok := toPixel(j); ok {
			dc.DrawCircle(x, y, float64(o.skeleton.JointRadius))
			dc.Fill()
		}
	}
}
