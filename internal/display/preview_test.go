package display

import (
	"bytes"
	"image"
	"image/jpeg"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kozaktomas/pose-detector/internal/pose"
)

func TestPreview_ShowStoresJPEG(t *testing.T) {
	p := NewPreview(640, 480)
	frames := p.Frames().AddListener()

	require.NoError(t, p.Show(image.NewRGBA(image.Rect(0, 0, 40, 30))))

	select {
	case <-frames:
	case <-time.After(time.Second):
		t.Fatal("no frame notification")
	}

	data, seq := p.Frame()
	assert.Equal(t, uint64(1), seq)
	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())
}

func TestPreview_Size(t *testing.T) {
	p := NewPreview(0, 0)
	w, h := p.Size()
	assert.Zero(t, w)
	assert.Zero(t, h)

	p.SetSize(1024, 768)
	w, h = p.Size()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)

	snap := p.Snapshot()
	assert.Equal(t, 1024, snap.Width)
	assert.Equal(t, 768, snap.Height)
}

func TestPreview_SetLabelBroadcastsChanges(t *testing.T) {
	p := NewPreview(0, 0)
	events := p.Labels().AddListener()

	p.SetLabel(pose.TPose, true)
	p.SetLabel(pose.TPose, true)
	p.SetLabel(pose.Unknown, false)

	first := <-events
	assert.Equal(t, pose.TPose, first.Label)
	assert.True(t, first.Detected)
	assert.Equal(t, "pose", first.Type)

	second := <-events
	assert.Equal(t, pose.Unknown, second.Label)
	assert.False(t, second.Detected)

	select {
	case ev := <-events:
		t.Fatalf("unexpected event %+v", ev)
	default:
	}

	snap := p.Snapshot()
	assert.Equal(t, pose.Unknown, snap.Label)
	assert.False(t, snap.Detected)
}

func TestPreview_Close(t *testing.T) {
	p := NewPreview(10, 10)
	events := p.Labels().AddListener()

	require.NoError(t, p.Close())

	_, ok := <-events
	assert.False(t, ok, "listener channel should be closed")
	assert.ErrorIs(t, p.Show(image.NewRGBA(image.Rect(0, 0, 2, 2))), ErrClosed)

	late := p.Frames().AddListener()
	_, ok = <-late
	assert.False(t, ok)
}

func TestBroadcaster_SkipsFullListeners(t *testing.T) {
	b := NewBroadcaster[int](1)
	ch := b.AddListener()

	b.Send(1)
	b.Send(2)
	assert.Equal(t, 1, <-ch)

	select {
	case v := <-ch:
		t.Fatalf("unexpected value %d", v)
	default:
	}

	assert.Equal(t, 1, b.Listeners())
	b.RemoveListener(ch)
	assert.Equal(t, 0, b.Listeners())
	_, ok := <-ch
	assert.False(t, ok)
}

func TestDiscard(t *testing.T) {
	d := Discard{Width: 320, Height: 240}
	w, h := d.Size()
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)
	assert.NoError(t, d.Show(image.NewRGBA(image.Rect(0, 0, 1, 1))))
	assert.NoError(t, d.Close())
}
