// Package detector runs the capture, classify and present loop.
package detector

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kozaktomas/pose-detector/internal/capture"
	"github.com/kozaktomas/pose-detector/internal/config"
	"github.com/kozaktomas/pose-detector/internal/constants"
	"github.com/kozaktomas/pose-detector/internal/display"
	"github.com/kozaktomas/pose-detector/internal/frame"
	"github.com/kozaktomas/pose-detector/internal/landmarks"
	"github.com/kozaktomas/pose-detector/internal/logger"
	"github.com/kozaktomas/pose-detector/internal/pose"
)

// Journal receives the outcome of every presented tick.
type Journal interface {
	Observe(ctx context.Context, frame int64, label pose.Label, detected bool) error
}

// Options are the detector's dependencies. Device, Source and Display are
// required; the rest have defaults.
type Options struct {
	Device   capture.Device
	Source   landmarks.Source
	Display  display.Display
	Overlay  *frame.Overlay
	Recorder Journal
	Interval time.Duration
	Mirror   bool
	Logger   *logrus.Logger
}

// TickResult describes one loop iteration. Label is only meaningful when
// Detected is set.
type TickResult struct {
	Frame     int64
	Detected  bool
	Label     pose.Label
	Presented bool
}

// Detector owns the device and display for the duration of Run.
type Detector struct {
	device   capture.Device
	source   landmarks.Source
	display  display.Display
	overlay  *frame.Overlay
	journal  Journal
	interval time.Duration
	mirror   bool
	log      *logrus.Logger

	frames        int64
	readFailures  int
	showFailures  int
	sourceFailing bool
}

// New validates opts and fills in defaults.
func New(opts Options) (*Detector, error) {
	if opts.Device == nil {
		return nil, errors.New("capture device is required")
	}
	if opts.Source == nil {
		return nil, errors.New("landmark source is required")
	}
	if opts.Display == nil {
		return nil, errors.New("display is required")
	}

	d := &Detector{
		device:   opts.Device,
		source:   opts.Source,
		display:  opts.Display,
		overlay:  opts.Overlay,
		journal:  opts.Recorder,
		interval: opts.Interval,
		mirror:   opts.Mirror,
		log:      opts.Logger,
	}
	if d.interval <= 0 {
		d.interval = constants.DefaultTickInterval
	}
	if d.log == nil {
		d.log = logger.Discard()
	}
	if d.overlay == nil {
		overlay, err := frame.NewOverlay(config.DefaultOverlay())
		if err != nil {
			return nil, err
		}
		d.overlay = overlay
	}
	return d, nil
}

// Run ticks until ctx is done or the display is closed. The device and the
// display are closed when Run returns, also when a tick panics.
func (d *Detector) Run(ctx context.Context) error {
	defer d.release()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.log.WithFields(logger.Fields{"interval": d.interval, "mirror": d.mirror}).Info("Frame loop started")
	for {
		select {
		case <-ctx.Done():
			d.log.WithField("frames", d.frames).Info("Frame loop stopped")
			return nil
		case <-ticker.C:
			if _, err := d.Tick(ctx); err != nil {
				if errors.Is(err, display.ErrClosed) {
					d.log.WithField("frames", d.frames).Info("Display closed")
					return nil
				}
			}
		}
	}
}

func (d *Detector) release() {
	if err := d.display.Close(); err != nil {
		d.log.WithError(err).Warn("Failed to close display")
	}
	if err := d.device.Close(); err != nil {
		d.log.WithError(err).Warn("Failed to close capture device")
	}
}

// Tick processes one frame. Capture failures skip the tick without an
// error; the only errors returned come from the display and are logged here,
// except ErrClosed.
func (d *Detector) Tick(ctx context.Context) (TickResult, error) {
	img, err := d.device.Read()
	if err != nil {
		d.readFailures++
		if d.readFailures == 1 || d.readFailures%constants.ReadFailureLogEvery == 0 {
			d.log.WithError(err).WithField("failures", d.readFailures).Debug("Failed to read frame")
		}
		return TickResult{}, nil
	}
	d.readFailures = 0
	d.frames++

	var canvas *image.RGBA
	if d.mirror {
		canvas = frame.Mirror(img)
	} else {
		canvas = frame.ToRGBA(img)
	}

	result := TickResult{Frame: d.frames}
	if set := d.extract(ctx, canvas); set != nil {
		snap, err := pose.NewSnapshot(set)
		if err != nil {
			d.log.WithError(err).Debug("Incomplete landmarks")
		} else {
			result.Detected = true
			result.Label = pose.Classify(snap)
			d.overlay.DrawSkeleton(canvas, set)
			d.overlay.DrawLabel(canvas, result.Label.String())
		}
	}

	if sink, ok := d.display.(display.LabelSink); ok {
		sink.SetLabel(result.Label, result.Detected)
	}
	if d.journal != nil {
		if err := d.journal.Observe(ctx, result.Frame, result.Label, result.Detected); err != nil {
			d.log.WithError(err).Warn("Failed to record classification")
		}
	}

	var out image.Image = canvas
	if w, h := d.display.Size(); w > 0 && h > 0 {
		out = frame.Fit(canvas, w, h)
	}
	if err := d.display.Show(out); err != nil {
		if !errors.Is(err, display.ErrClosed) {
			d.showFailed(err)
		}
		return result, err
	}
	if d.showFailures > 0 {
		d.log.WithField("failures", d.showFailures).Info("Display recovered")
		d.showFailures = 0
	}
	result.Presented = true
	return result, nil
}

// showFailed logs the first display failure of an outage and then every
// ShowFailureLogEvery-th one.
func (d *Detector) showFailed(err error) {
	d.showFailures++
	if d.showFailures == 1 || d.showFailures%constants.ShowFailureLogEvery == 0 {
		d.log.WithError(err).WithField("failures", d.showFailures).Warn("Failed to present frame")
	}
}

// extract returns nil when no person was found or the source failed.
// Source failures are logged once per outage.
func (d *Detector) extract(ctx context.Context, img image.Image) *pose.LandmarkSet {
	set, err := d.source.Extract(ctx, img)
	if err != nil {
		if !d.sourceFailing {
			d.log.WithError(err).Warn("Landmark extraction failed")
		}
		d.sourceFailing = true
		return nil
	}
	if d.sourceFailing {
		d.log.Info("Landmark extraction recovered")
		d.sourceFailing = false
	}
	return set
}

// Frames returns the number of frames read so far.
func (d *Detector) Frames() int64 {
	return d.frames
}
