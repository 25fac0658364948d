package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/pose-detector/internal/capture"
	"github.com/kozaktomas/pose-detector/internal/config"
	"github.com/kozaktomas/pose-detector/internal/database"
	"github.com/kozaktomas/pose-detector/internal/database/postgres"
	"github.com/kozaktomas/pose-detector/internal/detector"
	"github.com/kozaktomas/pose-detector/internal/display"
	"github.com/kozaktomas/pose-detector/internal/frame"
	"github.com/kozaktomas/pose-detector/internal/landmarks"
	"github.com/kozaktomas/pose-detector/internal/logger"
	"github.com/kozaktomas/pose-detector/internal/web"
	"github.com/kozaktomas/pose-detector/internal/web/handlers"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the pose detection loop",
	Long: `Start the capture, classify and display loop.

Frames come from a webcam (requires a build with -tags gocv) or, with
--capture-dir, from a directory of images that is replayed in a loop.
Landmarks come from the pose estimation service at POSE_SERVICE_URL or,
with --landmarks, from a recorded landmark file.

Examples:
  pose-detector run
  pose-detector run --display web --capture-dir ./frames
  pose-detector run --display none --capture-dir ./frames --landmarks session.json --record`,
	RunE: runDetector,
}

func init() {
	rootCmd.AddCommand(runCmd)
	addRunFlags(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("display", "", "Display: window, web or none (default from DISPLAY_MODE)")
	cmd.Flags().Int("device", -1, "Camera device index (default from CAPTURE_DEVICE)")
	cmd.Flags().String("capture-dir", "", "Replay images from this directory instead of a camera")
	cmd.Flags().String("landmarks", "", "Replay landmarks from a JSON file instead of the pose service")
	cmd.Flags().Duration("interval", 0, "Frame loop period (default from TICK_INTERVAL_MS)")
	cmd.Flags().Bool("no-mirror", false, "Do not flip frames horizontally")
	cmd.Flags().Bool("record", false, "Journal label transitions to PostgreSQL (DATABASE_URL)")
	cmd.Flags().String("pose-service", "", "Pose estimation service URL (default from POSE_SERVICE_URL)")
}

// applyRunFlags overrides the environment configuration with explicit flags.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) error {
	if mode := mustGetString(cmd, "display"); mode != "" {
		switch mode {
		case config.DisplayWindow, config.DisplayWeb, config.DisplayNone:
			cfg.Display.Mode = mode
		default:
			return fmt.Errorf("invalid --display %q: use window, web or none", mode)
		}
	}
	if device := mustGetInt(cmd, "device"); device >= 0 {
		cfg.Capture.Device = device
	}
	if dir := mustGetString(cmd, "capture-dir"); dir != "" {
		cfg.Capture.Dir = dir
	}
	if interval := mustGetDuration(cmd, "interval"); interval > 0 {
		cfg.Capture.IntervalMS = int(interval / time.Millisecond)
		if cfg.Capture.IntervalMS == 0 {
			cfg.Capture.IntervalMS = 1
		}
	}
	if url := mustGetString(cmd, "pose-service"); url != "" {
		cfg.PoseService.URL = url
	}
	if mustGetBool(cmd, "no-mirror") {
		cfg.Capture.Mirror = false
	}
	if mustGetBool(cmd, "record") && cfg.Database.URL == "" {
		return errors.New("--record requires DATABASE_URL")
	}
	return nil
}

func runDetector(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if err := applyRunFlags(cmd, cfg); err != nil {
		return err
	}
	log := logger.NewLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	overlay, err := frame.NewOverlay(cfg.Overlay)
	if err != nil {
		return fmt.Errorf("invalid overlay style: %w", err)
	}

	source, poseHealth, err := openLandmarkSource(cfg, mustGetString(cmd, "landmarks"), log)
	if err != nil {
		return err
	}

	device, sourceName, err := openDevice(cfg)
	if err != nil {
		return err
	}

	disp, preview, err := openDisplay(cfg)
	if err != nil {
		device.Close()
		return err
	}

	opts := detector.Options{
		Device:   device,
		Source:   source,
		Display:  disp,
		Overlay:  overlay,
		Interval: time.Duration(cfg.Capture.IntervalMS) * time.Millisecond,
		Mirror:   cfg.Capture.Mirror,
		Logger:   log,
	}

	var recorder database.Recorder
	if mustGetBool(cmd, "record") {
		journal, err := openJournal(ctx, cfg, sourceName, log)
		if err != nil {
			disp.Close()
			device.Close()
			return err
		}
		defer journal.Close()
		opts.Recorder = journal
		recorder, _ = database.GetRecorder()
	}

	det, err := detector.New(opts)
	if err != nil {
		disp.Close()
		device.Close()
		return err
	}

	log.WithFields(logger.Fields{
		"capture": sourceName,
		"display": cfg.Display.Mode,
	}).Info("Starting pose detection, press Ctrl+C to stop")

	if preview == nil {
		return det.Run(ctx)
	}

	server := web.NewServer(cfg.Web, web.Options{
		Preview:    preview,
		Journal:    recorder,
		PoseHealth: poseHealth,
		Logger:     log,
	})
	fmt.Printf("Preview on http://%s\n", server.Addr())
	return serveWhileRunning(ctx, server, det.Run, log)
}

// previewServer is the part of web.Server the run command drives.
type previewServer interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// serveWhileRunning serves the preview for as long as loop runs. A server
// that fails to start stops the loop and its error is returned.
func serveWhileRunning(ctx context.Context, server previewServer, loop func(context.Context) error, log *logrus.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	serveErr := make(chan error, 1)
	go func() {
		err := server.Start()
		if err != nil {
			log.WithError(err).Error("Web preview failed")
			cancel()
		}
		serveErr <- err
	}()

	runErr := loop(ctx)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Error during shutdown")
	}

	if err := <-serveErr; err != nil && runErr == nil {
		return err
	}
	return runErr
}

// openLandmarkSource returns the landmark source and, for the pose service,
// its health probe.
func openLandmarkSource(cfg *config.Config, file string, log *logrus.Logger) (landmarks.Source, handlers.HealthChecker, error) {
	if file != "" {
		frames, err := landmarks.LoadFile(file)
		if err != nil {
			return nil, nil, err
		}
		log.WithFields(logger.Fields{"file": file, "frames": len(frames)}).Info("Replaying recorded landmarks")
		return landmarks.NewReplay(frames), nil, nil
	}

	client := landmarks.NewClient(cfg.PoseService.URL, time.Duration(cfg.PoseService.TimeoutMS)*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Health(ctx); err != nil {
		log.WithError(err).WithField("url", client.BaseURL()).Warn("Pose service not reachable, frames will show no detection until it is")
	}
	return client, client.Health, nil
}

// openDevice opens the capture device and returns a name for the journal.
func openDevice(cfg *config.Config) (capture.Device, string, error) {
	if cfg.Capture.Dir != "" {
		dir, err := capture.OpenDir(cfg.Capture.Dir)
		if err != nil {
			return nil, "", err
		}
		return dir, "dir:" + cfg.Capture.Dir, nil
	}

	cam, err := capture.OpenWebcam(cfg.Capture.Device)
	if errors.Is(err, capture.ErrUnsupported) {
		return nil, "", fmt.Errorf("%w: rebuild with -tags gocv or use --capture-dir", err)
	}
	if err != nil {
		return nil, "", err
	}
	return cam, fmt.Sprintf("webcam:%d", cfg.Capture.Device), nil
}

// openDisplay returns the display and, in web mode, the preview behind it.
func openDisplay(cfg *config.Config) (display.Display, *display.Preview, error) {
	switch cfg.Display.Mode {
	case config.DisplayWeb:
		preview := display.NewPreview(0, 0)
		return preview, preview, nil
	case config.DisplayNone:
		return display.Discard{}, nil, nil
	default:
		w, err := display.OpenWindow(cfg.Overlay.Window)
		if errors.Is(err, display.ErrUnsupported) {
			return nil, nil, fmt.Errorf("%w: rebuild with -tags gocv or use --display web", err)
		}
		return w, nil, err
	}
}

func openJournal(ctx context.Context, cfg *config.Config, source string, log *logrus.Logger) (*database.TransitionRecorder, error) {
	applied, err := postgres.Initialize(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	for _, m := range applied {
		log.WithField("migration", m).Info("Applied migration")
	}

	recorder, err := database.GetRecorder()
	if err != nil {
		return nil, err
	}
	journal, err := database.NewTransitionRecorder(ctx, recorder, source)
	if err != nil {
		recorder.Close()
		return nil, err
	}
	log.WithField("session", journal.Session().ID).Info("Recording label transitions")
	return journal, nil
}
