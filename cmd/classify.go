package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/pose-detector/internal/landmarks"
	"github.com/kozaktomas/pose-detector/internal/pose"
	"github.com/kozaktomas/pose-detector/internal/report"
)

var classifyCmd = &cobra.Command{
	Use:   "classify FILE...",
	Short: "Classify recorded landmark files",
	Long: `Classify every frame of one or more landmark JSON files without a camera.

A file holds a single frame (joint map, 33 element array or pose service
response) or many frames keyed by frame number.

Examples:
  pose-detector classify session.json
  pose-detector classify --json a.json b.json
  pose-detector classify --report labels.html session.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().Bool("json", false, "Output as JSON")
	classifyCmd.Flags().String("report", "", "Write an HTML label histogram to this file")
}

// ClassifiedFrame is one line of classify output.
type ClassifiedFrame struct {
	File     string     `json:"file"`
	Frame    int        `json:"frame"`
	Detected bool       `json:"detected"`
	Label    pose.Label `json:"label"`
	Error    string     `json:"error,omitempty"`
}

// ClassifyResult is the JSON output of the classify command.
type ClassifyResult struct {
	Frames  []ClassifiedFrame `json:"frames"`
	Counts  map[string]int    `json:"counts"`
	Skipped int               `json:"skipped"`
}

type fileFrames struct {
	path   string
	frames []landmarks.Frame
}

func runClassify(cmd *cobra.Command, args []string) error {
	jsonOutput := mustGetBool(cmd, "json")
	reportPath := mustGetString(cmd, "report")

	var (
		files []fileFrames
		total int
	)
	for _, path := range args {
		frames, err := landmarks.LoadFile(path)
		if err != nil {
			return err
		}
		files = append(files, fileFrames{path: path, frames: frames})
		total += len(frames)
	}

	var bar *progressbar.ProgressBar
	if total > 1 && !jsonOutput {
		bar = progressbar.NewOptions(total,
			progressbar.OptionSetDescription("Classifying"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("frames"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionFullWidth(),
			progressbar.OptionSetWriter(os.Stderr),
		)
	}

	counts := report.NewCounts()
	var results []ClassifiedFrame
	for _, f := range files {
		for _, fr := range f.frames {
			results = append(results, classifyFrame(f.path, fr, counts))
			if bar != nil {
				bar.Add(1)
			}
		}
	}
	if bar != nil {
		bar.Finish()
		fmt.Fprintln(os.Stderr)
	}

	if reportPath != "" {
		if err := writeReport(reportPath, args, counts); err != nil {
			return err
		}
	}

	if jsonOutput {
		out := ClassifyResult{Frames: results, Counts: make(map[string]int), Skipped: counts.Skipped}
		for _, l := range pose.Labels() {
			if n := counts.Get(l); n > 0 {
				out.Counts[l.String()] = n
			}
		}
		return outputJSON(out)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tFRAME\tLABEL")
	for _, r := range results {
		label := r.Label.String()
		switch {
		case r.Error != "":
			label = "- (" + r.Error + ")"
		case !r.Detected:
			label = "- (no person)"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", r.File, r.Frame, label)
	}
	w.Flush()

	fmt.Printf("\nClassified: %d, skipped: %d\n", counts.Classified(), counts.Skipped)
	if reportPath != "" {
		fmt.Printf("Report written to %s\n", reportPath)
	}
	return nil
}

// classifyFrame labels one frame. Frames without a person or with missing
// joints are counted as skipped.
func classifyFrame(path string, fr landmarks.Frame, counts *report.Counts) ClassifiedFrame {
	out := ClassifiedFrame{File: path, Frame: fr.Index}
	if fr.Landmarks == nil {
		counts.Skipped++
		return out
	}
	label, err := pose.ClassifySet(fr.Landmarks)
	if err != nil {
		counts.Skipped++
		if errors.Is(err, pose.ErrMissingJoint) {
			out.Error = "incomplete"
		} else {
			out.Error = err.Error()
		}
		return out
	}
	out.Detected = true
	out.Label = label
	counts.Add(label)
	return out
}

func writeReport(path string, args []string, counts *report.Counts) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing report: %w", cerr)
		}
	}()

	title := "Pose labels"
	if len(args) == 1 {
		title = "Pose labels: " + filepath.Base(args[0])
	}
	if err := report.LabelHistogram(f, title, counts); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}
