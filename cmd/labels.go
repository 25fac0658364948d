package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/pose-detector/internal/pose"
)

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "List pose labels in classification order",
	Long: `List the pose labels in the order the classifier tries them.
The first rule that holds wins; Unknown is reported when none does.`,
	Args: cobra.NoArgs,
	RunE: runLabels,
}

func init() {
	rootCmd.AddCommand(labelsCmd)
	labelsCmd.Flags().Bool("json", false, "Output as JSON")
}

// LabelInfo describes one label for output.
type LabelInfo struct {
	Order       int        `json:"order"`
	Label       pose.Label `json:"label"`
	Description string     `json:"description"`
}

func runLabels(cmd *cobra.Command, args []string) error {
	var infos []LabelInfo
	for i, r := range pose.Rules() {
		infos = append(infos, LabelInfo{Order: i + 1, Label: r.Label, Description: r.Description})
	}
	infos = append(infos, LabelInfo{
		Order:       len(infos) + 1,
		Label:       pose.Unknown,
		Description: "no rule holds",
	})

	if mustGetBool(cmd, "json") {
		return outputJSON(infos)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tLABEL\tRULE")
	for _, info := range infos {
		fmt.Fprintf(w, "%d\t%s\t%s\n", info.Order, info.Label, info.Description)
	}
	return w.Flush()
}
