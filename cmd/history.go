package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/pose-detector/internal/config"
	"github.com/kozaktomas/pose-detector/internal/constants"
	"github.com/kozaktomas/pose-detector/internal/database"
	"github.com/kozaktomas/pose-detector/internal/database/postgres"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded label transitions",
	Long: `Show the most recent label transitions journaled by "run --record".
Requires DATABASE_URL.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().Int("limit", constants.DefaultHistoryLimit, "Number of events to show")
	historyCmd.Flags().Bool("json", false, "Output as JSON")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if cfg.Database.URL == "" {
		return database.ErrNotInitialized
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := postgres.Initialize(ctx, &cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	recorder, err := database.GetRecorder()
	if err != nil {
		return err
	}
	defer recorder.Close()

	events, err := recorder.RecentEvents(ctx, mustGetInt(cmd, "limit"))
	if err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}

	if mustGetBool(cmd, "json") {
		return outputJSON(events)
	}

	if len(events) == 0 {
		fmt.Println("No label transitions recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tSESSION\tFRAME\tLABEL")
	for _, e := range events {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			e.OccurredAt.Local().Format(time.DateTime), e.SessionID.String()[:8], e.Frame, e.Label)
	}
	return w.Flush()
}
