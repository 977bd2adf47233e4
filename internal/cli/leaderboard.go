package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"adaptive-quiz-service/internal/app"
	"adaptive-quiz-service/internal/config"
	"adaptive-quiz-service/internal/domain"
	"adaptive-quiz-service/internal/infra/backend"
	"github.com/spf13/cobra"
)

// NewLeaderboardCmd prints the backend's leaderboard for a piece of content.
func NewLeaderboardCmd(configPath *string) *cobra.Command {
	var contentID string
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the overall and per-match leaderboards from the session backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Backend.BaseURL == "" {
				return fmt.Errorf("backend.baseUrl not configured")
			}
			if contentID == "" {
				contentID = cfg.Quiz.Content
			}
			sb := backend.NewSessionBackend(newBackendClient(cfg))
			return printLeaderboard(cmd.Context(), cmd.OutOrStdout(), sb, contentID)
		},
	}
	cmd.Flags().StringVar(&contentID, "content", "", "content id (defaults to quiz.content)")
	return cmd
}

func printLeaderboard(ctx context.Context, out io.Writer, source app.LeaderboardSource, contentID string) error {
	overall, err := source.Overall(ctx, contentID)
	if err != nil {
		return fmt.Errorf("%s: %w", app.UserMessage(err), err)
	}
	view := app.Reshape(overall)

	fmt.Fprintf(out, "Leaderboard for %s\n\nOverall\n", contentID)
	printRanked(out, app.RankOverall(view.Overall))
	for n := 1; n <= view.MatchCount(); n++ {
		fmt.Fprintf(out, "\nMatch %d\n", n)
		printRanked(out, app.RankMatch(view.Match(n)))
	}
	return nil
}

func printRanked(out io.Writer, rows []domain.RankedEntry) {
	if len(rows) == 0 {
		fmt.Fprintln(out, "  (no attempts)")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, row := range rows {
		name := row.UserName
		if name == "" {
			name = row.UserID
		}
		fmt.Fprintf(tw, "  %d\t%s\t%g\n", row.Rank, name, row.Score)
	}
	_ = tw.Flush()
}
