package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"restaurant-rag/internal/models"
	"restaurant-rag/internal/service"

	"github.com/spf13/cobra"
)

func analyticsCmd() *cobra.Command {
	var days int
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "analytics [restaurantId]",
		Short: "Show the most frequent queries and search performance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			restaurantID, err := parseRestaurantID(args[0])
			if err != nil {
				return err
			}
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			summary, err := e.analytics.Summary(cmd.Context(), restaurantID, days)
			if err != nil {
				return err
			}
			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			printSummary(os.Stdout, summary)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", service.DefaultAnalyticsDays, "window in days")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func printSummary(out io.Writer, s *models.SearchSummary) {
	p := s.Performance
	fmt.Fprintf(out, "Last %d day(s): %d searches, avg %.1f ms search, %.1f ms embedding, %.2f results\n\n",
		s.WindowDays, p.TotalSearches, p.AvgSearchMS, p.AvgEmbeddingMS, p.AvgResults)

	if len(s.TopQueries) == 0 {
		fmt.Fprintln(out, "No queries recorded.")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "QUERY\tCOUNT\tAVG SIMILARITY")
	for _, q := range s.TopQueries {
		fmt.Fprintf(tw, "%s\t%d\t%.3f\n", q.Query, q.Count, q.AvgSimilarity)
	}
	tw.Flush()
}
