package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func parseRestaurantID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid restaurant id %q", arg)
	}
	return id, nil
}

func reindexCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "reindex [restaurantId]",
		Short: "Embed the available products of a restaurant",
		Long:  "Products whose searchable content is unchanged are skipped unless --force is given.",
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

			stats, err := e.indexing.IndexProducts(cmd.Context(), restaurantID, force)
			if err != nil {
				return err
			}
			fmt.Printf("created=%d updated=%d skipped=%d errors=%d\n",
				stats.Created, stats.Updated, stats.Skipped, stats.Errors)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "re-embed products even when their content is unchanged")
	return cmd
}
