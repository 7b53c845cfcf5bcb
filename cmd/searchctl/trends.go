package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mycosoft/unified-search/internal/pkg/errors"
	trendbiz "github.com/mycosoft/unified-search/internal/trend/biz"
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Print trending search topics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		category, _ := cmd.Flags().GetString("category")
		if limit < 1 || limit > trendbiz.MaxLimit {
			return errors.New(errors.ErrTrendInvalidLimit, fmt.Sprintf("limit must be between 1 and %d", trendbiz.MaxLimit))
		}

		kit, cleanup, err := toolkit(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		return printJSON(kit.Trends.GetTrends(cmd.Context(), limit, category))
	},
}

func init() {
	trendsCmd.Flags().Int("limit", trendbiz.DefaultLimit, "number of trends")
	trendsCmd.Flags().String("category", "", "only this category (species, compound, location, research, general)")

	rootCmd.AddCommand(trendsCmd)
}
