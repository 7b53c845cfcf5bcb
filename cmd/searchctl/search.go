package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mycosoft/unified-search/internal/search/types"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run one unified search and print the response",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kit, cleanup, err := toolkit(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		ai, _ := cmd.Flags().GetBool("ai")
		live, _ := cmd.Flags().GetBool("live")
		limit, _ := cmd.Flags().GetInt("limit")
		ctxText, _ := cmd.Flags().GetString("context")
		interests, _ := cmd.Flags().GetStringSlice("interests")

		req := &types.SearchRequest{
			Query:     strings.Join(args, " "),
			Context:   ctxText,
			Interests: interests,
			AI:        &ai,
			Live:      &live,
			Limit:     limit,
		}
		if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lng") {
			lat, _ := cmd.Flags().GetFloat64("lat")
			lng, _ := cmd.Flags().GetFloat64("lng")
			req.Location = &types.GeoPoint{Lat: lat, Lng: lng}
		}

		resp, err := kit.Search.Search(cmd.Context(), req)
		if err != nil {
			return err
		}
		// a queued graft batch is drained by cleanup, which releases the pool
		return printJSON(resp)
	},
}

func init() {
	searchCmd.Flags().Bool("ai", true, "resolve an AI answer")
	searchCmd.Flags().Bool("live", true, "include live observations and web results")
	searchCmd.Flags().Int("limit", 10, "results per source")
	searchCmd.Flags().String("context", "", "free-text context for the AI answer")
	searchCmd.Flags().StringSlice("interests", nil, "interest tags appended to the AI context")
	searchCmd.Flags().Float64("lat", 0, "latitude overriding the inferred location")
	searchCmd.Flags().Float64("lng", 0, "longitude overriding the inferred location")

	rootCmd.AddCommand(searchCmd)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
