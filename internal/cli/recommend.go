package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "recommend <user-id>",
		Short: "Show the mixing ratio and search queries",
		Long:  "Print the recommendation plan. With --feed, run the queries against the configured video search endpoint and print the blended feed.",
		Args:  cobra.ExactArgs(1),
		Run:   runRecommend,
	}

	cmd.Flags().Bool("feed", false, "Search and blend videos (needs feed.search_url)")

	RootCmd.AddCommand(cmd)
}

func runRecommend(cmd *cobra.Command, args []string) {
	withFeed, _ := cmd.Flags().GetBool("feed")

	rt := openEngine(cmd.Context())
	defer rt.Close()

	if withFeed {
		feed, err := rt.engine.Feed(cmd.Context(), args[0])
		if err != nil {
			exitErr("feed", err)
		}
		printJSON(feed)
		return
	}
	plan, err := rt.engine.Recommend(cmd.Context(), args[0])
	if err != nil {
		exitErr("recommend", err)
	}
	printJSON(plan)
}
