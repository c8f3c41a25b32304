package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/wellness-profile/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the latest profile of every user",
		Run:   runList,
	}

	cmd.Flags().IntP("limit", "l", 50, "Max results")
	cmd.Flags().Bool("ids-only", false, "Only output user ids")

	profileCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	idsOnly, _ := cmd.Flags().GetBool("ids-only")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	recs, err := s.ListProfiles(cmd.Context(), store.ListProfilesParams{Limit: limit})
	if err != nil {
		exitErr("list", err)
	}

	if idsOnly {
		for _, r := range recs {
			fmt.Printf("%s\tv%d\n", r.UserID, r.Version)
		}
		return
	}
	printJSON(recs)
}
