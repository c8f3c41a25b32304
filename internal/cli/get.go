package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/wellness-profile/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get <user-id>",
		Short: "Retrieve a profile",
		Args:  cobra.ExactArgs(1),
		Run:   runGet,
	}

	cmd.Flags().Bool("history", false, "Return all versions (newest first)")
	cmd.Flags().IntP("version", "v", 0, "Specific version number")

	profileCmd.AddCommand(cmd)

	history := &cobra.Command{
		Use:   "history <user-id>",
		Short: "List every version of a profile (newest first)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getProfiles(cmd, store.GetProfileParams{UserID: args[0], History: true})
		},
	}
	profileCmd.AddCommand(history)
}

func runGet(cmd *cobra.Command, args []string) {
	history, _ := cmd.Flags().GetBool("history")
	version, _ := cmd.Flags().GetInt("version")
	getProfiles(cmd, store.GetProfileParams{
		UserID:  args[0],
		History: history,
		Version: version,
	})
}

func getProfiles(cmd *cobra.Command, p store.GetProfileParams) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	recs, err := s.GetProfile(cmd.Context(), p)
	if err != nil {
		exitErr("get", err)
	}

	if p.History || len(recs) > 1 {
		printJSON(recs)
	} else {
		printJSON(recs[0])
	}
}
