package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/wellness-profile/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "events <user-id>",
		Short: "List logged interactions (newest first)",
		Args:  cobra.ExactArgs(1),
		Run:   runEvents,
	}

	cmd.Flags().StringP("kind", "k", "", "Filter by kind: chat, topic or video")
	cmd.Flags().IntP("limit", "l", 50, "Max results")

	RootCmd.AddCommand(cmd)
}

func runEvents(cmd *cobra.Command, args []string) {
	kind, _ := cmd.Flags().GetString("kind")
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	events, err := s.ListInteractions(cmd.Context(), store.ListInteractionsParams{
		UserID: args[0],
		Kind:   kind,
		Limit:  limit,
	})
	if err != nil {
		exitErr("events", err)
	}
	if len(events) == 0 {
		fmt.Println("[]")
		return
	}
	printJSON(events)
}
