package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/wellness-profile/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "engage <user-id> <topic>...",
		Short: "Record engagement with topics",
		Long:  "Apply explicit topic feedback. High scores move topics toward primary interests, low scores or --dismiss toward avoid topics.",
		Args:  cobra.MinimumNArgs(2),
		Run:   runEngage,
	}

	cmd.Flags().Float64P("score", "s", 5, "Engagement score 0-10")
	cmd.Flags().Bool("dismiss", false, "The user dismissed these topics")

	RootCmd.AddCommand(cmd)
}

func runEngage(cmd *cobra.Command, args []string) {
	score, _ := cmd.Flags().GetFloat64("score")
	dismiss, _ := cmd.Flags().GetBool("dismiss")

	rt := openEngine(cmd.Context())
	defer rt.Close()

	up, err := rt.engine.ApplyTopicEngagement(cmd.Context(), args[0], model.TopicEngagement{
		Topics:          args[1:],
		EngagementScore: score,
		Dismissed:       dismiss,
	})
	if err != nil {
		exitErr("engage", err)
	}
	printJSON(up)
}
