package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/wellness-profile/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "video <user-id>",
		Short: "Record a video interaction",
		Args:  cobra.ExactArgs(1),
		Run:   runVideo,
	}

	cmd.Flags().String("id", "", "Video id")
	cmd.Flags().String("title", "", "Video title (required)")
	cmd.Flags().String("channel", "", "Channel name")
	cmd.Flags().StringP("action", "a", "view", "Action: like, dislike, skip, complete or view")
	cmd.Flags().Float64("watched", 0, "Seconds watched (view)")
	cmd.Flags().Float64("duration", 0, "Video length in seconds (view)")

	cmd.MarkFlagRequired("title")

	RootCmd.AddCommand(cmd)
}

func runVideo(cmd *cobra.Command, args []string) {
	id, _ := cmd.Flags().GetString("id")
	title, _ := cmd.Flags().GetString("title")
	channel, _ := cmd.Flags().GetString("channel")
	action, _ := cmd.Flags().GetString("action")
	watched, _ := cmd.Flags().GetFloat64("watched")
	duration, _ := cmd.Flags().GetFloat64("duration")

	rt := openEngine(cmd.Context())
	defer rt.Close()

	up, err := rt.engine.ApplyVideoInteraction(cmd.Context(), args[0], model.VideoInteraction{
		VideoID:      id,
		Title:        title,
		Channel:      channel,
		Type:         model.VideoAction(action),
		WatchSeconds: watched,
		TotalSeconds: duration,
	})
	if err != nil {
		exitErr("video", err)
	}
	printJSON(up)
}
