package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/wellness-profile/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "chat <user-id>",
		Short: "Apply an analyzed chat message",
		Long:  "Fold one chat message's extracted signals (topics, sentiment, engagement) into the profile.",
		Args:  cobra.ExactArgs(1),
		Run:   runChat,
	}

	cmd.Flags().StringP("topics", "t", "", "Comma-separated topics mentioned")
	cmd.Flags().StringP("sentiment", "s", "neutral", "Sentiment: positive, neutral or negative")
	cmd.Flags().Float64P("engagement", "e", 5, "Engagement score 0-10")
	cmd.Flags().StringSlice("signal", nil, "Dimension signal as dimension=value, repeatable")

	RootCmd.AddCommand(cmd)
}

func runChat(cmd *cobra.Command, args []string) {
	topics, _ := cmd.Flags().GetString("topics")
	sentiment, _ := cmd.Flags().GetString("sentiment")
	engagement, _ := cmd.Flags().GetFloat64("engagement")
	rawSignals, _ := cmd.Flags().GetStringSlice("signal")

	signals, err := parseSignals(rawSignals)
	if err != nil {
		exitErr("parse signals", err)
	}

	rt := openEngine(cmd.Context())
	defer rt.Close()

	up, err := rt.engine.ApplyChatTurn(cmd.Context(), args[0], model.ChatTurn{
		Topics:           splitList(topics),
		Sentiment:        model.Sentiment(strings.ToLower(sentiment)),
		Engagement:       engagement,
		DimensionSignals: signals,
	})
	if err != nil {
		exitErr("chat", err)
	}
	printJSON(up)
}

func parseSignals(raw []string) (map[model.Dimension]float64, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[model.Dimension]float64, len(raw))
	for _, kv := range raw {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("signal %q: want dimension=value", kv)
		}
		d := model.Dimension(strings.TrimSpace(name))
		if !model.ValidDimensions[d] {
			return nil, fmt.Errorf("signal %q: unknown dimension", kv)
		}
		var v float64
		if _, err := fmt.Sscanf(strings.TrimSpace(value), "%g", &v); err != nil {
			return nil, fmt.Errorf("signal %q: %w", kv, err)
		}
		out[d] = v
	}
	return out, nil
}
