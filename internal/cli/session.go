package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/wellness-profile/internal/model"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Record and browse chat session summaries",
}

func init() {
	add := &cobra.Command{
		Use:   "add <user-id> [summary]",
		Short: "Store a session summary",
		Long: "Store the summary of a finished chat session. The summary is a positional arg, or a full " +
			"JSON summary object via --json or stdin.",
		Args: cobra.MinimumNArgs(1),
		Run:  runSessionAdd,
	}
	add.Flags().StringP("topics", "t", "", "Comma-separated key topics")
	add.Flags().String("mood", "", "Emotional state at the end of the session")
	add.Flags().String("needs", "", "Comma-separated user needs")
	add.Flags().String("important", "", "Important context to carry forward")
	add.Flags().Bool("json", false, "Treat input as a JSON summary object")

	list := &cobra.Command{
		Use:   "list <user-id>",
		Short: "Show the most recent sessions",
		Args:  cobra.ExactArgs(1),
		Run:   runSessionList,
	}
	list.Flags().IntP("limit", "l", 3, "Max results")

	sessionCmd.AddCommand(add, list)
	RootCmd.AddCommand(sessionCmd)
}

func runSessionAdd(cmd *cobra.Command, args []string) {
	topics, _ := cmd.Flags().GetString("topics")
	mood, _ := cmd.Flags().GetString("mood")
	needs, _ := cmd.Flags().GetString("needs")
	important, _ := cmd.Flags().GetString("important")
	asJSON, _ := cmd.Flags().GetBool("json")

	data, err := readInput("", args[1:])
	if err != nil {
		exitErr("read stdin", err)
	}

	var sum model.SessionSummary
	if asJSON {
		if err := json.Unmarshal(data, &sum); err != nil {
			exitErr("parse json", err)
		}
	} else {
		sum = model.SessionSummary{
			Summary:          strings.TrimSpace(string(data)),
			KeyTopics:        splitList(topics),
			EmotionalState:   mood,
			UserNeeds:        splitList(needs),
			ImportantContext: important,
		}
	}
	if strings.TrimSpace(sum.Summary) == "" {
		exitErr("session add", fmt.Errorf("summary is required (positional arg or stdin)"))
	}
	sum.UserID = args[0]

	rt := openEngine(cmd.Context())
	defer rt.Close()

	saved, err := rt.engine.AddSession(cmd.Context(), sum)
	if err != nil {
		exitErr("session add", err)
	}
	b, _ := json.Marshal(saved)
	fmt.Println(string(b))
}

func runSessionList(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	sums, err := s.RecentSessions(cmd.Context(), args[0], limit)
	if err != nil {
		exitErr("session list", err)
	}
	if len(sums) == 0 {
		fmt.Println("[]")
		return
	}
	printJSON(sums)
}
