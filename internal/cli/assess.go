package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/wellness-profile/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "assess <user-id> [answers-json]",
		Short: "Build a profile from assessment answers",
		Long: "Build and store a new profile version from assessment answers. Answers are a JSON object " +
			"of question id to string, number or string list, given as an argument, a file, or piped via stdin.",
		Args: cobra.MinimumNArgs(1),
		Run:  runAssess,
	}

	cmd.Flags().String("file", "", "Read answers from a JSON file")
	cmd.Flags().String("type-code", "", "Four-letter personality type code, overrides the derived one")

	RootCmd.AddCommand(cmd)
}

func runAssess(cmd *cobra.Command, args []string) {
	file, _ := cmd.Flags().GetString("file")
	typeCode, _ := cmd.Flags().GetString("type-code")

	data, err := readInput(file, args[1:])
	if err != nil {
		exitErr("read answers", err)
	}
	if len(data) == 0 {
		exitErr("assess", fmt.Errorf("answers are required (argument, --file or stdin)"))
	}
	var answers model.Answers
	if err := json.Unmarshal(data, &answers); err != nil {
		exitErr("parse answers", err)
	}

	rt := openEngine(cmd.Context())
	defer rt.Close()

	rec, err := rt.engine.Assess(cmd.Context(), args[0], answers, typeCode)
	if err != nil {
		exitErr("assess", err)
	}
	printJSON(rec)
}
