package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "context <user-id>",
		Short: "Assemble chat context for a new session",
		Long:  "Combine the last sessions and the profile into the continuity and personalization text handed to the chat assistant.",
		Args:  cobra.ExactArgs(1),
		Run:   runContext,
	}

	RootCmd.AddCommand(cmd)
}

func runContext(cmd *cobra.Command, args []string) {
	rt := openEngine(cmd.Context())
	defer rt.Close()

	cc, err := rt.engine.SessionContext(cmd.Context(), args[0])
	if err != nil {
		exitErr("context", err)
	}

	if formatFlag == "text" {
		fmt.Println(cc.ContinuityContext)
		if cc.RecentInteractions != "" {
			fmt.Println()
			fmt.Println(cc.RecentInteractions)
		}
		if cc.Personalization != "" {
			fmt.Println()
			fmt.Print(cc.Personalization)
		}
		return
	}
	printJSON(cc)
}
