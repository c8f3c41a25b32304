package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/wellness-profile/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm <user-id>",
		Short: "Delete a profile",
		Long:  "Soft-delete the latest profile version, falling back to the previous one. Use --all-versions and --hard to erase a user.",
		Args:  cobra.ExactArgs(1),
		Run:   runRm,
	}

	cmd.Flags().Bool("all-versions", false, "Delete all versions")
	cmd.Flags().Bool("hard", false, "Permanent delete (irreversible)")

	profileCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	allVersions, _ := cmd.Flags().GetBool("all-versions")
	hard, _ := cmd.Flags().GetBool("hard")

	rt := openEngine(cmd.Context())
	defer rt.Close()

	err := rt.engine.Forget(cmd.Context(), store.RmProfileParams{
		UserID:      args[0],
		AllVersions: allVersions,
		Hard:        hard,
	})
	if err != nil {
		exitErr("rm", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"user_id":%q}`+"\n", args[0])
}
