package cli

import "github.com/spf13/cobra"

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect and manage stored profiles",
}

func init() {
	RootCmd.AddCommand(profileCmd)
}
