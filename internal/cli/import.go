package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/wellness-profile/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import profiles, sessions and interactions from JSON",
		Long:  "Import from JSON (stdin or --file). Expects the format produced by export.",
		Run:   runImport,
	}

	cmd.Flags().String("file", "", "Read the export from a file")

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	file, _ := cmd.Flags().GetString("file")
	data, err := readInput(file, nil)
	if err != nil {
		exitErr("read input", err)
	}
	if len(data) == 0 {
		exitErr("import", fmt.Errorf("no input (stdin or --file)"))
	}

	var exp store.Export
	if err := json.Unmarshal(data, &exp); err != nil {
		exitErr("parse json", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	res, err := s.Import(cmd.Context(), &exp)
	if err != nil {
		exitErr("import", err)
	}

	fmt.Printf(`{"ok":true,"profiles":%d,"sessions":%d,"interactions":%d}`+"\n", res.Profiles, res.Sessions, res.Interactions)
}
