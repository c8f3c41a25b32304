// Package cli implements the wellness-profile CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/wellness-profile/internal/config"
	"github.com/rcliao/wellness-profile/internal/store"
)

var (
	dbPath     string
	cfgPath    string
	logMode    string
	formatFlag string

	loadedCfg *config.Config
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "wellness-profile",
	Short: "Personalization profiles that learn from interactions",
	Long: "Build a wellness profile from an assessment, evolve it from chat, topic and video events, " +
		"and derive recommendation queries and chat context from it. SQLite-backed, single binary.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $WELLNESS_PROFILE_DB or ~/.wellness-profile/profiles.db)")
	RootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Config file (default: $WELLNESS_PROFILE_CONFIG)")
	RootCmd.PersistentFlags().StringVar(&logMode, "log", "", "Log mode: dev, debug or prod (overrides config)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
}

func getConfig() *config.Config {
	if loadedCfg != nil {
		return loadedCfg
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		exitErr("load config", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if logMode != "" {
		cfg.LogMode = logMode
	}
	loadedCfg = cfg
	return cfg
}

func getDBPath() string {
	return getConfig().DBPath
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath())
}

// readInput returns the named file, the joined positional args, or piped
// stdin, in that order of preference.
func readInput(file string, args []string) ([]byte, error) {
	if file != "" {
		return os.ReadFile(file)
	}
	if len(args) > 0 {
		return []byte(strings.Join(args, " ")), nil
	}
	stat, _ := os.Stdin.Stat()
	if (stat.Mode() & os.ModeCharDevice) == 0 {
		return io.ReadAll(os.Stdin)
	}
	return nil, nil
}

func splitList(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
