package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"liferpg/internal/ui"
)

const Version = "0.1.0"

var (
	configFile string
	dbPath     string
)

var rootCmd = &cobra.Command{
	Use:           "ql",
	Short:         "liferpg: level up the roles of your life",
	Long:          "liferpg is a local-first planner that turns roles, quests, objectives and skill trees into RPG progression.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides LIFERPG_DB_PATH)")

	rootCmd.AddCommand(
		newRoleCmd(),
		newQuestCmd(),
		newObjectiveCmd(),
		newSkillCmd(),
		newBonusCmd(),
		newBlockCmd(),
		newInvestCmd(),
		newStatusCmd(),
		newBoardCmd(),
		newServeCmd(),
		newTokenCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
