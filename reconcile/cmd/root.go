package cmd

import (
	"os"

	"github.com/howeyc/reconcile/reconcile/internal/config"
	"github.com/howeyc/reconcile/reconcile/internal/logger"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/spf13/cobra"
)

var configPath string
var logLevel string

// cfg holds the loaded configuration once a command starts running.
var cfg = config.LoadFromEnv()

var rootCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile two transaction ledgers against each other",
	Long: `Reconcile reads two ledgers of the same account, for example the
bookkeeping and the bank statement, and marks every entry of each one FOUND
or MISSING depending on whether the other ledger has a matching entry within
one day of its date.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := config.LoadOrEnv(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.Log.Level = logLevel
		}
		cfg = loaded

		log := logger.New(cmd.ErrOrStderr(), logger.Config{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
		})
		cmd.SetContext(logger.WithContext(cmd.Context(), log))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $RECONCILE_CONFIG or "+config.DefaultPath+").")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error).")
}

// Execute runs the root command and returns the first error encountered.
func Execute() error {
	cc.Init(&cc.Config{
		RootCmd:       rootCmd,
		Headings:      cc.HiCyan + cc.Bold + cc.Underline,
		Commands:      cc.HiYellow + cc.Bold,
		Example:       cc.Italic,
		ExecName:      cc.Bold,
		Flags:         cc.Bold,
		FlagsDataType: cc.Italic,
	})
	rootCmd.SetErr(os.Stderr)
	return rootCmd.Execute()
}
