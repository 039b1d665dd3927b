package cli

import (
	"fmt"
	"os"

	"github.com/lemonlabs-io/radioctl/internal/config"
	"github.com/lemonlabs-io/radioctl/internal/controller"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagHeadless      bool
	flagConfig        string
	flagNotifications bool
	flagDebug         bool
	flagLogLevel      string
)

var rootCmd = &cobra.Command{
	Use:   "radioctl <status|on|off>",
	Short: "radioctl - control a router's 2.4GHz radio through its admin console",
	Long: `radioctl drives a Chrome browser through the router's web admin
console to inspect or toggle the 2.4GHz wireless radio.

Examples:
  radioctl status                    Check radio status
  radioctl on                        Turn radio on
  radioctl off                       Turn radio off
  radioctl on --headless             Turn on without a visible browser
  radioctl status --notifications    Enable desktop notifications
  radioctl on --config ~/my.yaml     Use a custom config file

Credentials are stored in the system keychain on first use.`,
	Args:          cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs:     []string{"status", "on", "off"},
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().BoolVar(&flagHeadless, "headless", false, "Run browser in headless mode")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "Path to YAML configuration file")
	rootCmd.Flags().BoolVar(&flagNotifications, "notifications", false, "Enable desktop notifications")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "Enable debug mode (page snapshots, verbose browser logs)")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

// Execute runs the command tree. Used by main.
func Execute(version string) error {
	rootCmd.Version = version
	return rootCmd.Execute()
}

func run(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	configPath := flagConfig
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, err := config.Load(configPath, logger)
	if err != nil {
		return err
	}

	// CLI flags override the loaded config, never the other way around.
	if flagHeadless {
		cfg.Headless = true
	}
	if flagNotifications {
		cfg.EnableNotifications = true
	}
	if flagDebug {
		cfg.DebugMode = true
	}

	ctl := controller.New(cfg, logger)
	defer ctl.Close()

	spin := newSpinner(os.Stderr)
	spin.Start()
	defer spin.Stop()

	switch args[0] {
	case "status":
		result := ctl.CheckRadioStatus()
		spin.Stop()
		fmt.Printf("Radio Status: %s\n", result)
	case "on":
		result := ctl.TurnOnRadio()
		spin.Stop()
		fmt.Printf("Turn On Result: %s\n", result)
	case "off":
		result := ctl.TurnOffRadio()
		spin.Stop()
		fmt.Printf("Turn Off Result: %s\n", result)
	}
	return nil
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	level := flagLogLevel
	if flagDebug {
		level = "debug"
	}
	switch level {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "info":
		logger.SetLevel(logrus.InfoLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}
