package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pkgstats/constants"
)

var rootCmd = &cobra.Command{
	Use:   "pkgstats",
	Short: "Package statistics for a repository Contents index",
	Long: `pkgstats downloads (or reads a cached copy of) the compressed Contents
index of a package repository and reports which packages own the most files.`,
	SilenceUsage: true,
}

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
})

var logfile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&logfile, "logfile", "l", "", "also write logs to this file")
	rootCmd.PersistentFlags().String("base-url", constants.DefaultBaseURL, "base URL of the package mirror")

	viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	viper.BindEnv("base_url", "PACKAGE_MIRROR_URL")

	rootCmd.PersistentPreRunE = setupLogging
}

func setupLogging(cmd *cobra.Command, args []string) error {
	if logfile == "" {
		return nil
	}
	f, err := os.OpenFile(logfile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening logfile: %w", err)
	}
	logger.SetOutput(io.MultiWriter(os.Stderr, f))
	return nil
}

// baseURL resolves the mirror URL: --base-url beats PACKAGE_MIRROR_URL beats
// the built-in default. Callers receive it explicitly; nothing else reads the
// environment.
func baseURL() string {
	return viper.GetString("base_url")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
