package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type rootOpts struct {
	cfgFile     string
	debugModeOn bool
}

var rootOpt rootOpts

var log = logrus.New()

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "arbortx",
	Short: "Drive the coretree transaction interpreter from the command line",
	Long:  "arbortx applies, replays, lints, and inspects coretree edit scripts stored as JSON.",
}

// Execute adds all child commands to the root command and runs it. It is
// called by main.main and only needs to happen once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&rootOpt.cfgFile, "config", "", "config file (default is $HOME/.arbortx.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&rootOpt.debugModeOn, "debug", "d", false, "turn on debug logging")
	rootCmd.DisableAutoGenTag = true
}

func initConfig() {
	if rootOpt.cfgFile != "" {
		viper.SetConfigFile(rootOpt.cfgFile)
	} else {
		viper.SetConfigName(".arbortx")
		viper.AddConfigPath("$HOME")
	}
	viper.AutomaticEnv()
	// A missing config file is not fatal: every setting here has a
	// usable default, unlike sealer's required cluster config.
	_ = viper.ReadInConfig()

	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if rootOpt.debugModeOn || viper.GetBool("debug") {
		log.SetLevel(logrus.DebugLevel)
	}
}
