// Package cmd is for command line interactions with the primerplus
// application
package cmd

import (
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	settingsPath string

	// logger is rebuilt in setup() once flags and settings are known
	logger = zap.NewNop().Sugar()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "primerplus",
	Short: `Design qPCR primer trios with tiered constraint relaxation.
Candidates come from primer3, survive hard selection filters, and are
ranked by quantile scoring; the strictest tier that accepts one wins`,
	Version: "0.1.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "path to a settings.yaml (default: ./settings.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug detail")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// setup reads the settings file and builds the process logger. A missing
// default settings.yaml is fine; a missing explicit --settings file is
// not.
func setup() error {
	if settingsPath != "" {
		viper.SetConfigFile(settingsPath)
	} else {
		viper.SetConfigName("settings")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}
	viper.SetEnvPrefix("primerplus")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || settingsPath != "" {
			return err
		}
	}

	zcfg := zap.NewProductionConfig()
	if viper.GetBool("verbose") {
		zcfg = zap.NewDevelopmentConfig()
	}
	zl, err := zcfg.Build()
	if err != nil {
		return err
	}
	logger = zl.Sugar()
	return nil
}
