// Package cli implements the til command tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "til",
	Short: "Check and inspect Tydi Interchange Language projects",
	Long: `til is a front end for the Tydi Interchange Language: it parses a
project manifest, evaluates every namespace's declarations into logical
types, interfaces, streamlets and structural implementations, and reports
any error found along the way.

Examples:
  til check ./project.hcl
  til check ./project.hcl --dump-ir
  til check ./project.hcl --strict --complexity 4`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.til/config.yaml)")

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home + "/.til")
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}
	viper.SetEnvPrefix("TIL")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}
