package cmd

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "grabarr",
	Short: "grabarr cli",
	Long:  `grabarr cli`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file")
}

const (
	defaultCycleInterval = time.Minute * 10
)

func initConfig() {
	viper.SetConfigFile(cfgFile)

	viper.SetEnvPrefix("GRABARR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", ""))
	viper.AutomaticEnv()

	viper.SetDefault("jackett.scheme", "http")
	viper.SetDefault("jackett.host", "localhost")
	viper.SetDefault("jackett.port", 9117)
	viper.SetDefault("jackett.apiKey", "")
	viper.SetDefault("jackett.backoff", time.Second)
	viper.SetDefault("jackett.maxRetries", 3)

	viper.SetDefault("qbit.scheme", "http")
	viper.SetDefault("qbit.host", "localhost")
	viper.SetDefault("qbit.port", 8080)
	viper.SetDefault("qbit.username", "admin")
	viper.SetDefault("qbit.password", "")

	viper.SetDefault("epguides.scheme", "https")
	viper.SetDefault("epguides.host", "epguides.frecar.no")

	viper.SetDefault("library.movie", "")
	viper.SetDefault("library.tv", "")

	viper.SetDefault("storage.filePath", "grabarr.sqlite")

	viper.SetDefault("server.port", 8081)

	viper.SetDefault("engine.interval", defaultCycleInterval)
	viper.SetDefault("engine.stageTimeout", time.Minute*3)
	viper.SetDefault("engine.retentionDays", 14)
	viper.SetDefault("engine.minSeeders", 2)
	viper.SetDefault("engine.language", "")
}
