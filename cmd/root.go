package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var log = logging.Logger("cmd")

var rootCmd = &cobra.Command{
	Use:   "bids-hub",
	Short: "Flatten, validate and verify BIDS neuroimaging datasets",
	// We handle errors ourselves when they're returned from ExecuteContext.
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)

	cobra.OnInitialize(initRootFlags, initConfig)
}

var (
	cfgFilePath string
	logLevel    string
)

func initRootFlags() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFilePath,
		"config",
		"",
		"Path to the config file",
	)

	rootCmd.PersistentFlags().StringVar(
		&logLevel,
		"log-level",
		"error",
		"Log level (debug, info, warn, error)",
	)

	rootCmd.PersistentFlags().String(
		"hub-endpoint",
		"",
		"Base URL of the dataset rows API used by verify",
	)
	cobra.CheckErr(viper.BindPFlag("hub.endpoint", rootCmd.PersistentFlags().Lookup("hub-endpoint")))

	rootCmd.PersistentFlags().String(
		"hub-split",
		"train",
		"Remote dataset split used by verify",
	)
	cobra.CheckErr(viper.BindPFlag("hub.split", rootCmd.PersistentFlags().Lookup("hub-split")))
}

func initConfig() {
	// check if environment variables match any of the existing keys
	// as an example a key is 'hub.endpoint'
	viper.AutomaticEnv()
	// when checking for env vars, rename keys searched for from 'hub.endpoint' to 'hub_endpoint'
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// when checking for env vars, search for keys prefixed with BIDS_HUB
	viper.SetEnvPrefix("BIDS_HUB")

	// when searching for a config file look for files named "bids-hub-config.yaml"
	viper.SetConfigName("bids-hub-config")
	viper.SetConfigType("yaml")

	// if no config file was provided, first look in the current directory _then_ look in
	// $XDG_CONFIG_HOME/bids-hub/
	if cfgFilePath == "" {
		viper.AddConfigPath(".")
		if configDir, err := os.UserConfigDir(); err == nil {
			viper.AddConfigPath(filepath.Join(configDir, "bids-hub"))
		}
	} else {
		// else a config was provided over the cli via a flag, read it in directly
		viper.SetConfigFile(cfgFilePath)
	}
	if err := viper.ReadInConfig(); err == nil {
		log.Debugf("using config file %s", viper.ConfigFileUsed())
	}

	if err := logging.SetLogLevel("*", logLevel); err != nil {
		log.Warnf("invalid log level %q, keeping default", logLevel)
	}
}

// ExecuteContext adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen once
// to the rootCmd.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
