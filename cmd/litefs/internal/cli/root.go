package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "litefs",
	Short: "A user-space encrypting filesystem",
	Long: `litefs transparently exposes a plaintext directory tree while
persisting file contents, names, and extended attributes as
authenticated ciphertext inside an ordinary host directory.

Commands:
  init    create a new config file and random master key salt
  mount   mount an encrypted directory
  info    show a config file's parameters without exposing the key`,
}

// Execute runs the CLI, exiting non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "litefs: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "litefs.json", "path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable trace-level logging")
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.SetEnvPrefix("litefs")
	viper.AutomaticEnv()

	rootCmd.AddCommand(initCmd, mountCmd, infoCmd)
}
