package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/absfs/litefs/config"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "show a config file's parameters without exposing the key",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := viper.GetString("config")
		f, err := config.Load(path)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "key id:     %s\n", f.KeyID)
		fmt.Fprintf(out, "kdf:        %s\n", f.KDF)
		fmt.Fprintf(out, "block size: %d\n", f.BlockSize)
		fmt.Fprintf(out, "iv size:    %d\n", f.IVSize)
		fmt.Fprintf(out, "version:    %d\n", f.Version)
		return nil
	},
}
