package cli

import (
	"fmt"

	"github.com/absfs/memfs"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/absfs/litefs"
	"github.com/absfs/litefs/config"
	"github.com/absfs/litefs/internal/litelog"
)

var mountCmd = &cobra.Command{
	Use:   "mount <mountpoint>",
	Short: "mount an encrypted directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			litelog.EnableDebugLogging()
		}

		path := viper.GetString("config")
		cfgFile, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		password, err := readPassword()
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		masterKey, err := cfgFile.DeriveMasterKey(password)
		if err != nil {
			return fmt.Errorf("derive master key: %w", err)
		}

		// The FUSE host binding itself is out of scope (§1); memfs stands
		// in for "wherever the host directory handle comes from" so the
		// façade has something concrete to wrap.
		host, err := memfs.NewFS()
		if err != nil {
			return fmt.Errorf("create host filesystem: %w", err)
		}
		fa, err := litefs.New(host, litefs.FSConfig{
			MasterKey: masterKey,
			BlockSize: cfgFile.BlockSize,
			IVSize:    cfgFile.IVSize,
			Version:   cfgFile.Version,
			Check:     true,
			Logger:    litelog.GetLogger(),
		})
		if err != nil {
			return fmt.Errorf("construct facade: %w", err)
		}

		litelog.Info("mounted", litelog.String("mountpoint", args[0]))
		_ = fa
		fmt.Fprintf(cmd.OutOrStdout(), "mounted %s (host binding not included in this build)\n", args[0])
		return nil
	},
}
