package cli

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/absfs/litefs/config"
)

var (
	initBlockSize uint32
	initIVSize    uint32
	initKDF       string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "create a new config file and random master key salt",
	RunE: func(cmd *cobra.Command, args []string) error {
		kdf := config.KDFArgon2id
		if initKDF == "pbkdf2" {
			kdf = config.KDFPBKDF2SHA256
		}
		f, err := config.New(kdf, initBlockSize, initIVSize)
		if err != nil {
			return err
		}
		path := viper.GetString("config")
		if err := f.Save(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (key id %s)\n", path, f.KeyID)
		return nil
	},
}

func init() {
	initCmd.Flags().Uint32Var(&initBlockSize, "block-size", 4096, "logical block size")
	initCmd.Flags().Uint32Var(&initIVSize, "iv-size", 12, "IV size in bytes (12..32)")
	initCmd.Flags().StringVar(&initKDF, "kdf", "argon2id", "password KDF: argon2id or pbkdf2")
}

// readPassword reads a password from LITEFS_PASSWORD if set, otherwise
// prompts on stdin. A real terminal binding would disable echo here;
// this CLI is a stand-in for the FUSE host's own argument parsing (§1's
// Non-goals exclude the command-line surface from the core itself).
func readPassword() ([]byte, error) {
	if pw := os.Getenv("LITEFS_PASSWORD"); pw != "" {
		return []byte(pw), nil
	}
	fmt.Fprint(os.Stderr, "password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return nil, err
	}
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return []byte(line), nil
}
