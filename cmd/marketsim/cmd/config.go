package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/marketsim/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Write a default config file",
	Long: `Write the default configuration to a file so it can be edited and
passed back to run or seeds. The extension picks the format (.yaml/.yml or
.json).`,
	RunE: runConfig,
}

var configOutPath string

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().StringVarP(&configOutPath, "out", "o", "marketsim.yaml", "output path")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if err := config.Default().SaveToFile(configOutPath); err != nil {
		return err
	}
	fmt.Printf("Wrote default config to %s\n", configOutPath)
	return nil
}
