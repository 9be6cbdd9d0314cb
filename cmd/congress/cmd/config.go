package cmd

import (
	"io/ioutil"

	"github.com/spf13/cobra"

	"boscoin.io/congress/cmd/congress/common"
	"boscoin.io/congress/lib/congress"
)

var (
	configCmd *cobra.Command

	flagConfigFormat string = "yaml"
	flagConfigDAO    string
)

func init() {
	configCmd = &cobra.Command{
		Use:   "config [<config file>]",
		Short: "Validate and print the governance config",
		Long:  "Validate the governance config file, or the default config of --dao when no file is given, and print it",
		Args:  cobra.MaximumNArgs(1),
		Run: func(c *cobra.Command, args []string) {
			var path string
			if len(args) > 0 {
				path = args[0]
			}

			config, err := loadConfig(path, flagConfigDAO)
			if err != nil {
				common.PrintFlagsError(c, "<config file>", err)
			}

			encode, err := common.GetEncode(flagConfigFormat)
			if err != nil {
				common.PrintFlagsError(c, "--format", err)
			}

			if err = encode(config, c.OutOrStdout()); err != nil {
				common.PrintError(c, err)
			}
		},
	}

	configCmd.Flags().StringVar(&flagConfigFormat, "format", flagConfigFormat, "format={yaml, json, prettyjson}")
	configCmd.Flags().StringVar(&flagConfigDAO, "dao", flagConfigDAO, "dao address of the default config")

	rootCmd.AddCommand(configCmd)
}

// loadConfig reads the config file at `path`; without a path, the default
// config governed by `dao` is used.
func loadConfig(path, dao string) (congress.Config, error) {
	if len(path) < 1 {
		config := congress.DefaultConfig(dao)
		return config, config.Validate()
	}

	b, err := ioutil.ReadFile(path)
	if err != nil {
		return congress.Config{}, err
	}

	return congress.ParseConfigYAML(b)
}
