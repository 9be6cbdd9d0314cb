package cmd

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"boscoin.io/congress/cmd/congress/common"
	cgcommon "boscoin.io/congress/lib/common"
	"boscoin.io/congress/lib/power"
)

var powerCmd *cobra.Command

func init() {
	powerCmd = &cobra.Command{
		Use:   "power",
		Short: "Manage voting power checkpoints",
		Run: func(c *cobra.Command, args []string) {
			if len(args) < 1 {
				c.Usage()
			}
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <address> <height> <power>",
		Short: "Set the voting power of an address from a height on",
		Args:  cobra.ExactArgs(3),
		Run: func(c *cobra.Command, args []string) {
			if flagName, err := parseLogging(); err != nil {
				common.PrintFlagsError(c, flagName, err)
			}

			height, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				common.PrintFlagsError(c, "<height>", err)
			}
			p, err := cgcommon.PowerFromString(args[2])
			if err != nil {
				common.PrintFlagsError(c, "<power>", err)
			}

			if err = setPower(flagStorage, args[0], height, p); err != nil {
				common.PrintError(c, err)
			}
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <address> [<height>]",
		Short: "Print the voting power of an address and the total at a height",
		Args:  cobra.RangeArgs(1, 2),
		Run: func(c *cobra.Command, args []string) {
			height := uint64(math.MaxUint64)
			if len(args) > 1 {
				var err error
				if height, err = strconv.ParseUint(args[1], 10, 64); err != nil {
					common.PrintFlagsError(c, "<height>", err)
				}
			}

			p, total, err := getPower(flagStorage, args[0], height)
			if err != nil {
				common.PrintError(c, err)
			}

			fmt.Fprintf(c.OutOrStdout(), "%s %s\n", p, total)
		},
	}

	powerCmd.AddCommand(setCmd, getCmd)
	rootCmd.AddCommand(powerCmd)
}

func setPower(uri, address string, height uint64, p cgcommon.Power) error {
	st, err := openStorage(uri)
	if err != nil {
		return err
	}
	defer st.Close()

	registry, err := power.NewRegistry(st, power.DefaultCacheSize)
	if err != nil {
		return err
	}

	if err = registry.SetPower(address, height, p); err != nil {
		return err
	}
	log.Info("voting power set", "address", address, "height", height, "power", p)

	return nil
}

func getPower(uri, address string, height uint64) (p, total cgcommon.Power, err error) {
	st, err := openStorage(uri)
	if err != nil {
		return
	}
	defer st.Close()

	registry, err := power.NewRegistry(st, power.DefaultCacheSize)
	if err != nil {
		return
	}

	if p, err = registry.VotingPowerAt(address, height); err != nil {
		return
	}
	total, err = registry.TotalVotingPowerAt(height)

	return
}
