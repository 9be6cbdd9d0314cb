package cmd

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stellar/go/keypair"

	"boscoin.io/congress/cmd/congress/common"
	"boscoin.io/congress/lib/api"
	cgcommon "boscoin.io/congress/lib/common"
	"boscoin.io/congress/lib/congress"
)

var (
	flagActionSecretSeed string = cgcommon.GetENVValue("CONGRESS_SECRET_SEED", "")
	flagActionNetworkID  string = cgcommon.GetENVValue("CONGRESS_NETWORK_ID", "")
	flagActionEndpoint   string = cgcommon.GetENVValue("CONGRESS_ENDPOINT", "http://127.0.0.1:12345")
	flagActionFormat     string = "prettyjson"
	flagMsgsFile         string
	flagChoicesFile      string
	flagRationale        string
)

var actionCmd *cobra.Command

func init() {
	actionCmd = &cobra.Command{
		Use:   "action",
		Short: "Send signed governance actions to a node",
		Run: func(c *cobra.Command, args []string) {
			if len(args) < 1 {
				c.Usage()
			}
		},
	}

	actionCmd.PersistentFlags().StringVar(&flagActionSecretSeed, "secret-seed", flagActionSecretSeed, "secret seed of the sender")
	actionCmd.PersistentFlags().StringVar(&flagActionNetworkID, "network-id", flagActionNetworkID, "network id of the node")
	actionCmd.PersistentFlags().StringVar(&flagActionEndpoint, "endpoint", flagActionEndpoint, "endpoint of the node")
	actionCmd.PersistentFlags().StringVar(&flagActionFormat, "format", flagActionFormat, "format={json, prettyjson, yaml}")

	proposeCmd := &cobra.Command{
		Use:   "propose <title> [<description>]",
		Short: "Create a single choice proposal",
		Args:  cobra.RangeArgs(1, 2),
		Run: func(c *cobra.Command, args []string) {
			msg := congress.ProposeMsg{Title: args[0]}
			if len(args) > 1 {
				msg.Description = args[1]
			}
			if len(flagMsgsFile) > 0 {
				if err := readJSONFile(flagMsgsFile, &msg.Msgs); err != nil {
					common.PrintFlagsError(c, "--msgs", err)
				}
			}

			runAction(c, "Propose", msg, &api.ActionResult{})
		},
	}
	proposeCmd.Flags().StringVar(&flagMsgsFile, "msgs", flagMsgsFile, "json file of the messages to execute")

	proposeMultipleCmd := &cobra.Command{
		Use:   "propose-multiple <title> [<description>]",
		Short: "Create a multiple choice proposal",
		Args:  cobra.RangeArgs(1, 2),
		Run: func(c *cobra.Command, args []string) {
			msg := congress.ProposeMultipleMsg{Title: args[0]}
			if len(args) > 1 {
				msg.Description = args[1]
			}
			if err := readJSONFile(flagChoicesFile, &msg.Choices); err != nil {
				common.PrintFlagsError(c, "--choices", err)
			}

			runAction(c, "ProposeMultiple", msg, &api.ActionResult{})
		},
	}
	proposeMultipleCmd.Flags().StringVar(&flagChoicesFile, "choices", flagChoicesFile, "json file of the choices")

	voteCmd := &cobra.Command{
		Use:   "vote <proposal id> <yes|no|abstain|choice index>",
		Short: "Vote on a proposal",
		Args:  cobra.ExactArgs(2),
		Run: func(c *cobra.Command, args []string) {
			id, err := parseProposalID(args[0])
			if err != nil {
				common.PrintFlagsError(c, "<proposal id>", err)
			}

			var rationale *string
			if c.Flags().Changed("rationale") {
				rationale = &flagRationale
			}

			runAction(c, "Vote", newVoteArgs(id, args[1], rationale), &api.ActionResult{})
		},
	}
	voteCmd.Flags().StringVar(&flagRationale, "rationale", flagRationale, "rationale of the vote")

	rationaleCmd := &cobra.Command{
		Use:   "rationale <proposal id> [<rationale>]",
		Short: "Update or clear the rationale of a vote",
		Args:  cobra.RangeArgs(1, 2),
		Run: func(c *cobra.Command, args []string) {
			id, err := parseProposalID(args[0])
			if err != nil {
				common.PrintFlagsError(c, "<proposal id>", err)
			}

			body := api.RationaleArgs{ID: id}
			if len(args) > 1 {
				body.Rationale = &args[1]
			}

			runAction(c, "UpdateRationale", body, &api.ActionResult{})
		},
	}

	updateConfigCmd := &cobra.Command{
		Use:   "update-config <config file>",
		Short: "Replace the governance config; only the dao may",
		Args:  cobra.ExactArgs(1),
		Run: func(c *cobra.Command, args []string) {
			config, err := loadConfig(args[0], "")
			if err != nil {
				common.PrintFlagsError(c, "<config file>", err)
			}

			runAction(c, "UpdateConfig", config, &api.ConfigResult{})
		},
	}

	actionCmd.AddCommand(proposeCmd, proposeMultipleCmd, voteCmd, rationaleCmd, updateConfigCmd)
	for _, method := range []string{"Execute", "Close", "Veto"} {
		actionCmd.AddCommand(newProposalActionCmd(method))
	}

	rootCmd.AddCommand(actionCmd)
}

func newProposalActionCmd(method string) *cobra.Command {
	return &cobra.Command{
		Use:   strings.ToLower(method) + " <proposal id>",
		Short: fmt.Sprintf("%s a proposal", method),
		Args:  cobra.ExactArgs(1),
		Run: func(c *cobra.Command, args []string) {
			id, err := parseProposalID(args[0])
			if err != nil {
				common.PrintFlagsError(c, "<proposal id>", err)
			}

			runAction(c, method, api.ProposalArgs{ID: id}, &api.ActionResult{})
		},
	}
}

func parseProposalID(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}

// newVoteArgs takes a number as the choice index of a multiple choice
// proposal and anything else as a single choice vote.
func newVoteArgs(id uint64, vote string, rationale *string) api.VoteArgs {
	args := api.VoteArgs{ID: id, Rationale: rationale}
	if i, err := strconv.ParseUint(vote, 10, 32); err == nil {
		choice := uint32(i)
		args.Choice = &choice
	} else {
		args.Vote = vote
	}

	return args
}

func readJSONFile(path string, v interface{}) error {
	if len(path) < 1 {
		return fmt.Errorf("file must be given")
	}

	b, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}

	return json.Unmarshal(b, v)
}

func parseFlagsAction() (*api.Client, string, error) {
	parsed, err := keypair.Parse(flagActionSecretSeed)
	if err != nil {
		return nil, "--secret-seed", err
	}
	kp, ok := parsed.(*keypair.Full)
	if !ok {
		return nil, "--secret-seed", fmt.Errorf("provided key is an address, not a secret seed")
	}

	if len(flagActionNetworkID) < 1 {
		return nil, "--network-id", fmt.Errorf("--network-id must be given")
	}

	return api.NewClient(flagActionEndpoint, []byte(flagActionNetworkID), kp), "", nil
}

func runAction(c *cobra.Command, method string, body interface{}, result interface{}) {
	if flagName, err := parseLogging(); err != nil {
		common.PrintFlagsError(c, flagName, err)
	}

	client, flagName, err := parseFlagsAction()
	if err != nil {
		common.PrintFlagsError(c, flagName, err)
	}

	encode, err := common.GetEncode(flagActionFormat)
	if err != nil {
		common.PrintFlagsError(c, "--format", err)
	}

	if err = client.Call(method, body, result); err != nil {
		common.PrintError(c, err)
	}

	if err = encode(result, c.OutOrStdout()); err != nil {
		common.PrintError(c, err)
	}
}
