package congress

import (
	"encoding/json"
	"strings"

	yaml "gopkg.in/yaml.v2"

	"boscoin.io/congress/lib/common"
	"boscoin.io/congress/lib/errors"
	"boscoin.io/congress/lib/proposal"
	"boscoin.io/congress/lib/storage"
	"boscoin.io/congress/lib/voting"
)

type CreationPolicy string

const (
	CreationAnyone  CreationPolicy = "anyone"
	CreationMembers CreationPolicy = "members"
)

const ConfigKey string = "cg-config"

// Config is how proposals are created and decided. Changing it only affects
// proposals created afterwards.
type Config struct {
	// DAO is the governing address, the only one allowed to update the
	// config.
	DAO       string
	Threshold voting.Threshold
	// Quorum applies to multiple choice proposals.
	Quorum                          voting.PercentageThreshold
	MaxVotingPeriod                 common.Duration
	MinVotingPeriod                 *common.Duration
	AllowRevoting                   bool
	OnlyMembersExecute              bool
	CloseProposalOnExecutionFailure bool
	CreationPolicy                  CreationPolicy
	Veto                            *proposal.VetoConfig
}

func (c Config) Validate() error {
	if err := common.CheckAddress(c.DAO); err != nil {
		return err
	}

	if c.Threshold == nil {
		return errors.InvalidThreshold.Clone().SetData("reason", "threshold is missing")
	}
	if err := c.Threshold.Validate(); err != nil {
		return err
	}
	if err := voting.ValidateQuorum(c.Quorum); err != nil {
		return err
	}

	if err := c.MaxVotingPeriod.IsValid(); err != nil {
		return err
	}
	if c.MinVotingPeriod != nil {
		if err := c.MinVotingPeriod.IsValid(); err != nil {
			return err
		}
		if c.MinVotingPeriod.UnitsMismatch(c.MaxVotingPeriod) {
			return errors.DurationUnitsConflict
		}
		if c.MinVotingPeriod.Value > c.MaxVotingPeriod.Value {
			return errors.InvalidMinVotingPeriod.Clone().
				SetData("min", c.MinVotingPeriod.String()).
				SetData("max", c.MaxVotingPeriod.String())
		}
	}

	switch c.CreationPolicy {
	case CreationAnyone, CreationMembers:
	default:
		return errors.InvalidConfig.Clone().SetData("proposal_creation_policy", c.CreationPolicy)
	}

	if c.Veto != nil {
		if err := c.Veto.Validate(c.MaxVotingPeriod); err != nil {
			return err
		}
	}

	return nil
}

type configJSON struct {
	DAO                             string               `json:"dao"`
	Threshold                       json.RawMessage      `json:"threshold"`
	Quorum                          json.RawMessage      `json:"quorum"`
	MaxVotingPeriod                 common.Duration      `json:"max_voting_period"`
	MinVotingPeriod                 *common.Duration     `json:"min_voting_period,omitempty"`
	AllowRevoting                   bool                 `json:"allow_revoting"`
	OnlyMembersExecute              bool                 `json:"only_members_execute"`
	CloseProposalOnExecutionFailure bool                 `json:"close_proposal_on_execution_failure"`
	CreationPolicy                  CreationPolicy       `json:"proposal_creation_policy"`
	Veto                            *proposal.VetoConfig `json:"veto,omitempty"`
}

func (c Config) MarshalJSON() ([]byte, error) {
	threshold, err := json.Marshal(c.Threshold)
	if err != nil {
		return nil, err
	}
	quorum, err := json.Marshal(c.Quorum)
	if err != nil {
		return nil, err
	}

	return json.Marshal(configJSON{
		DAO:                             c.DAO,
		Threshold:                       threshold,
		Quorum:                          quorum,
		MaxVotingPeriod:                 c.MaxVotingPeriod,
		MinVotingPeriod:                 c.MinVotingPeriod,
		AllowRevoting:                   c.AllowRevoting,
		OnlyMembersExecute:              c.OnlyMembersExecute,
		CloseProposalOnExecutionFailure: c.CloseProposalOnExecutionFailure,
		CreationPolicy:                  c.CreationPolicy,
		Veto:                            c.Veto,
	})
}

func (c *Config) UnmarshalJSON(b []byte) error {
	var j configJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}

	threshold, err := voting.UnmarshalThreshold(j.Threshold)
	if err != nil {
		return err
	}
	quorum, err := voting.UnmarshalPercentageThreshold(j.Quorum)
	if err != nil {
		return err
	}

	*c = Config{
		DAO:                             j.DAO,
		Threshold:                       threshold,
		Quorum:                          quorum,
		MaxVotingPeriod:                 j.MaxVotingPeriod,
		MinVotingPeriod:                 j.MinVotingPeriod,
		AllowRevoting:                   j.AllowRevoting,
		OnlyMembersExecute:              j.OnlyMembersExecute,
		CloseProposalOnExecutionFailure: j.CloseProposalOnExecutionFailure,
		CreationPolicy:                  j.CreationPolicy,
		Veto:                            j.Veto,
	}

	return nil
}

// thresholdYAML is the flat form of a threshold in config files:
//
//	kind: threshold_quorum # or absolute_count, absolute_percentage
//	count: 10              # absolute_count
//	percentage: majority   # or a decimal like 0.5
//	quorum: 0.2            # threshold_quorum
type thresholdYAML struct {
	Kind       string `yaml:"kind"`
	Count      uint64 `yaml:"count,omitempty"`
	Percentage string `yaml:"percentage,omitempty"`
	Quorum     string `yaml:"quorum,omitempty"`
}

func parsePercentage(s string) (voting.PercentageThreshold, error) {
	if strings.ToLower(strings.TrimSpace(s)) == "majority" {
		return voting.Majority{}, nil
	}

	return voting.NewPercent(strings.TrimSpace(s))
}

func formatPercentage(p voting.PercentageThreshold) string {
	switch t := p.(type) {
	case voting.Majority:
		return "majority"
	case voting.Percent:
		return t.Value.String()
	default:
		return ""
	}
}

func (t thresholdYAML) threshold() (voting.Threshold, error) {
	switch t.Kind {
	case "absolute_count":
		return voting.AbsoluteCount{Threshold: common.Power(t.Count)}, nil
	case "absolute_percentage":
		p, err := parsePercentage(t.Percentage)
		if err != nil {
			return nil, err
		}
		return voting.AbsolutePercentage{Percentage: p}, nil
	case "threshold_quorum":
		p, err := parsePercentage(t.Percentage)
		if err != nil {
			return nil, err
		}
		q, err := parsePercentage(t.Quorum)
		if err != nil {
			return nil, err
		}
		return voting.ThresholdQuorum{Threshold: p, Quorum: q}, nil
	default:
		return nil, errors.InvalidThreshold.Clone().SetData("kind", t.Kind)
	}
}

func newThresholdYAML(threshold voting.Threshold) thresholdYAML {
	switch t := threshold.(type) {
	case voting.AbsoluteCount:
		return thresholdYAML{Kind: "absolute_count", Count: uint64(t.Threshold)}
	case voting.AbsolutePercentage:
		return thresholdYAML{Kind: "absolute_percentage", Percentage: formatPercentage(t.Percentage)}
	case voting.ThresholdQuorum:
		return thresholdYAML{
			Kind:       "threshold_quorum",
			Percentage: formatPercentage(t.Threshold),
			Quorum:     formatPercentage(t.Quorum),
		}
	default:
		return thresholdYAML{}
	}
}

type configYAML struct {
	DAO                             string               `yaml:"dao"`
	Threshold                       thresholdYAML        `yaml:"threshold"`
	Quorum                          string               `yaml:"quorum"`
	MaxVotingPeriod                 common.Duration      `yaml:"max_voting_period"`
	MinVotingPeriod                 *common.Duration     `yaml:"min_voting_period,omitempty"`
	AllowRevoting                   bool                 `yaml:"allow_revoting"`
	OnlyMembersExecute              bool                 `yaml:"only_members_execute"`
	CloseProposalOnExecutionFailure bool                 `yaml:"close_proposal_on_execution_failure"`
	CreationPolicy                  CreationPolicy       `yaml:"proposal_creation_policy"`
	Veto                            *proposal.VetoConfig `yaml:"veto,omitempty"`
}

func (c Config) MarshalYAML() (interface{}, error) {
	return configYAML{
		DAO:                             c.DAO,
		Threshold:                       newThresholdYAML(c.Threshold),
		Quorum:                          formatPercentage(c.Quorum),
		MaxVotingPeriod:                 c.MaxVotingPeriod,
		MinVotingPeriod:                 c.MinVotingPeriod,
		AllowRevoting:                   c.AllowRevoting,
		OnlyMembersExecute:              c.OnlyMembersExecute,
		CloseProposalOnExecutionFailure: c.CloseProposalOnExecutionFailure,
		CreationPolicy:                  c.CreationPolicy,
		Veto:                            c.Veto,
	}, nil
}

func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	j := configYAML{Quorum: "majority", CreationPolicy: CreationAnyone}
	if err := unmarshal(&j); err != nil {
		return err
	}

	threshold, err := j.Threshold.threshold()
	if err != nil {
		return err
	}
	quorum, err := parsePercentage(j.Quorum)
	if err != nil {
		return err
	}

	*c = Config{
		DAO:                             j.DAO,
		Threshold:                       threshold,
		Quorum:                          quorum,
		MaxVotingPeriod:                 j.MaxVotingPeriod,
		MinVotingPeriod:                 j.MinVotingPeriod,
		AllowRevoting:                   j.AllowRevoting,
		OnlyMembersExecute:              j.OnlyMembersExecute,
		CloseProposalOnExecutionFailure: j.CloseProposalOnExecutionFailure,
		CreationPolicy:                  j.CreationPolicy,
		Veto:                            j.Veto,
	}

	return nil
}

// ParseConfigYAML reads and validates a config file.
func ParseConfigYAML(b []byte) (config Config, err error) {
	if err = yaml.Unmarshal(b, &config); err != nil {
		return
	}

	err = config.Validate()

	return
}

// DefaultConfig is a majority vote over a week of blocks, five seconds apart.
func DefaultConfig(dao string) Config {
	return Config{
		DAO:                             dao,
		Threshold:                       voting.AbsolutePercentage{Percentage: voting.Majority{}},
		Quorum:                          voting.MustPercent("0.2"),
		MaxVotingPeriod:                 common.DurationOfHeight(120960),
		AllowRevoting:                   false,
		OnlyMembersExecute:              true,
		CloseProposalOnExecutionFailure: true,
		CreationPolicy:                  CreationAnyone,
	}
}

func GetConfig(st *storage.LevelDBBackend) (config Config, err error) {
	if err = st.Get(ConfigKey, &config); err != nil {
		if errors.Is(err, errors.StorageRecordDoesNotExist) {
			err = errors.InvalidConfig.Clone().SetData("reason", "config is not initialized")
		}
		return
	}

	return
}

func SaveConfig(st *storage.LevelDBBackend, config Config) error {
	return st.Put(ConfigKey, config)
}
