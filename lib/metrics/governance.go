package metrics

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

type GovernanceMetrics struct {
	Height metrics.Gauge

	ProposalsTotal    metrics.Counter
	VotesTotal        metrics.Counter
	StatusTransitions metrics.Counter
	ActionsTotal      metrics.Counter
	ActionErrorsTotal metrics.Counter
}

func (g *GovernanceMetrics) SetHeight(height uint64) {
	g.Height.Set(float64(height))
}

func (g *GovernanceMetrics) AddProposal(kind string) {
	g.ProposalsTotal.With("kind", kind).Add(1)
}

func (g *GovernanceMetrics) AddVote(kind string) {
	g.VotesTotal.With("kind", kind).Add(1)
}

func (g *GovernanceMetrics) AddStatusTransition(from, to string) {
	g.StatusTransitions.With("from", from, "to", to).Add(1)
}

// AddAction counts an action and, when it failed, its error.
func (g *GovernanceMetrics) AddAction(action string, err error) {
	g.ActionsTotal.With("action", action).Add(1)
	if err != nil {
		g.ActionErrorsTotal.With("action", action).Add(1)
	}
}

func PromGovernanceMetrics() *GovernanceMetrics {
	return &GovernanceMetrics{
		Height: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: GovernanceSubsystem,
			Name:      "height",
			Help:      "Height the last action was evaluated at.",
		}, []string{}),
		ProposalsTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: GovernanceSubsystem,
			Name:      "proposals_total",
			Help:      "Total number of created proposals.",
		}, []string{"kind"}),
		VotesTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: GovernanceSubsystem,
			Name:      "votes_total",
			Help:      "Total number of cast votes.",
		}, []string{"kind"}),
		StatusTransitions: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: GovernanceSubsystem,
			Name:      "status_transitions_total",
			Help:      "Total number of proposal status transitions.",
		}, []string{"from", "to"}),
		ActionsTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: GovernanceSubsystem,
			Name:      "actions_total",
			Help:      "Total number of submitted actions.",
		}, []string{"action"}),
		ActionErrorsTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: GovernanceSubsystem,
			Name:      "action_errors_total",
			Help:      "Total number of failed actions.",
		}, []string{"action"}),
	}
}

func NopGovernanceMetrics() *GovernanceMetrics {
	return &GovernanceMetrics{
		Height: discard.NewGauge(),

		ProposalsTotal:    discard.NewCounter(),
		VotesTotal:        discard.NewCounter(),
		StatusTransitions: discard.NewCounter(),
		ActionsTotal:      discard.NewCounter(),
		ActionErrorsTotal: discard.NewCounter(),
	}
}
