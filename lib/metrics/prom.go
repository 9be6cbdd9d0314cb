package metrics

var initialized bool

// InitPrometheusMetrics replaces the discarding metrics with prometheus ones.
// Prometheus refuses duplicated registrations, so it only runs once.
func InitPrometheusMetrics() {
	if initialized {
		return
	}
	initialized = true

	Version = PromVersion()
	Governance = PromGovernanceMetrics()
	API = PromAPIMetrics()
}
