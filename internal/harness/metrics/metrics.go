package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lueurxax/strqueue/internal/log"
)

const (
	namespace   = "qtest"
	opLabel     = "op"
	resultLabel = "result"
	okResult    = "ok"
	errResult   = "error"
)

type Metrics interface {
	Observe(op string, err error)
	// Report logs the current value of every gathered counter.
	Report()
}

type metrics struct {
	commands *prometheus.CounterVec
	gatherer prometheus.Gatherer

	log log.Logger
}

func (m *metrics) Observe(op string, err error) {
	result := okResult
	if err != nil {
		result = errResult
	}

	m.commands.WithLabelValues(op, result).Inc()
}

func (m *metrics) Report() {
	families, err := m.gatherer.Gather()
	if err != nil {
		m.log.WithError(err).Error("gather metrics")

		return
	}

	for _, family := range families {
		for _, metric := range family.GetMetric() {
			fields := map[string]interface{}{"metric": family.GetName(), "value": metric.GetCounter().GetValue()}
			for _, label := range metric.GetLabel() {
				fields[label.GetName()] = label.GetValue()
			}

			m.log.WithFields(fields).Info("counter")
		}
	}
}

// NewCommandsCounter registers the per command counter in registerer.
func NewCommandsCounter(registerer prometheus.Registerer) (*prometheus.CounterVec, error) {
	commands := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "commands_total",
		Help:      "Harness commands by name and result.",
	}, []string{opLabel, resultLabel})

	if err := registerer.Register(commands); err != nil {
		return nil, err
	}

	return commands, nil
}

func NewMetrics(commands *prometheus.CounterVec, gatherer prometheus.Gatherer, logger log.Logger) Metrics {
	return &metrics{commands: commands, gatherer: gatherer, log: logger}
}
