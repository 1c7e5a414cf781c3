// Package metrics exposes Prometheus counters for the intake bot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/m3rciful/rentalbot/internal/listing"
)

// Collector holds the bot's metric vectors.
type Collector struct {
	Transitions *prometheus.CounterVec
	Rejections  *prometheus.CounterVec
	Submissions *prometheus.CounterVec
	Updates     *prometheus.CounterVec
	Messages    *prometheus.CounterVec
}

// New creates unregistered vectors.
func New() *Collector {
	return &Collector{
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_transitions_total",
				Help: "State machine transitions by source state, target state and input",
			},
			[]string{"from", "to", "input"},
		),
		Rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_rejections_total",
				Help: "Transitions that reported a classified error",
			},
			[]string{"state", "kind"},
		),
		Submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_submissions_total",
				Help: "Delivery attempts to the admin chat by outcome",
			},
			[]string{"outcome"},
		),
		Updates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bot_updates_total",
				Help: "Handled Telegram updates by kind and status",
			},
			[]string{"kind", "status"},
		),
		Messages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bot_messages_sent_total",
				Help: "Messages sent or edited in reply to updates",
			},
			[]string{"kind"},
		),
	}
}

// Register adds the vectors and an active sessions gauge to reg.
func (c *Collector) Register(reg prometheus.Registerer, activeSessions func() int) error {
	cs := []prometheus.Collector{c.Transitions, c.Rejections, c.Submissions, c.Updates, c.Messages}
	if activeSessions != nil {
		cs = append(cs, prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "intake_active_sessions",
				Help: "Conversations with an intake in progress",
			},
			func() float64 { return float64(activeSessions()) },
		))
	}
	for _, col := range cs {
		if err := reg.Register(col); err != nil {
			return err
		}
	}
	return nil
}

// ObserveTransition counts a state machine step.
func (c *Collector) ObserveTransition(from, to listing.State, input, errKind string) {
	c.Transitions.WithLabelValues(string(from), string(to), input).Inc()
	if errKind != "" {
		c.Rejections.WithLabelValues(string(from), errKind).Inc()
	}
}

// ObserveSubmission counts a delivery attempt.
func (c *Collector) ObserveSubmission(outcome string) {
	c.Submissions.WithLabelValues(outcome).Inc()
}

// ObserveUpdate counts a handled update and the replies it produced.
func (c *Collector) ObserveUpdate(kind string, messages int, err error) {
	status := "ok"
	if err != nil {
		status = "fail"
	}
	c.Updates.WithLabelValues(kind, status).Inc()
	if messages > 0 {
		c.Messages.WithLabelValues(kind).Add(float64(messages))
	}
}
