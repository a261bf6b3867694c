package main

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/james226/workflow-api/diagram"
)

var (
	// MessagesTotal counts processed client messages by type
	MessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_messages_total",
			Help: "Total number of client messages processed",
		},
		[]string{"type"},
	)

	// MessageErrorsTotal counts messages the editor rejected
	MessageErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_message_errors_total",
			Help: "Total number of client messages rejected by the editor",
		},
		[]string{"type"},
	)

	// DroppedMessagesTotal counts broadcasts dropped for slow clients
	DroppedMessagesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "workflow_dropped_messages_total",
			Help: "Total number of broadcasts dropped because a client buffer was full",
		},
	)

	// ConnectedClients tracks clients attached to each diagram
	ConnectedClients = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "workflow_connected_clients",
			Help: "Number of clients attached to a diagram",
		},
		[]string{"diagram"},
	)

	// ActiveDiagrams tracks diagrams with a running broker
	ActiveDiagrams = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "workflow_active_diagrams",
			Help: "Number of diagrams with a running broker",
		},
	)
)

func init() {
	prometheus.MustRegister(MessagesTotal)
	prometheus.MustRegister(MessageErrorsTotal)
	prometheus.MustRegister(DroppedMessagesTotal)
	prometheus.MustRegister(ConnectedClients)
	prometheus.MustRegister(ActiveDiagrams)
}

// typeLabel keeps the type label bounded: client-chosen types outside the
// protocol are counted as "unknown".
func typeLabel(t string) string {
	if diagram.IsInbound(t) {
		return t
	}
	return "unknown"
}
