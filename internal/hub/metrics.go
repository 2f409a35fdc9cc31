package hub

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	connectionsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "ghosthub",
		Name:      "connections",
		Help:      "Currently connected sessions.",
	})
	messagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ghosthub",
		Name:      "messages_total",
		Help:      "Room chat lines accepted from clients.",
	})
	commandsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ghosthub",
		Name:      "commands_total",
		Help:      "Sigil-prefixed lines handed to the command dispatcher.",
	})
	dmRelayedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ghosthub",
		Name:      "dm_relayed_total",
		Help:      "Direct messages relayed, by kind.",
	}, []string{"kind"})
)
