package rabbitmq

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "broker_events_published_total",
		Help: "The total number of events published per queue",
	}, []string{"queue"})
	publishErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "broker_publish_errors_total",
		Help: "The total number of failed publish attempts per queue",
	}, []string{"queue"})
	eventsConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "broker_events_consumed_total",
		Help: "The total number of events consumed per queue",
	}, []string{"queue"})
	consumeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "broker_consume_failures_total",
		Help: "The total number of consumed events whose handler failed",
	}, []string{"queue"})
	reconnects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "broker_reconnects_total",
		Help: "The total number of times the broker connection was lost",
	})
	connectionReady = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "broker_connection_ready",
		Help: "1 while the broker channel is ready, 0 otherwise",
	})
)
