package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chatline",
		Name:      "chat_events_published_total",
		Help:      "Chat events published to the realtime broker.",
	}, []string{"type"})

	streamSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "chatline",
		Name:      "chat_stream_subscribers",
		Help:      "Open realtime chat streams.",
	})
)
