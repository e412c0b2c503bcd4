package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestTurnMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewTurnMetrics(reg)
	m.ObserveTurn("COLLECT_NAME", "ok")
	m.ObserveTurnLatency("COLLECT_NAME", 0.03)
}

func TestTurnMetricsNilSafe(t *testing.T) {
	var m *TurnMetrics
	m.ObserveTurn("START", "ok")
	m.ObserveTurnLatency("START", 0.1)
}

func TestBookingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)
	m.ObserveBooking("created")
	m.ObserveBooking("duplicate")
	m.ObserveRetry("create_appointment")
}

func TestBookingMetricsNilSafe(t *testing.T) {
	var m *BookingMetrics
	m.ObserveBooking("failed")
	m.ObserveRetry("upsert_patient")
}
