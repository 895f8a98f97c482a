package collector

import "codeberg.org/mutker/cukraszda/internal/sensor"

// Collector accumulates every measurement it is notified of, in arrival order.
type Collector struct {
	records []sensor.Measurement
}

func New() *Collector {
	return &Collector{}
}

// Attach subscribes the collector to every node of the network.
func (c *Collector) Attach(network *sensor.Network) {
	network.Subscribe(c.OnMeasurement)
}

// OnMeasurement appends m to the sequence.
func (c *Collector) OnMeasurement(m sensor.Measurement) {
	c.records = append(c.records, m)
}

// Measurements returns a copy of the accumulated sequence.
func (c *Collector) Measurements() []sensor.Measurement {
	out := make([]sensor.Measurement, len(c.records))
	copy(out, c.records)
	return out
}

func (c *Collector) Len() int {
	return len(c.records)
}
