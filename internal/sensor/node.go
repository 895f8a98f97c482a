package sensor

import (
	"math/rand"
	"time"
)

// Handler receives every measurement a node produces.
type Handler func(Measurement)

// Node is a simulated sensor station.
type Node struct {
	id         int
	name       string
	generators map[MeasurementType]Generator
	now        func() time.Time
	handlers   []Handler
}

// NodeOption customises a node at construction.
type NodeOption func(*Node)

// WithClock sets the time source used to stamp measurements.
func WithClock(now func() time.Time) NodeOption {
	return func(n *Node) {
		n.now = now
	}
}

// WithGenerator replaces the generator for a single type.
func WithGenerator(t MeasurementType, gen Generator) NodeOption {
	return func(n *Node) {
		n.generators[t] = gen
	}
}

// NewNode creates a node drawing its values from the shared rng.
func NewNode(id int, name string, rng *rand.Rand, opts ...NodeOption) *Node {
	n := &Node{
		id:         id,
		name:       name,
		generators: DefaultGenerators(rng),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Node) ID() int {
	return n.id
}

func (n *Node) Name() string {
	return n.name
}

// Subscribe registers h to be called for every measurement, in registration order.
func (n *Node) Subscribe(h Handler) {
	n.handlers = append(n.handlers, h)
}

// Sample takes one reading per type, notifies subscribers and returns the readings.
func (n *Node) Sample() []Measurement {
	out := make([]Measurement, 0, len(Types))
	for _, t := range Types {
		m := Measurement{
			SensorID:   n.id,
			SensorName: n.name,
			Type:       t,
			Value:      n.generators[t](),
			Timestamp:  n.now(),
		}
		for _, h := range n.handlers {
			h(m)
		}
		out = append(out, m)
	}
	return out
}
