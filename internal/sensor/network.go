package sensor

import "math/rand"

// Station names a node of the network.
type Station struct {
	ID   int
	Name string
}

// DefaultStations are the confectionery's sensor stations.
var DefaultStations = []Station{
	{ID: 1, Name: "Sütő 1"},
	{ID: 2, Name: "Sütő 2"},
	{ID: 3, Name: "Tésztakeverő állomás"},
	{ID: 4, Name: "Díszítő pult"},
	{ID: 5, Name: "Krémkeverő gép"},
}

// Network is a fixed, ordered set of nodes sharing one random source.
type Network struct {
	nodes []*Node
}

// NewNetwork builds one node per station; opts apply to every node.
func NewNetwork(rng *rand.Rand, stations []Station, opts ...NodeOption) *Network {
	nodes := make([]*Node, 0, len(stations))
	for _, s := range stations {
		nodes = append(nodes, NewNode(s.ID, s.Name, rng, opts...))
	}
	return &Network{nodes: nodes}
}

// NewDefaultNetwork builds the network from DefaultStations.
func NewDefaultNetwork(rng *rand.Rand, opts ...NodeOption) *Network {
	return NewNetwork(rng, DefaultStations, opts...)
}

// Nodes returns the nodes in network order.
func (n *Network) Nodes() []*Node {
	nodes := make([]*Node, len(n.nodes))
	copy(nodes, n.nodes)
	return nodes
}

// Subscribe registers h on every node.
func (n *Network) Subscribe(h Handler) {
	for _, node := range n.nodes {
		node.Subscribe(h)
	}
}

// RunCycle samples every node in order and returns all readings.
func (n *Network) RunCycle() []Measurement {
	out := make([]Measurement, 0, len(n.nodes)*len(Types))
	for _, node := range n.nodes {
		out = append(out, node.Sample()...)
	}
	return out
}
