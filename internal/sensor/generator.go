package sensor

import "math/rand"

// Generator produces one raw value for a measurement type.
type Generator func() float64

// Range is the half-open interval [Min, Max) a simulated generator draws from.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within the closed range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Ranges holds the simulated value range per type.
var Ranges = map[MeasurementType]Range{
	Temperature: {Min: 160, Max: 240},
	Humidity:    {Min: 30, Max: 80},
	Viscosity:   {Min: 0.5, Max: 3.0},
	PowderDust:  {Min: 0, Max: 100},
}

// Uniform returns a generator drawing uniformly from r using rng.
func Uniform(rng *rand.Rand, r Range) Generator {
	return func() float64 {
		return r.Min + rng.Float64()*(r.Max-r.Min)
	}
}

// DefaultGenerators builds one uniform generator per type from Ranges.
func DefaultGenerators(rng *rand.Rand) map[MeasurementType]Generator {
	gens := make(map[MeasurementType]Generator, len(Types))
	for _, t := range Types {
		gens[t] = Uniform(rng, Ranges[t])
	}
	return gens
}
