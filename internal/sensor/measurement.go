package sensor

import (
	"fmt"
	"time"
)

// MeasurementType tags what a measurement describes.
type MeasurementType int

const (
	Temperature MeasurementType = iota
	Humidity
	Viscosity
	PowderDust
)

// Types lists every measurement type in sampling order.
var Types = []MeasurementType{Temperature, Humidity, Viscosity, PowderDust}

var typeNames = map[MeasurementType]string{
	Temperature: "Temperature",
	Humidity:    "Humidity",
	Viscosity:   "Viscosity",
	PowderDust:  "PowderDust",
}

func (t MeasurementType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("MeasurementType(%d)", int(t))
}

// IsValid reports whether t is one of the known types.
func (t MeasurementType) IsValid() bool {
	_, ok := typeNames[t]
	return ok
}

// ParseMeasurementType returns the type with the given name.
func ParseMeasurementType(name string) (MeasurementType, error) {
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown measurement type %q", name)
}

func (t MeasurementType) MarshalText() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("unknown measurement type %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *MeasurementType) UnmarshalText(text []byte) error {
	parsed, err := ParseMeasurementType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Measurement is a single reading taken by a sensor node.
type Measurement struct {
	SensorID   int             `json:"SensorId"`
	SensorName string          `json:"SensorName"`
	Type       MeasurementType `json:"Type"`
	Value      float64         `json:"Value"`
	Timestamp  time.Time       `json:"Timestamp"`
}
