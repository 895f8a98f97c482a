package report

import "codeberg.org/mutker/cukraszda/internal/sensor"

// DefaultAlertThreshold is the oven temperature above which a reading raises an alert.
const DefaultAlertThreshold = 230.0

// SensorAverage is the mean temperature of one sensor.
type SensorAverage struct {
	Sensor  string
	Average float64
	Count   int
}

// Summary holds the results of the end-of-run queries.
type Summary struct {
	Averages       []SensorAverage
	MaxViscosity   float64
	HasViscosity   bool
	Alerts         []sensor.Measurement
	AlertThreshold float64
	TotalRecords   int
}

// AverageTemperatureBySensor groups temperature readings by sensor name,
// ordered by each name's first appearance.
func AverageTemperatureBySensor(records []sensor.Measurement) []SensorAverage {
	index := map[string]int{}
	var sums []float64
	var out []SensorAverage

	for _, m := range records {
		if m.Type != sensor.Temperature {
			continue
		}
		i, ok := index[m.SensorName]
		if !ok {
			i = len(out)
			index[m.SensorName] = i
			out = append(out, SensorAverage{Sensor: m.SensorName})
			sums = append(sums, 0)
		}
		sums[i] += m.Value
		out[i].Count++
	}

	for i := range out {
		out[i].Average = sums[i] / float64(out[i].Count)
	}
	return out
}

// MaxViscosity returns the highest viscosity reading; ok is false when there is none.
func MaxViscosity(records []sensor.Measurement) (highest float64, ok bool) {
	for _, m := range records {
		if m.Type != sensor.Viscosity {
			continue
		}
		if !ok || m.Value > highest {
			highest = m.Value
			ok = true
		}
	}
	return highest, ok
}

// TemperatureAlerts returns temperature readings strictly above threshold.
func TemperatureAlerts(records []sensor.Measurement, threshold float64) []sensor.Measurement {
	var out []sensor.Measurement
	for _, m := range records {
		if m.Type == sensor.Temperature && m.Value > threshold {
			out = append(out, m)
		}
	}
	return out
}

// Summarize runs every query over records.
func Summarize(records []sensor.Measurement, threshold float64) Summary {
	maxVisc, ok := MaxViscosity(records)
	return Summary{
		Averages:       AverageTemperatureBySensor(records),
		MaxViscosity:   maxVisc,
		HasViscosity:   ok,
		Alerts:         TemperatureAlerts(records, threshold),
		AlertThreshold: threshold,
		TotalRecords:   len(records),
	}
}
