package report

import (
	"fmt"
	"io"
	"sort"

	"codeberg.org/mutker/cukraszda/internal/metrics"
	"codeberg.org/mutker/cukraszda/internal/sensor"
	"github.com/fatih/color"
)

const (
	heartRule   = "♥~*~♥~*~♥~*~♥~*~♥~*~♥~*~♥~*~♥"
	nameWidth   = 18
	nameKeep    = 15
	timeLayout  = "15:04:05"
	noAlertsMsg = "Nincsenek riasztások. ♥"
	noDataMsg   = "Nincs viszkozitás adat. ♥"
)

// Reporter renders measurements and query results to a console.
type Reporter struct {
	out   io.Writer
	paint *color.Color
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithColor turns the magenta console theme on or off.
func WithColor(enabled bool) Option {
	return func(r *Reporter) {
		if enabled {
			r.paint.EnableColor()
		} else {
			r.paint.DisableColor()
		}
	}
}

// New returns a Reporter writing to out, uncoloured unless WithColor(true) is given.
func New(out io.Writer, opts ...Option) *Reporter {
	r := &Reporter{
		out:   out,
		paint: color.New(color.FgMagenta),
	}
	r.paint.DisableColor()
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Reporter) println(format string, a ...any) {
	r.paint.Fprintln(r.out, fmt.Sprintf(format, a...))
}

// Header prints the opening banner.
func (r *Reporter) Header() {
	r.println("*********************************")
	r.println("*                               *")
	r.println("*        ♥ Cukrászda ♥          *")
	r.println("*   *     ~     *     ~     *    *")
	r.println("*   ♥     *           *     ♥    *")
	r.println("*                               *")
	r.println("*********************************\n")
}

// Divider prints a titled banner.
func (r *Reporter) Divider(title string) {
	r.println("\n%s", heartRule)
	r.println("♥   %s   ♥", title)
	r.println("%s\n", heartRule)
}

// Table prints one row per record.
func (r *Reporter) Table(records []sensor.Measurement) {
	r.println(heartRule)
	r.println("♥ ID | Sensor Name          | Type         | Value    | Time   ♥")
	r.println("♥-----------------------------------------------------------♥")
	for _, m := range records {
		r.println("%s", Row(m))
	}
	r.println("%s\n", heartRule)
}

// Row formats a single table row.
func Row(m sensor.Measurement) string {
	return fmt.Sprintf("♥ %-2d | %-*s | %-12s | %7.2f | %s ♥",
		m.SensorID, nameWidth, TruncateName(m.SensorName), m.Type, m.Value, m.Timestamp.Format(timeLayout))
}

// TruncateName shortens names longer than 18 runes to 15 runes and an ellipsis.
func TruncateName(name string) string {
	runes := []rune(name)
	if len(runes) <= nameWidth {
		return name
	}
	return string(runes[:nameKeep]) + "..."
}

// Queries prints the aggregate report and returns the computed summary.
func (r *Reporter) Queries(records []sensor.Measurement, threshold float64) Summary {
	s := Summarize(records, threshold)

	r.Divider("Lekérdezések")

	r.println("\nÁtlagos sütőhőmérsékletek:")
	for _, avg := range s.Averages {
		r.println("* %-*s : %.2f °C ♥", nameWidth, avg.Sensor, avg.Average)
	}

	if s.HasViscosity {
		r.println("\n* Max. cukormáz-viszkozitás: %.2f ♥", s.MaxViscosity)
	} else {
		r.println("\n* Max. cukormáz-viszkozitás: %s", noDataMsg)
	}

	if len(s.Alerts) > 0 {
		r.println("\nRiasztások (T > %g °C):", threshold)
		r.Table(s.Alerts)
	} else {
		r.println("\n%s", noAlertsMsg)
	}

	return s
}

// Stats prints the run counters. A zero snapshot, as returned when metrics
// are disabled, prints nothing.
func (r *Reporter) Stats(snap metrics.Snapshot) {
	if snap.Cycles == 0 {
		return
	}

	r.println("\nStatisztika:")
	r.println("* %-*s : %d ♥", nameWidth, "Ciklusok", snap.Cycles)
	for _, t := range sensor.Types {
		if n, ok := snap.Measurements[t.String()]; ok {
			r.println("* %-*s : %d ♥", nameWidth, t.String(), n)
		}
	}
	for _, sink := range sortedKeys(snap.Persisted) {
		r.println("* %-*s : %d mentve ♥", nameWidth, sink, snap.Persisted[sink])
	}
	for _, sink := range sortedKeys(snap.PersistFailures) {
		r.println("* %-*s : %d hiba", nameWidth, sink, snap.PersistFailures[sink])
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Prompt prints a line without a trailing newline, for interactive prompts.
func (r *Reporter) Prompt(msg string) {
	r.paint.Fprint(r.out, msg)
}
