package delays

import (
	"math"
	"sort"
	"strings"

	"github.com/theoremus-urban-solutions/wsf-vessels/vessels"
)

// Summary describes the departure delays of one route.
// StdDev is NaN when fewer than two trips are available, Mean when none are.
type Summary struct {
	Route  Route
	Trips  int
	Mean   float64
	StdDev float64
}

// Delays returns the delay in minutes of every trip from departing to
// arriving, in table order. Terminal names match case-insensitively; rows
// without both departure times are skipped.
func Delays(t *vessels.Table, departing, arriving string) []float64 {
	var out []float64
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		dep, _ := row.Text("Departing")
		arr, _ := row.Text("Arriving")
		if !strings.EqualFold(dep, departing) || !strings.EqualFold(arr, arriving) {
			continue
		}
		if d, ok := delay(row); ok {
			out = append(out, d)
		}
	}
	return out
}

// Summarize computes the delay summary for the route from departing to arriving.
func Summarize(t *vessels.Table, departing, arriving string) Summary {
	return summarize(Route{Departing: departing, Arriving: arriving}, Delays(t, departing, arriving))
}

// SummarizeAll summarizes every route in the history, highest mean delay
// first. Routes are grouped case-insensitively and named as first seen;
// routes with no measurable trip sort last.
func SummarizeAll(t *vessels.Table) []Summary {
	type group struct {
		route  Route
		delays []float64
	}
	var order []string
	groups := map[string]*group{}
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		dep, ok1 := row.Text("Departing")
		arr, ok2 := row.Text("Arriving")
		if !ok1 || !ok2 || dep == "" || arr == "" {
			continue
		}
		key := strings.ToLower(dep) + RouteSeparator + strings.ToLower(arr)
		g, ok := groups[key]
		if !ok {
			g = &group{route: Route{Departing: dep, Arriving: arr}}
			groups[key] = g
			order = append(order, key)
		}
		if d, ok := delay(row); ok {
			g.delays = append(g.delays, d)
		}
	}

	out := make([]Summary, 0, len(order))
	for _, key := range order {
		g := groups[key]
		out = append(out, summarize(g.route, g.delays))
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if math.IsNaN(a.Mean) || math.IsNaN(b.Mean) {
			return !math.IsNaN(a.Mean) && math.IsNaN(b.Mean)
		}
		return a.Mean > b.Mean
	})
	return out
}

func delay(row vessels.Row) (float64, bool) {
	scheduled, ok1 := row.Time("ScheduledDepart")
	actual, ok2 := row.Time("ActualDepart")
	if !ok1 || !ok2 {
		return 0, false
	}
	return actual.Sub(scheduled).Minutes(), true
}

func summarize(route Route, d []float64) Summary {
	route.Trips = len(d)
	s := Summary{
		Route:  route,
		Trips:  len(d),
		Mean:   math.NaN(),
		StdDev: math.NaN(),
	}
	if len(d) == 0 {
		return s
	}

	var sum float64
	for _, v := range d {
		sum += v
	}
	s.Mean = sum / float64(len(d))
	if len(d) < 2 {
		return s
	}

	var sq float64
	for _, v := range d {
		sq += (v - s.Mean) * (v - s.Mean)
	}
	s.StdDev = math.Sqrt(sq / float64(len(d)-1))
	return s
}
