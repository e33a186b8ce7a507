package delays

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/theoremus-urban-solutions/wsf-vessels/vessels"
)

// RouteSeparator joins the terminals in a route key.
const RouteSeparator = " | "

// Route is a departing/arriving terminal pair.
type Route struct {
	Departing string
	Arriving  string
	Trips     int
}

// Key returns "departing | arriving".
func (r Route) Key() string {
	return r.Departing + RouteSeparator + r.Arriving
}

// Label returns a display label such as "Seattle to Bainbridge Island (1,204 trips)".
func (r Route) Label() string {
	title := cases.Title(language.English)
	return fmt.Sprintf("%s to %s (%s trips)",
		title.String(r.Departing), title.String(r.Arriving), groupThousands(r.Trips))
}

// ParseRoute parses a key produced by Route.Key. Terminal names are trimmed
// and lowercased.
func ParseRoute(key string) (Route, error) {
	dep, arr, ok := strings.Cut(key, strings.TrimSpace(RouteSeparator))
	dep, arr = strings.ToLower(strings.TrimSpace(dep)), strings.ToLower(strings.TrimSpace(arr))
	if !ok || dep == "" || arr == "" {
		return Route{}, fmt.Errorf("invalid route %q: want %q", key, "departing"+RouteSeparator+"arriving")
	}
	return Route{Departing: dep, Arriving: arr}, nil
}

// Routes counts trips per departing/arriving pair, most frequent first.
// Ties are ordered by terminal names.
func Routes(t *vessels.Table) []Route {
	counts := map[[2]string]int{}
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		dep, ok1 := row.Text("Departing")
		arr, ok2 := row.Text("Arriving")
		if !ok1 || !ok2 || dep == "" || arr == "" {
			continue
		}
		counts[[2]string{dep, arr}]++
	}

	routes := make([]Route, 0, len(counts))
	for k, n := range counts {
		routes = append(routes, Route{Departing: k[0], Arriving: k[1], Trips: n})
	}
	sort.Slice(routes, func(i, j int) bool {
		a, b := routes[i], routes[j]
		if a.Trips != b.Trips {
			return a.Trips > b.Trips
		}
		if a.Departing != b.Departing {
			return a.Departing < b.Departing
		}
		return a.Arriving < b.Arriving
	})
	return routes
}

func groupThousands(n int) string {
	s := fmt.Sprint(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
