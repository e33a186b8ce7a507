package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/wsf-vessels/config"
	"github.com/theoremus-urban-solutions/wsf-vessels/delays"
	"github.com/theoremus-urban-solutions/wsf-vessels/formatter"
	"github.com/theoremus-urban-solutions/wsf-vessels/gtfsrt"
	"github.com/theoremus-urban-solutions/wsf-vessels/internal"
	"github.com/theoremus-urban-solutions/wsf-vessels/predict"
	"github.com/theoremus-urban-solutions/wsf-vessels/vessels"
)

const (
	callDelays  = "delays"
	callPredict = "predict"

	departureLayout = "2006-01-02T15:04"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		slog.Error("ferryland failed", "error", err)
		os.Exit(1)
	}
}

type app struct {
	cfg    config.AppConfig
	src    *source
	input  string
	logger *slog.Logger
	getenv func(string) string
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("ferryland", flag.ContinueOnError)
	fs.SetOutput(stderr)
	call := fs.String("call", vessels.VesselLocations.String(), "resource name (e.g. vesselbasics), delays or predict")
	vesselID := fs.Int("vessel", vessels.AllVessels, "vessel ID; 0 requests every vessel")
	name := fs.String("name", "", "vessel name (vesselhistory, delays, predict)")
	start := fs.String("start", "", "history start date YYYY-MM-DD")
	end := fs.String("end", "", "history end date YYYY-MM-DD")
	format := fs.String("format", "", "json|csv|xml|table|pb (overrides config)")
	input := fs.String("input", "", "decode a saved JSON payload (file or URL) instead of calling the API")
	configPath := fs.String("config", "", "config file (default: config.yml or ./configs/config.yml)")
	verbose := fs.Bool("v", false, "debug logging")
	route := fs.String("route", "", `route as "departing | arriving" (delays, predict)`)
	stats := fs.Bool("stats", false, "delays: delay stats for every route, highest mean first")
	at := fs.String("at", "", "departure time YYYY-MM-DDTHH:MM for predict (default: now)")
	var cond predict.Conditions
	fs.IntVar(&cond.WeatherCode, "weather", 0, "WMO weather code (predict)")
	fs.IntVar(&cond.Temperature, "temperature", 12, "temperature in °C (predict)")
	fs.IntVar(&cond.Precipitation, "precipitation", 0, "precipitation in mm (predict)")
	fs.IntVar(&cond.CloudCover, "cloud-cover", 0, "cloud cover in % (predict)")
	fs.IntVar(&cond.WindSpeed, "wind-speed", 0, "wind speed (predict)")
	fs.IntVar(&cond.WindDirection, "wind-direction", 0, "wind direction in degrees (predict)")
	fs.IntVar(&cond.WindGusts, "wind-gusts", 0, "wind gusts (predict)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := internal.InitLogging(stderr, *verbose)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *format != "" {
		cfg.Output.Format = *format
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("format %q: %w", *format, err)
		}
	}

	a := &app{cfg: cfg, src: newSource(), input: *input, logger: logger, getenv: os.Getenv}

	var out []byte
	switch c := strings.ToLower(strings.TrimSpace(*call)); c {
	case callPredict:
		when := time.Now()
		if *at != "" {
			if when, err = time.ParseInLocation(departureLayout, *at, time.Local); err != nil {
				return fmt.Errorf("-at: %w", err)
			}
		}
		out, err = a.predict(ctx, *name, *route, cond, when)
	case callDelays:
		var q *vessels.HistoryQuery
		if q, err = historyQuery(*name, *start, *end); err == nil {
			out, err = a.delays(ctx, q, *route, *stats)
		}
	default:
		var res vessels.Resource
		if res, err = vessels.ParseResource(c); err != nil {
			return err
		}
		req := vessels.Request{Resource: res, VesselID: *vesselID}
		if res == vessels.VesselHistory {
			if req.History, err = historyQuery(*name, *start, *end); err != nil {
				return err
			}
		}
		out, err = a.resource(ctx, req)
	}
	if err != nil {
		return err
	}

	if cfg.Output.Format != "pb" && !bytes.HasSuffix(out, []byte("\n")) {
		out = append(out, '\n')
	}
	_, err = stdout.Write(out)
	return err
}

func historyQuery(name, start, end string) (*vessels.HistoryQuery, error) {
	var s, e time.Time
	var err error
	if start != "" {
		if s, err = time.Parse(vessels.DateLayout, start); err != nil {
			return nil, fmt.Errorf("-start: %w", err)
		}
	}
	if end != "" {
		if e, err = time.Parse(vessels.DateLayout, end); err != nil {
			return nil, fmt.Errorf("-end: %w", err)
		}
	}
	return vessels.NewHistoryQuery(name, s, e)
}

// table decodes the -input payload when one is given and calls the API otherwise.
func (a *app) table(ctx context.Context, req vessels.Request) (*vessels.Table, error) {
	if a.input != "" {
		a.logger.Debug("decoding saved payload", "input", a.input, "resource", req.Resource)
		data, err := a.src.read(ctx, a.input)
		if err != nil {
			return nil, err
		}
		t, err := vessels.DecodeTable(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", a.input, err)
		}
		return t, nil
	}

	client, err := vessels.NewClientFromEnvVar(a.cfg.API.AccessCodeEnv,
		vessels.WithBaseURL(a.cfg.API.BaseURL),
		vessels.WithTimeouts(vessels.Timeouts{
			Default: millis(a.cfg.API.TimeoutMS),
			History: millis(a.cfg.API.HistoryTimeoutMS),
		}),
	)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("calling API", "resource", req.Resource, "vessel", req.VesselID, "timeout", client.Timeout(req))
	started := time.Now()
	t, err := client.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	a.logger.Info("fetched", "resource", req.Resource, "rows", t.Len(), "duration", time.Since(started))
	return t, nil
}

func (a *app) resource(ctx context.Context, req vessels.Request) ([]byte, error) {
	t, err := a.table(ctx, req)
	if err != nil {
		return nil, err
	}
	if a.cfg.Output.Format == "pb" {
		if req.Resource != vessels.VesselLocations {
			return nil, fmt.Errorf("format pb is only available for %s", vessels.VesselLocations)
		}
		feed := gtfsrt.FromLocations(t, gtfsrt.Options{AgencyID: a.cfg.GTFSRT.AgencyID})
		a.logger.Debug("built GTFS-RT feed", "entities", len(feed.Entity))
		return gtfsrt.Marshal(feed)
	}
	return a.render(t, req.Resource.String())
}

type routeRecord struct {
	Route     string
	Label     string
	Departing string
	Arriving  string
	Trips     int
}

type summaryRecord struct {
	Departing     string
	Arriving      string
	Trips         int
	MeanMinutes   *float64
	StdDevMinutes *float64
}

func (a *app) delays(ctx context.Context, q *vessels.HistoryQuery, route string, stats bool) ([]byte, error) {
	t, err := a.table(ctx, vessels.Request{Resource: vessels.VesselHistory, History: q})
	if err != nil {
		return nil, err
	}

	var records any
	switch {
	case route == "" && stats:
		all := delays.SummarizeAll(t)
		rs := make([]summaryRecord, len(all))
		for i, s := range all {
			rs[i] = newSummaryRecord(s)
		}
		records = rs
	case route == "":
		routes := delays.Routes(t)
		rs := make([]routeRecord, len(routes))
		for i, r := range routes {
			rs[i] = routeRecord{Route: r.Key(), Label: r.Label(), Departing: r.Departing, Arriving: r.Arriving, Trips: r.Trips}
		}
		records = rs
	default:
		r, err := delays.ParseRoute(route)
		if err != nil {
			return nil, err
		}
		records = []summaryRecord{newSummaryRecord(delays.Summarize(t, r.Departing, r.Arriving))}
	}
	return a.renderRecords(records, "Delays")
}

func newSummaryRecord(s delays.Summary) summaryRecord {
	return summaryRecord{
		Departing:     s.Route.Departing,
		Arriving:      s.Route.Arriving,
		Trips:         s.Trips,
		MeanMinutes:   finite(s.Mean),
		StdDevMinutes: finite(s.StdDev),
	}
}

type predictionRecord struct {
	Vessel                string
	Departing             string
	Arriving              string
	Departure             time.Time
	PredictedDelayMinutes float64
}

func (a *app) predict(ctx context.Context, name, route string, cond predict.Conditions, when time.Time) ([]byte, error) {
	if name == "" {
		return nil, errors.New("predict needs -name")
	}
	r, err := delays.ParseRoute(route)
	if err != nil {
		return nil, err
	}
	if err := cond.Validate(); err != nil {
		return nil, err
	}

	t, err := a.table(ctx, vessels.Request{Resource: vessels.VesselVerbose})
	if err != nil {
		return nil, err
	}
	row, ok := findVessel(t, name)
	if !ok {
		return nil, fmt.Errorf("vessel %q not found in %s", name, vessels.VesselVerbose)
	}
	in, err := predict.InputFromVessel(row, r, cond, when)
	if err != nil {
		return nil, err
	}

	pc, err := predict.NewClient(a.cfg.Model.URL, a.getenv(a.cfg.Model.APIKeyEnv),
		predict.WithTimeout(millis(a.cfg.Model.TimeoutMS)))
	if err != nil {
		return nil, err
	}
	preds, err := pc.Predict(ctx, []predict.Input{in})
	if err != nil {
		return nil, err
	}
	a.logger.Info("predicted delay", "vessel", in.Vessel, "route", r.Key(), "minutes", preds[0])

	return a.renderRecords([]predictionRecord{{
		Vessel:                in.Vessel,
		Departing:             r.Departing,
		Arriving:              r.Arriving,
		Departure:             when,
		PredictedDelayMinutes: preds[0],
	}}, "Prediction")
}

func findVessel(t *vessels.Table, name string) (vessels.Row, bool) {
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		if n, ok := row.Text("VesselName"); ok && strings.EqualFold(n, name) {
			return row, true
		}
	}
	return vessels.Row{}, false
}

// renderRecords formats derived records through the same table formatters as
// API results.
func (a *app) renderRecords(records any, root string) ([]byte, error) {
	if a.cfg.Output.Format == "pb" {
		return nil, errors.New("format pb is only available for vessel locations")
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}
	t, err := vessels.DecodeTable(data)
	if err != nil {
		return nil, err
	}
	return a.render(t, root)
}

func (a *app) render(t *vessels.Table, root string) ([]byte, error) {
	switch a.cfg.Output.Format {
	case "csv":
		return formatter.CSV(t)
	case "xml":
		return formatter.XML(t, root), nil
	case "table":
		return formatter.Text(t), nil
	default:
		return formatter.JSON(t)
	}
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
