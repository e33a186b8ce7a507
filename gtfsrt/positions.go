package gtfsrt

import (
	"fmt"
	"strconv"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/wsf-vessels/vessels"
)

const (
	// Version is the gtfs_realtime_version written in feed headers.
	Version = "2.0"

	knotsToMetersPerSecond = 0.514444
)

// Options controls feed construction.
type Options struct {
	// AgencyID prefixes entity ids as "<agency>_<vessel id>" when set.
	AgencyID string
	// Now supplies the header timestamp when no vessel carries one.
	Now func() time.Time
}

// FromLocations builds a VehiclePositions feed from a vessellocations table.
// Rows without a vessel id or coordinates are skipped.
func FromLocations(t *vessels.Table, opts Options) *gtfsrtpb.FeedMessage {
	var newest uint64
	entities := make([]*gtfsrtpb.FeedEntity, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		vp := vehiclePosition(t.Row(i))
		if vp == nil {
			continue
		}
		if vp.Timestamp != nil && *vp.Timestamp > newest {
			newest = *vp.Timestamp
		}
		entities = append(entities, &gtfsrtpb.FeedEntity{
			Id:      proto.String(entityID(opts.AgencyID, vp.Vehicle.GetId())),
			Vehicle: vp,
		})
	}

	if newest == 0 {
		now := time.Now
		if opts.Now != nil {
			now = opts.Now
		}
		newest = uint64(now().Unix())
	}

	return &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{
			GtfsRealtimeVersion: proto.String(Version),
			Incrementality:      gtfsrtpb.FeedHeader_FULL_DATASET.Enum(),
			Timestamp:           proto.Uint64(newest),
		},
		Entity: entities,
	}
}

func vehiclePosition(row vessels.Row) *gtfsrtpb.VehiclePosition {
	id, ok := row.Int("VesselID")
	if !ok {
		return nil
	}
	lat, okLat := row.Float("Latitude")
	lon, okLon := row.Float("Longitude")
	if !okLat || !okLon {
		return nil
	}

	vid := strconv.FormatInt(id, 10)
	vp := &gtfsrtpb.VehiclePosition{
		Vehicle: &gtfsrtpb.VehicleDescriptor{Id: proto.String(vid)},
		Position: &gtfsrtpb.Position{
			Latitude:  proto.Float32(float32(lat)),
			Longitude: proto.Float32(float32(lon)),
		},
	}
	if name, ok := row.Text("VesselName"); ok && name != "" {
		vp.Vehicle.Label = proto.String(name)
	}
	if heading, ok := row.Float("Heading"); ok {
		vp.Position.Bearing = proto.Float32(float32(heading))
	}
	if knots, ok := row.Float("Speed"); ok {
		vp.Position.Speed = proto.Float32(float32(knots * knotsToMetersPerSecond))
	}
	if ts, ok := row.Time("TimeStamp"); ok && ts.Unix() > 0 {
		vp.Timestamp = proto.Uint64(uint64(ts.Unix()))
	}
	if route := firstRoute(row); route != "" {
		vp.Trip = &gtfsrtpb.TripDescriptor{RouteId: proto.String(route)}
	}

	// Docked vessels sit at their departing terminal; underway ones head for the arriving one.
	if atDock, ok := row.Bool("AtDock"); ok {
		if atDock {
			vp.CurrentStatus = gtfsrtpb.VehiclePosition_STOPPED_AT.Enum()
			if stop, ok := row.Int("DepartingTerminalID"); ok {
				vp.StopId = proto.String(strconv.FormatInt(stop, 10))
			}
		} else {
			vp.CurrentStatus = gtfsrtpb.VehiclePosition_IN_TRANSIT_TO.Enum()
			if stop, ok := row.Int("ArrivingTerminalID"); ok {
				vp.StopId = proto.String(strconv.FormatInt(stop, 10))
			}
		}
	}
	return vp
}

func firstRoute(row vessels.Row) string {
	if s, ok := row.Text("OpRouteAbbrev"); ok {
		return s
	}
	routes, _ := row.List("OpRouteAbbrev")
	for _, r := range routes {
		if s, ok := r.(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func entityID(agency, vesselID string) string {
	if agency == "" {
		return vesselID
	}
	return agency + "_" + vesselID
}

// Marshal encodes feed in protobuf wire format.
func Marshal(feed *gtfsrtpb.FeedMessage) ([]byte, error) {
	b, err := proto.Marshal(feed)
	if err != nil {
		return nil, fmt.Errorf("marshal feed: %w", err)
	}
	return b, nil
}

// Unmarshal decodes a protobuf-encoded FeedMessage.
func Unmarshal(b []byte) (*gtfsrtpb.FeedMessage, error) {
	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(b, &fm); err != nil {
		return nil, fmt.Errorf("unmarshal feed: %w", err)
	}
	return &fm, nil
}
