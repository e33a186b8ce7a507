// Package gtfsrt exports WSF vessel locations as a GTFS-Realtime feed.
//
// FromLocations turns a vessellocations table into a FeedMessage holding one
// VehiclePosition entity per located vessel. Marshal and Unmarshal convert
// between the message and its protobuf wire form.
package gtfsrt
