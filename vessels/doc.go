// Package vessels is a client for the Washington State Ferries Vessels REST API.
//
// Every resource the API exposes maps to one method on Client:
//   - CacheFlushDate: when the upstream data was last refreshed
//   - VesselAccommodations, VesselBasics, VesselLocations, VesselStats,
//     VesselVerbose: one vessel by ID, or the whole fleet with AllVessels
//   - VesselHistory: historical sailings, optionally narrowed to one vessel
//     and an inclusive date range
//
// Each call issues exactly one GET request and decodes the JSON body into a
// Table. The client does not retry, cache or log. Failures come back as
// *RequestError (matches ErrRequestFailed) or *DecodeError (matches
// ErrMalformedResponse).
//
// Basic usage:
//
//	c, err := vessels.NewClientFromEnv()
//	if err != nil {
//	    return err
//	}
//	t, err := c.VesselHistory(ctx, &vessels.HistoryQuery{
//	    VesselName: "Spokane",
//	    Start:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
//	    End:        time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
//	})
package vessels
