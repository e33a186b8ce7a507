package vessels

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Resource is one of the endpoints exposed by the Vessels API.
type Resource int

const (
	CacheFlushDate Resource = iota
	VesselAccommodations
	VesselBasics
	VesselHistory
	VesselLocations
	VesselStats
	VesselVerbose
)

// AllVessels requests the fleet-wide variant of an ID-scoped resource.
const AllVessels = 0

// Resources lists every supported resource in declaration order.
var Resources = []Resource{
	CacheFlushDate,
	VesselAccommodations,
	VesselBasics,
	VesselHistory,
	VesselLocations,
	VesselStats,
	VesselVerbose,
}

// Path returns the URL path segment for the resource, without a leading slash.
func (r Resource) Path() string {
	switch r {
	case CacheFlushDate:
		return "cacheflushdate"
	case VesselAccommodations:
		return "vesselaccommodations"
	case VesselBasics:
		return "vesselbasics"
	case VesselHistory:
		return "vesselhistory"
	case VesselLocations:
		return "vessellocations"
	case VesselStats:
		return "vesselstats"
	case VesselVerbose:
		return "vesselverbose"
	}
	return ""
}

func (r Resource) String() string {
	if p := r.Path(); p != "" {
		return p
	}
	return "Resource(" + strconv.Itoa(int(r)) + ")"
}

// AcceptsVesselID reports whether the resource can be scoped to a single vessel ID.
func (r Resource) AcceptsVesselID() bool {
	switch r {
	case VesselAccommodations, VesselBasics, VesselLocations, VesselStats, VesselVerbose:
		return true
	}
	return false
}

// ParseResource maps a path segment such as "vesselbasics" back to its Resource.
// Matching ignores case and surrounding slashes.
func ParseResource(s string) (Resource, error) {
	s = strings.Trim(strings.ToLower(strings.TrimSpace(s)), "/")
	for _, r := range Resources {
		if r.Path() == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownResource, s)
}

// Request describes one call against the API.
//
// VesselID is only honoured by resources where AcceptsVesselID is true;
// History is only honoured by VesselHistory. A nil History asks for every
// historical record.
type Request struct {
	Resource Resource
	VesselID int
	History  *HistoryQuery
}

// Timeouts bounds a single request. History applies to every VesselHistory
// call, filtered or not; every other call uses Default.
type Timeouts struct {
	Default time.Duration
	History time.Duration
}

// DefaultTimeouts are the per-call limits used when none are configured.
var DefaultTimeouts = Timeouts{
	Default: 10 * time.Second,
	History: 30 * time.Second,
}

// timeout picks the per-call limit for req.
func (t Timeouts) timeout(req Request) time.Duration {
	if req.Resource == VesselHistory {
		return t.History
	}
	return t.Default
}

// path validates req and returns the escaped resource path, with a leading slash.
func (req Request) path() (string, error) {
	p := req.Resource.Path()
	if p == "" {
		return "", fmt.Errorf("%w: %s", ErrUnknownResource, req.Resource)
	}
	segments := []string{p}
	switch {
	case req.Resource == VesselHistory:
		if req.History != nil {
			if err := req.History.Validate(); err != nil {
				return "", err
			}
			segments = append(segments, req.History.segments()...)
		}
	case req.Resource.AcceptsVesselID():
		if req.VesselID < 0 {
			return "", fmt.Errorf("%w: vessel ID %d", ErrInvalidVesselID, req.VesselID)
		}
		if req.VesselID != AllVessels {
			segments = append(segments, strconv.Itoa(req.VesselID))
		}
	}
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return "/" + strings.Join(segments, "/"), nil
}
