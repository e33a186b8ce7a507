package vessels

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourcePaths(t *testing.T) {
	want := map[Resource]string{
		CacheFlushDate:       "cacheflushdate",
		VesselAccommodations: "vesselaccommodations",
		VesselBasics:         "vesselbasics",
		VesselHistory:        "vesselhistory",
		VesselLocations:      "vessellocations",
		VesselStats:          "vesselstats",
		VesselVerbose:        "vesselverbose",
	}
	require.Len(t, Resources, len(want))
	for _, r := range Resources {
		assert.Equal(t, want[r], r.Path())

		parsed, err := ParseResource(" /" + r.Path() + "/ ")
		require.NoError(t, err)
		assert.Equal(t, r, parsed)
	}

	assert.Equal(t, "Resource(42)", Resource(42).String())
	_, err := ParseResource("terminals")
	assert.ErrorIs(t, err, ErrUnknownResource)
}

func TestAcceptsVesselID(t *testing.T) {
	assert.False(t, CacheFlushDate.AcceptsVesselID())
	assert.False(t, VesselHistory.AcceptsVesselID())
	assert.True(t, VesselVerbose.AcceptsVesselID())
}

func TestNewHistoryQuery(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)

	q, err := NewHistoryQuery("", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Nil(t, q, "no arguments means no filter")

	q, err = NewHistoryQuery(" Spokane ", start, end)
	require.NoError(t, err)
	assert.Equal(t, []string{"Spokane", "2024-01-01", "2024-01-07"}, q.segments())

	for name, args := range map[string][3]any{
		"name only":      {"Spokane", time.Time{}, time.Time{}},
		"dates only":     {"", start, end},
		"missing end":    {"Spokane", start, time.Time{}},
		"missing start":  {"Spokane", time.Time{}, end},
		"start only":     {"", start, time.Time{}},
		"end only":       {"", time.Time{}, end},
		"name and start": {"Spokane", start, time.Time{}},

		"dates only, reversed": {"", end, start},
		"name only, blank":     {"   ", start, end},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewHistoryQuery(args[0].(string), args[1].(time.Time), args[2].(time.Time))
			require.ErrorIs(t, err, ErrInvalidArgumentCombination)
		})
	}

	_, err = NewHistoryQuery("Spokane", end, start)
	require.ErrorIs(t, err, ErrInvalidDateRange)
	assert.NotErrorIs(t, err, ErrInvalidArgumentCombination)
}

func TestHistoryQueryValidate_BlankNameLiteral(t *testing.T) {
	day := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	q := &HistoryQuery{VesselName: " \t ", Start: day, End: day}
	require.ErrorIs(t, q.Validate(), ErrInvalidArgumentCombination)

	_, err := Request{Resource: VesselHistory, History: q}.path()
	require.ErrorIs(t, err, ErrInvalidArgumentCombination)
}

func TestHistoryPathEscapesVesselName(t *testing.T) {
	day := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	p, err := Request{Resource: VesselHistory, History: &HistoryQuery{VesselName: "Wenatchee II", Start: day, End: day}}.path()
	require.NoError(t, err)
	assert.Equal(t, "/vesselhistory/Wenatchee%20II/2024-03-09/2024-03-09", p)
}
