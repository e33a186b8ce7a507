package predict

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/wsf-vessels/delays"
	"github.com/theoremus-urban-solutions/wsf-vessels/vessels"
)

const verbose = `[
	{"VesselID": 1, "VesselName": "Cathlamet", "Class": {"ClassID": 100, "ClassName": "Issaquah 130"},
	 "SpeedInKnots": 16, "EngineCount": 2, "Horsepower": 5000, "MaxPassengerCount": 1200,
	 "PropulsionInfo": "DIESEL", "YearBuilt": "/Date(315561600000-0800)/",
	 "YearRebuilt": "/Date(1104566400000-0800)/"},
	{"VesselID": 2, "VesselName": "Chimacum", "Class": {"ClassID": 162, "ClassName": "Olympic"},
	 "SpeedInKnots": 17, "EngineCount": 2, "Horsepower": 6000, "MaxPassengerCount": 1500,
	 "PropulsionInfo": "DIESEL", "YearBuilt": "/Date(1483257600000-0800)/", "YearRebuilt": null}
]`

func TestInputFromVessel(t *testing.T) {
	table, err := vessels.DecodeTable([]byte(verbose))
	require.NoError(t, err)

	route := delays.Route{Departing: "seattle", Arriving: "bremerton"}
	cond := Conditions{WeatherCode: 61, Temperature: 9, Precipitation: 2, CloudCover: 80, WindSpeed: 12, WindDirection: 225, WindGusts: 20}
	when := time.Date(2024, 6, 2, 14, 30, 0, 0, time.UTC) // Sunday

	in, err := InputFromVessel(table.Row(0), route, cond, when)
	require.NoError(t, err)
	assert.Equal(t, "Cathlamet", in.Vessel)
	assert.Equal(t, "Issaquah 130", in.ClassName)
	assert.Equal(t, 7, in.Weekday)
	assert.Equal(t, 14, in.Hour)
	assert.Equal(t, 1980, in.YearBuilt)
	assert.Equal(t, 2005, in.YearRebuilt)
	assert.Equal(t, 16, in.SpeedInKnots)
	assert.Equal(t, 61, in.DepartingWeatherCode)
	assert.Equal(t, 61, in.ArrivingWeatherCode)
	assert.Equal(t, 225, in.ArrivingWindDirection)
	assert.NoError(t, in.Validate())

	in, err = InputFromVessel(table.Row(1), route, cond, when.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, in.Weekday)
	assert.Equal(t, time.Now().Year(), in.YearRebuilt, "never rebuilt uses the current year")
}

func TestInputFromVessel_MissingFields(t *testing.T) {
	table, err := vessels.DecodeTable([]byte(`{"VesselName": "Nameless"}`))
	require.NoError(t, err)

	_, err = InputFromVessel(table.Row(0), delays.Route{}, Conditions{}, time.Now())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestConditionsValidate(t *testing.T) {
	assert.NoError(t, Conditions{WeatherCode: 0}.Validate())
	assert.ErrorIs(t, Conditions{WeatherCode: 5}.Validate(), ErrInvalidInput)
	assert.ErrorIs(t, Conditions{CloudCover: 101}.Validate(), ErrInvalidInput)
}

func TestSortedWeatherCodes(t *testing.T) {
	codes := SortedWeatherCodes()
	require.Len(t, codes, len(WeatherCodes))
	assert.Equal(t, 0, codes[0])
	assert.Equal(t, 99, codes[len(codes)-1])
	assert.IsIncreasing(t, codes)
}
