package predict

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/theoremus-urban-solutions/wsf-vessels/delays"
	"github.com/theoremus-urban-solutions/wsf-vessels/vessels"
)

// Conditions is the weather at a terminal.
type Conditions struct {
	WeatherCode   int `validate:"wmo"`
	Temperature   int `validate:"min=-60,max=60"` // °C
	Precipitation int `validate:"min=0"`          // mm
	CloudCover    int `validate:"min=0,max=100"`  // %
	WindSpeed     int `validate:"min=0"`
	WindDirection int `validate:"min=0,max=359"` // degrees
	WindGusts     int `validate:"min=0"`
}

// Input is one feature record for the delay model. Field names follow the
// model's column names.
type Input struct {
	Vessel            string `json:"Vessel" validate:"required"`
	Departing         string `json:"Departing" validate:"required"`
	Arriving          string `json:"Arriving" validate:"required,nefield=Departing"`
	Weekday           int    `json:"Weekday" validate:"min=1,max=7"`
	Hour              int    `json:"Hour" validate:"min=0,max=23"`
	ClassName         string `json:"ClassName" validate:"required"`
	SpeedInKnots      int    `json:"SpeedInKnots" validate:"gt=0"`
	EngineCount       int    `json:"EngineCount" validate:"min=0"`
	Horsepower        int    `json:"Horsepower" validate:"min=0"`
	MaxPassengerCount int    `json:"MaxPassengerCount" validate:"min=0"`
	PassengerOnly     *bool  `json:"PassengerOnly"`
	FastFerry         *bool  `json:"FastFerry"`
	PropulsionInfo    string `json:"PropulsionInfo"`
	YearBuilt         int    `json:"YearBuilt" validate:"min=1900"`
	YearRebuilt       int    `json:"YearRebuilt" validate:"gtefield=YearBuilt"`

	DepartingWeatherCode   int `json:"departing_weather_code,string" validate:"wmo"`
	DepartingTemperature   int `json:"departing_temperature_2m"`
	DepartingPrecipitation int `json:"departing_precipitation"`
	DepartingCloudCover    int `json:"departing_cloud_cover" validate:"min=0,max=100"`
	DepartingWindSpeed     int `json:"departing_wind_speed_10m" validate:"min=0"`
	DepartingWindDirection int `json:"departing_wind_direction_10m" validate:"min=0,max=359"`
	DepartingWindGusts     int `json:"departing_wind_gusts_10m" validate:"min=0"`
	ArrivingWeatherCode    int `json:"arriving_weather_code,string" validate:"wmo"`
	ArrivingTemperature    int `json:"arriving_temperature_2m"`
	ArrivingPrecipitation  int `json:"arriving_precipitation"`
	ArrivingCloudCover     int `json:"arriving_cloud_cover" validate:"min=0,max=100"`
	ArrivingWindSpeed      int `json:"arriving_wind_speed_10m" validate:"min=0"`
	ArrivingWindDirection  int `json:"arriving_wind_direction_10m" validate:"min=0,max=359"`
	ArrivingWindGusts      int `json:"arriving_wind_gusts_10m" validate:"min=0"`
}

// ErrInvalidInput wraps validation failures from Input.Validate.
var ErrInvalidInput = errors.New("invalid prediction input")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("wmo", isWeatherCode); err != nil {
		panic(fmt.Sprintf("predict: register wmo validation: %v", err))
	}
	return v
}

func isWeatherCode(fl validator.FieldLevel) bool {
	_, ok := WeatherCodes[int(fl.Field().Int())]
	return ok
}

// Validate checks i against the model's accepted ranges.
func (i Input) Validate() error {
	if err := validate.Struct(i); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, len(verrs))
			for n, fe := range verrs {
				fields[n] = fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag())
			}
			return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// Validate checks c on its own.
func (c Conditions) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// InputFromVessel builds an Input for a departure on route at when, taking
// vessel features from a vesselverbose row and applying the same weather
// conditions at both terminals. A vessel that was never rebuilt uses the
// current year as YearRebuilt.
func InputFromVessel(row vessels.Row, route delays.Route, conditions Conditions, when time.Time) (Input, error) {
	name, _ := row.Text("VesselName")
	if name == "" {
		return Input{}, fmt.Errorf("%w: vessel row has no VesselName", ErrInvalidInput)
	}

	built, ok := row.Time("YearBuilt")
	if !ok {
		return Input{}, fmt.Errorf("%w: vessel %s has no YearBuilt", ErrInvalidInput, name)
	}
	rebuilt := time.Now().Year()
	if t, ok := row.Time("YearRebuilt"); ok {
		rebuilt = t.Year()
	}

	in := Input{
		Vessel:            name,
		Departing:         route.Departing,
		Arriving:          route.Arriving,
		Weekday:           isoWeekday(when),
		Hour:              when.Hour(),
		ClassName:         className(row),
		SpeedInKnots:      intField(row, "SpeedInKnots"),
		EngineCount:       intField(row, "EngineCount"),
		Horsepower:        intField(row, "Horsepower"),
		MaxPassengerCount: intField(row, "MaxPassengerCount"),
		YearBuilt:         built.Year(),
		YearRebuilt:       rebuilt,

		DepartingWeatherCode:   conditions.WeatherCode,
		DepartingTemperature:   conditions.Temperature,
		DepartingPrecipitation: conditions.Precipitation,
		DepartingCloudCover:    conditions.CloudCover,
		DepartingWindSpeed:     conditions.WindSpeed,
		DepartingWindDirection: conditions.WindDirection,
		DepartingWindGusts:     conditions.WindGusts,
		ArrivingWeatherCode:    conditions.WeatherCode,
		ArrivingTemperature:    conditions.Temperature,
		ArrivingPrecipitation:  conditions.Precipitation,
		ArrivingCloudCover:     conditions.CloudCover,
		ArrivingWindSpeed:      conditions.WindSpeed,
		ArrivingWindDirection:  conditions.WindDirection,
		ArrivingWindGusts:      conditions.WindGusts,
	}
	in.PropulsionInfo, _ = row.Text("PropulsionInfo")
	return in, nil
}

// isoWeekday numbers Monday as 1 and Sunday as 7.
func isoWeekday(t time.Time) int {
	return (int(t.Weekday())+6)%7 + 1
}

// className reads ClassName from a flattened row or from the nested Class object.
func className(row vessels.Row) string {
	if s, ok := row.Text("ClassName"); ok {
		return s
	}
	if class, ok := row.Object("Class"); ok {
		if s, ok := class["ClassName"].(string); ok {
			return s
		}
	}
	return ""
}

func intField(row vessels.Row, name string) int {
	n, _ := row.Int(name)
	return int(n)
}
