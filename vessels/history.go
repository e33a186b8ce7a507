package vessels

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// DateLayout is the date format the API expects in history paths.
const DateLayout = "2006-01-02"

// HistoryQuery narrows VesselHistory to one vessel and an inclusive date range.
// All three fields are required; pass a nil *HistoryQuery to fetch everything.
type HistoryQuery struct {
	VesselName string    `validate:"notblank"`
	Start      time.Time `validate:"required"`
	End        time.Time `validate:"required,gtefield=Start"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("vessels: register notblank validation: %v", err))
	}
	return v
}

// NewHistoryQuery builds a query from optional parts. Supplying none returns a
// nil query; supplying some but not all returns ErrInvalidArgumentCombination.
func NewHistoryQuery(vesselName string, start, end time.Time) (*HistoryQuery, error) {
	vesselName = strings.TrimSpace(vesselName)
	if vesselName == "" && start.IsZero() && end.IsZero() {
		return nil, nil
	}
	q := &HistoryQuery{VesselName: vesselName, Start: start, End: end}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

// Validate reports whether q names a vessel and a well-ordered date range.
func (q *HistoryQuery) Validate() error {
	err := validate.Struct(q)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	var missing []string
	reversed := false
	for _, fe := range verrs {
		if fe.Tag() == "gtefield" {
			reversed = true
			continue
		}
		missing = append(missing, fe.Field())
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s; provide VesselName, Start and End together or none of them",
			ErrInvalidArgumentCombination, strings.Join(missing, ", "))
	}
	if reversed {
		return fmt.Errorf("%w: end %s is before start %s", ErrInvalidDateRange,
			q.End.Format(DateLayout), q.Start.Format(DateLayout))
	}
	return err
}

func (q *HistoryQuery) segments() []string {
	return []string{strings.TrimSpace(q.VesselName), q.Start.Format(DateLayout), q.End.Format(DateLayout)}
}
