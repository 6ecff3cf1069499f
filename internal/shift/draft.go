package shift

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Draft holds the user-supplied fields of a new or edited shift.
type Draft struct {
	Name      string `validate:"required"`
	Post      string
	StartDate string `validate:"required,datetime=2006-01-02"`
	StartTime string `validate:"required,datetime=15:04"`
	EndDate   string `validate:"omitempty,datetime=2006-01-02"`
	EndTime   string `validate:"required,datetime=15:04"`
	Type      string `validate:"required"`
}

// New builds a shift from a draft with a freshly minted ID.
// An empty EndDate defaults to StartDate, or to the next day when the end
// time is not after the start time.
func New(d Draft, cell Cell) (*Shift, error) {
	d.Name = SanitizeName(d.Name)
	if err := d.check(); err != nil {
		return nil, err
	}
	typ, err := ParseType(d.Type)
	if err != nil {
		return nil, err
	}

	endDate := d.EndDate
	if endDate == "" {
		endDate = DefaultEndDate(d.StartDate, d.StartTime, d.EndTime)
	}

	return &Shift{
		ID:        NewID(),
		Name:      d.Name,
		Post:      SanitizeName(d.Post),
		StartDate: d.StartDate,
		StartTime: d.StartTime,
		EndDate:   endDate,
		EndTime:   d.EndTime,
		WeekIndex: cell.Week,
		DayIndex:  cell.Day,
		Type:      typ,
		CreatedAt: time.Now(),
	}, nil
}

// DefaultEndDate returns startDate, or the following day when the shift
// runs past midnight (end <= start). Unparseable input is returned as is.
func DefaultEndDate(startDate, startTime, endTime string) string {
	if endTime > startTime {
		return startDate
	}
	d, err := time.Parse(DateLayout, startDate)
	if err != nil {
		return startDate
	}
	return d.AddDate(0, 0, 1).Format(DateLayout)
}

func (d Draft) check() error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.Field() {
	case "Name":
		return ErrEmptyName
	case "Type":
		return ErrInvalidType
	case "StartDate", "EndDate":
		return fmt.Errorf("%s: %w", fe.Field(), ErrInvalidDateFormat)
	default:
		return fmt.Errorf("%s: %w", fe.Field(), ErrInvalidTimeFormat)
	}
}
