// Package compliance checks a proposed shift against working-time rules.
package compliance

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/rota/internal/shift"
)

// ErrInvalidDateTime is reported when a shift's start or end cannot be parsed.
var ErrInvalidDateTime = errors.New("invalid date/time format")

// Severity ranks a finding. Only SeverityError blocks a save.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Finding codes.
const (
	CodeInvalidDateTime   = "invalid_datetime"
	CodeExceedsDailyLimit = "exceeds_daily_limit"
	CodeEndBeforeStart    = "end_before_start"
	CodeShortNightCall    = "short_night_call"
	CodeTooShort          = "too_short"
	CodeInsufficientRest  = "insufficient_rest"
)

// Finding is a single compliance observation.
type Finding struct {
	Severity Severity
	Code     string
	Message  string
}

// String returns "<severity>: <message>".
func (f Finding) String() string {
	return f.Severity.String() + ": " + f.Message
}

// Result is the outcome of validating one shift.
type Result struct {
	IsValid  bool
	Findings []Finding
}

// Worst returns the highest severity present and false when there are no findings.
func (r Result) Worst() (Severity, bool) {
	if len(r.Findings) == 0 {
		return SeverityInfo, false
	}
	worst := SeverityInfo
	for _, f := range r.Findings {
		if f.Severity > worst {
			worst = f.Severity
		}
	}
	return worst, true
}

// Messages renders every finding as one line, in evaluation order.
func (r Result) Messages() []string {
	out := make([]string, 0, len(r.Findings))
	for _, f := range r.Findings {
		out = append(out, f.String())
	}
	return out
}

// Err joins the error-severity findings. Returns nil when the result is valid.
func (r Result) Err() error {
	var errs []error
	for _, f := range r.Findings {
		if f.Severity != SeverityError {
			continue
		}
		if f.Code == CodeInvalidDateTime {
			errs = append(errs, ErrInvalidDateTime)
			continue
		}
		errs = append(errs, errors.New(f.Message))
	}
	return errors.Join(errs...)
}

// Rules holds the working-time thresholds, in hours.
type Rules struct {
	MaxDutyHours      float64
	MinNightCallHours float64
	MinShiftHours     float64
	MinRestHours      float64
}

// DefaultRules returns the EWTD-style defaults.
func DefaultRules() Rules {
	return Rules{
		MaxDutyHours:      24,
		MinNightCallHours: 8,
		MinShiftHours:     1,
		MinRestHours:      11,
	}
}

// Validator evaluates shifts against a rule set.
type Validator struct {
	rules Rules
}

// NewValidator creates a Validator. Zero-valued rule fields take the defaults.
func NewValidator(rules Rules) *Validator {
	def := DefaultRules()
	if rules.MaxDutyHours <= 0 {
		rules.MaxDutyHours = def.MaxDutyHours
	}
	if rules.MinNightCallHours <= 0 {
		rules.MinNightCallHours = def.MinNightCallHours
	}
	if rules.MinShiftHours <= 0 {
		rules.MinShiftHours = def.MinShiftHours
	}
	if rules.MinRestHours <= 0 {
		rules.MinRestHours = def.MinRestHours
	}
	return &Validator{rules: rules}
}

// Rules returns the active thresholds.
func (v *Validator) Rules() Rules {
	return v.rules
}

// Validate checks a shift with the default rules.
func Validate(s *shift.Shift) Result {
	return NewValidator(DefaultRules()).Validate(s)
}

// Validate checks the duration of a single shift.
// It reports, independently:
// - duration above MaxDutyHours (warning)
// - end before start (error)
// - night call shorter than MinNightCallHours (info)
// - duration below MinShiftHours (warning)
//
// An unparseable start or end short-circuits with a single error.
func (v *Validator) Validate(s *shift.Shift) Result {
	if s == nil {
		return invalidDateTime()
	}
	start, end, err := s.Span()
	if err != nil {
		return invalidDateTime()
	}

	hours := end.Sub(start).Hours()
	var findings []Finding

	if hours > v.rules.MaxDutyHours {
		findings = append(findings, Finding{
			Severity: SeverityWarning,
			Code:     CodeExceedsDailyLimit,
			Message:  fmt.Sprintf("shift exceeds the %s daily duty-time limit (%s)", formatHours(v.rules.MaxDutyHours), formatHours(hours)),
		})
	}
	if hours < 0 {
		findings = append(findings, Finding{
			Severity: SeverityError,
			Code:     CodeEndBeforeStart,
			Message:  "end time is before start time",
		})
	}
	if s.Type == shift.TypeNightCall && hours < v.rules.MinNightCallHours {
		findings = append(findings, Finding{
			Severity: SeverityInfo,
			Code:     CodeShortNightCall,
			Message:  fmt.Sprintf("night call is usually 12-16 hours, this one is %s", formatHours(hours)),
		})
	}
	if hours < v.rules.MinShiftHours {
		findings = append(findings, Finding{
			Severity: SeverityWarning,
			Code:     CodeTooShort,
			Message:  "shift duration seems too short",
		})
	}

	return newResult(findings)
}

// ValidateAgainst runs Validate and then checks rest time between s and the
// other shifts of the same assignee in roster. Rest findings are warnings.
func (v *Validator) ValidateAgainst(s *shift.Shift, roster []*shift.Shift) Result {
	res := v.Validate(s)
	if !res.IsValid && hasCode(res.Findings, CodeInvalidDateTime) {
		return res
	}
	start, end, err := s.Span()
	if err != nil || end.Before(start) {
		return res
	}

	minRest := time.Duration(v.rules.MinRestHours * float64(time.Hour))
	name := strings.ToLower(s.Name)
	findings := res.Findings
	for _, other := range roster {
		if other == nil || other.ID == s.ID || strings.ToLower(other.Name) != name {
			continue
		}
		oStart, oEnd, err := other.Span()
		if err != nil || oEnd.Before(oStart) {
			continue
		}

		var gap time.Duration
		switch {
		case !oEnd.After(start):
			gap = start.Sub(oEnd)
		case !oStart.Before(end):
			gap = oStart.Sub(end)
		default:
			findings = append(findings, Finding{
				Severity: SeverityWarning,
				Code:     CodeInsufficientRest,
				Message:  fmt.Sprintf("overlaps %s %s on %s", other.Type.Label(), other.TimeRange(), other.StartDate),
			})
			continue
		}
		if gap < minRest {
			findings = append(findings, Finding{
				Severity: SeverityWarning,
				Code:     CodeInsufficientRest,
				Message: fmt.Sprintf("only %s rest next to %s %s on %s (minimum %s)",
					formatHours(gap.Hours()), other.Type.Label(), other.TimeRange(), other.StartDate, formatHours(v.rules.MinRestHours)),
			})
		}
	}
	return newResult(findings)
}

func newResult(findings []Finding) Result {
	valid := true
	for _, f := range findings {
		if f.Severity == SeverityError {
			valid = false
			break
		}
	}
	return Result{IsValid: valid, Findings: findings}
}

func invalidDateTime() Result {
	return Result{
		IsValid: false,
		Findings: []Finding{{
			Severity: SeverityError,
			Code:     CodeInvalidDateTime,
			Message:  ErrInvalidDateTime.Error(),
		}},
	}
}

func hasCode(findings []Finding, code string) bool {
	for _, f := range findings {
		if f.Code == code {
			return true
		}
	}
	return false
}

// formatHours renders 8 as "8h" and 7.5 as "7.5h".
func formatHours(h float64) string {
	if h == float64(int64(h)) {
		return fmt.Sprintf("%dh", int64(h))
	}
	return fmt.Sprintf("%.1fh", h)
}
