package water

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidConfiguration is the sentinel wrapped by every ConfigurationError.
var ErrInvalidConfiguration = errors.New("invalid water balance configuration")

// ConfigurationError aborts a balance before any result is produced.
type ConfigurationError struct {
	// Field is the serialized parameter name (e.g. "target_ts_pct").
	Field string

	// Value is the rejected value.
	Value any

	// Reason states the accepted range.
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s = %v, %s", ErrInvalidConfiguration, e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidConfiguration
}

func newValidate() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("finite", isFinite); err != nil {
		panic(err)
	}
	return v
}

// isFinite rejects ±Inf; NaN is left to the range tags.
func isFinite(fl validator.FieldLevel) bool {
	return !math.IsInf(fl.Field().Float(), 0)
}

// validateParameters reports zero denominators first, then any range violation.
func validateParameters(v *validator.Validate, p Parameters) error {
	if !(p.TargetTSPct > 0) {
		return &ConfigurationError{
			Field:  "target_ts_pct",
			Value:  p.TargetTSPct,
			Reason: "must be > 0 (target slurry mass is TS / target fraction)",
		}
	}
	if !(p.CakeMoisturePct < percent) {
		return &ConfigurationError{
			Field:  "cake_moisture_pct",
			Value:  p.CakeMoisturePct,
			Reason: "must be < 100 (cake solids fraction would be zero)",
		}
	}

	err := v.Struct(p)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validating water balance parameters: %w", err)
	}

	fe := fieldErrs[0]
	return &ConfigurationError{
		Field:  fe.Field(),
		Value:  fe.Value(),
		Reason: "must be " + describeConstraint(fe.Tag(), fe.Param()),
	}
}

// validateFeed rejects feed totals that cannot describe a physical feed.
func validateFeed(f FeedTotals) error {
	switch {
	case !(f.WetMassTonnesPerDay >= 0) || math.IsInf(f.WetMassTonnesPerDay, 1):
		return &ConfigurationError{Field: "wet_mass_t_day", Value: f.WetMassTonnesPerDay, Reason: "must be finite and >= 0"}
	case !(f.TSTonnesPerDay >= 0) || math.IsInf(f.TSTonnesPerDay, 1):
		return &ConfigurationError{Field: "ts_t_day", Value: f.TSTonnesPerDay, Reason: "must be finite and >= 0"}
	case f.TSTonnesPerDay > f.WetMassTonnesPerDay:
		return &ConfigurationError{Field: "ts_t_day", Value: f.TSTonnesPerDay, Reason: "must not exceed wet_mass_t_day"}
	}
	return nil
}

func describeConstraint(tag, param string) string {
	switch tag {
	case "gte":
		return ">= " + param
	case "lte":
		return "<= " + param
	case "gt":
		return "> " + param
	case "lt":
		return "< " + param
	case "finite":
		return "finite"
	default:
		return tag + " " + param
	}
}
