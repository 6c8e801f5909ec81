package feedstock

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidRecord is the sentinel wrapped by every ValidationError.
var ErrInvalidRecord = errors.New("invalid feedstock record")

// ValidationError reports the first out-of-range field found in a batch.
// The whole batch is rejected; no partial results are produced.
type ValidationError struct {
	// Index is the zero-based position of the offending record, or -1 when the
	// batch itself is rejected (for example, too many records).
	Index int

	// Name is the record name, if any.
	Name string

	// Field is the serialized field name (e.g. "moisture_pct").
	Field string

	// Value is the rejected value.
	Value any

	// Constraint describes the accepted range (e.g. ">= 0", "<= 100").
	Constraint string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s %v must be %s", ErrInvalidRecord, e.Field, e.Value, e.Constraint)
	}
	return fmt.Sprintf("%s %d (%q): %s = %v, must be %s",
		ErrInvalidRecord, e.Index, e.Name, e.Field, e.Value, e.Constraint)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidRecord
}

// newValidate builds a validator that reports fields by their yaml name.
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

// validateBatch checks the batch size and then every record in order.
func validateBatch(v *validator.Validate, records []Record) error {
	if n := len(records); n < MinRecords || n > MaxRecords {
		return &ValidationError{
			Index:      -1,
			Field:      "records",
			Value:      n,
			Constraint: fmt.Sprintf("between %d and %d", MinRecords, MaxRecords),
		}
	}

	for i := range records {
		if err := validateRecord(v, i, records[i]); err != nil {
			return err
		}
	}
	return validateDerived(records)
}

// validateDerived rejects records whose inputs are finite but whose yield
// chain or batch sums overflow float64.
func validateDerived(records []Record) error {
	var volume, raw float64
	for i, r := range records {
		res := ComputeRecord(r)
		derived := []struct {
			field string
			value float64
		}{
			{"ts_t_yr", res.TSTonnesPerYear},
			{"sv_t_yr", res.SVTonnesPerYear},
			{"raw_biogas_m3_yr", res.RawBiogasM3PerYear},
			{"usable_biomethane_m3_yr", res.UsableBiomethaneM3PerYear},
			{"final_biomethane_m3_yr", res.FinalBiomethaneM3PerYear},
			{"water_in_feed_t_yr", res.WaterInFeedTonnesPerYear},
		}
		for _, d := range derived {
			if math.IsInf(d.value, 0) || math.IsNaN(d.value) {
				return &ValidationError{
					Index:      i,
					Name:       r.Name,
					Field:      d.field,
					Value:      d.value,
					Constraint: "finite",
				}
			}
		}
		volume += res.VolumeTonnesPerYear
		raw += res.RawBiogasM3PerYear
	}
	if math.IsInf(volume, 0) || math.IsInf(raw, 0) {
		return &ValidationError{
			Index:      -1,
			Field:      "records",
			Value:      len(records),
			Constraint: "small enough for finite batch totals",
		}
	}
	return nil
}

func validateRecord(v *validator.Validate, index int, r Record) error {
	err := v.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validating feedstock record %d: %w", index, err)
	}

	fe := fieldErrs[0]
	return &ValidationError{
		Index:      index,
		Name:       r.Name,
		Field:      fe.Field(),
		Value:      fe.Value(),
		Constraint: describeConstraint(fe.Tag(), fe.Param()),
	}
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
