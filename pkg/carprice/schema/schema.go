// Package schema declares the seven inputs of the price form. The same
// declaration drives the HTML controls, form parsing and the JSON Schema used
// to validate API requests.
package schema

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/nekruzvatanshoev/carprice/pkg/carprice/dal"
)

// Kind is the control type of a field
type Kind string

const (
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindSelect Kind = "select"
)

// Field describes one input control
type Field struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Kind    Kind     `json:"kind"`
	Min     float64  `json:"min,omitempty"`
	Max     float64  `json:"max,omitempty"`
	Step    float64  `json:"step,omitempty"`
	Choices []string `json:"choices,omitempty"`
	// IntChoices marks a select whose choices are integers.
	IntChoices bool   `json:"int_choices,omitempty"`
	Default    string `json:"default"`
}

const (
	FieldYear         = "year"
	FieldPresentPrice = "present_price"
	FieldKmsDriven    = "kms_driven"
	FieldFuelType     = "fuel_type"
	FieldSellerType   = "seller_type"
	FieldTransmission = "transmission"
	FieldOwner        = "owner"
)

// Fields lists the form controls in display order.
var Fields = []Field{
	{Name: FieldYear, Label: "Year", Kind: KindInt, Min: 2000, Max: 2025, Step: 1, Default: "2018"},
	{Name: FieldPresentPrice, Label: "Present Price (in Lakhs)", Kind: KindFloat, Min: 0, Max: 50, Step: 0.1, Default: "5.0"},
	{Name: FieldKmsDriven, Label: "Mileage (km)", Kind: KindInt, Min: 0, Max: 300000, Step: 1, Default: "50000"},
	{Name: FieldFuelType, Label: "Fuel Type", Kind: KindSelect, Choices: []string{"Petrol", "Diesel", "CNG"}, Default: "Petrol"},
	{Name: FieldSellerType, Label: "Seller Type", Kind: KindSelect, Choices: []string{"Dealer", "Individual"}, Default: "Dealer"},
	{Name: FieldTransmission, Label: "Transmission", Kind: KindSelect, Choices: []string{"Manual", "Automatic"}, Default: "Manual"},
	{Name: FieldOwner, Label: "Number of Owners", Kind: KindSelect, Choices: []string{"0", "1", "2", "3"}, IntChoices: true, Default: "0"},
}

// ValidationError reports input outside its declared domain.
type ValidationError struct {
	Field   string
	Value   string
	Reason  string
	Details []string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Defaults returns the record the form starts with.
func Defaults() dal.CarRecord {
	rec, err := FromForm(url.Values{})
	if err != nil {
		panic(fmt.Sprintf("schema defaults are invalid: %v", err))
	}
	return rec
}

// FromForm builds a record from submitted form values. Missing values take
// the field default.
func FromForm(vars url.Values) (dal.CarRecord, error) {
	var rec dal.CarRecord
	for _, f := range Fields {
		raw := strings.TrimSpace(vars.Get(f.Name))
		if raw == "" {
			raw = f.Default
		}
		if err := f.assign(&rec, raw); err != nil {
			return dal.CarRecord{}, err
		}
	}
	return rec, nil
}

func (f Field) assign(rec *dal.CarRecord, raw string) error {
	switch f.Kind {
	case KindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return &ValidationError{Field: f.Name, Value: raw, Reason: "must be a whole number"}
		}
		if err := f.checkRange(float64(n), raw); err != nil {
			return err
		}
		switch f.Name {
		case FieldYear:
			rec.Year = n
		case FieldKmsDriven:
			rec.KmsDriven = n
		}
	case KindFloat:
		x, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
			return &ValidationError{Field: f.Name, Value: raw, Reason: "must be a number"}
		}
		if err := f.checkRange(x, raw); err != nil {
			return err
		}
		rec.PresentPrice = x
	case KindSelect:
		if !f.hasChoice(raw) {
			return &ValidationError{Field: f.Name, Value: raw, Reason: fmt.Sprintf("must be one of %s", strings.Join(f.Choices, ", "))}
		}
		switch f.Name {
		case FieldFuelType:
			rec.FuelType = dal.FuelType(raw)
		case FieldSellerType:
			rec.SellerType = dal.SellerType(raw)
		case FieldTransmission:
			rec.Transmission = dal.Transmission(raw)
		case FieldOwner:
			rec.Owner, _ = strconv.Atoi(raw)
		}
	}
	return nil
}

func (f Field) checkRange(x float64, raw string) error {
	if x < f.Min || x > f.Max {
		return &ValidationError{Field: f.Name, Value: raw, Reason: fmt.Sprintf("must be between %v and %v", f.Min, f.Max)}
	}
	return nil
}

func (f Field) hasChoice(v string) bool {
	for _, c := range f.Choices {
		if c == v {
			return true
		}
	}
	return false
}

// Validate checks every field of rec against its domain.
func Validate(rec dal.CarRecord) error {
	vals := values(rec)
	for _, f := range Fields {
		if err := f.assign(&dal.CarRecord{}, vals[f.Name]); err != nil {
			return err
		}
	}
	return nil
}

// values renders rec as form values keyed by field name.
func values(rec dal.CarRecord) map[string]string {
	return map[string]string{
		FieldYear:         strconv.Itoa(rec.Year),
		FieldPresentPrice: strconv.FormatFloat(rec.PresentPrice, 'f', -1, 64),
		FieldKmsDriven:    strconv.Itoa(rec.KmsDriven),
		FieldFuelType:     string(rec.FuelType),
		FieldSellerType:   string(rec.SellerType),
		FieldTransmission: string(rec.Transmission),
		FieldOwner:        strconv.Itoa(rec.Owner),
	}
}
