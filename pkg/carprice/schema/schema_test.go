package schema

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekruzvatanshoev/carprice/pkg/carprice/dal"
)

func TestDefaults(t *testing.T) {
	assert.Equal(t, dal.CarRecord{
		Year:         2018,
		PresentPrice: 5.0,
		KmsDriven:    50000,
		FuelType:     dal.FuelPetrol,
		SellerType:   dal.SellerDealer,
		Transmission: dal.TransmissionManual,
		Owner:        0,
	}, Defaults())
	assert.NoError(t, Validate(Defaults()))
}

func TestFromForm(t *testing.T) {
	vars := url.Values{
		"year":          {"2010"},
		"present_price": {"12.7"},
		"kms_driven":    {"120000"},
		"fuel_type":     {"CNG"},
		"seller_type":   {"Individual"},
		"transmission":  {"Automatic"},
		"owner":         {"2"},
	}
	rec, err := FromForm(vars)
	require.NoError(t, err)
	assert.Equal(t, dal.CarRecord{
		Year:         2010,
		PresentPrice: 12.7,
		KmsDriven:    120000,
		FuelType:     dal.FuelCNG,
		SellerType:   dal.SellerIndividual,
		Transmission: dal.TransmissionAutomatic,
		Owner:        2,
	}, rec)
}

func TestFromForm_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
	}{
		{name: "YearTooOld", field: "year", value: "1999"},
		{name: "YearTooNew", field: "year", value: "2026"},
		{name: "YearNotNumber", field: "year", value: "twenty"},
		{name: "PriceNegative", field: "present_price", value: "-0.1"},
		{name: "PriceTooHigh", field: "present_price", value: "50.1"},
		{name: "PriceNaN", field: "present_price", value: "NaN"},
		{name: "KmsFraction", field: "kms_driven", value: "10.5"},
		{name: "KmsTooHigh", field: "kms_driven", value: "300001"},
		{name: "FuelUnknown", field: "fuel_type", value: "Electric"},
		{name: "SellerCase", field: "seller_type", value: "dealer"},
		{name: "OwnerFour", field: "owner", value: "4"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromForm(url.Values{tc.field: {tc.value}})
			require.Error(t, err)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tc.field, vErr.Field)
			assert.Equal(t, tc.value, vErr.Value)
		})
	}
}

func TestFromForm_Bounds(t *testing.T) {
	rec, err := FromForm(url.Values{"year": {"2000"}, "present_price": {"0"}, "kms_driven": {"300000"}})
	require.NoError(t, err)
	assert.Equal(t, 2000, rec.Year)
	assert.Equal(t, 0.0, rec.PresentPrice)
	assert.Equal(t, 300000, rec.KmsDriven)
}

func TestValidate_RejectsUnknownCategory(t *testing.T) {
	rec := Defaults()
	rec.Transmission = "CVT"
	err := Validate(rec)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, FieldTransmission, vErr.Field)
}

func TestValuesRoundTrip(t *testing.T) {
	vars := url.Values{}
	for k, v := range values(Defaults()) {
		vars.Set(k, v)
	}
	rec, err := FromForm(vars)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), rec)
}

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		valid bool
	}{
		{
			name:  "Valid",
			body:  `{"year": 2018, "present_price": 5, "kms_driven": 50000, "fuel_type": "Petrol", "seller_type": "Dealer", "transmission": "Manual", "owner": 0, "explain": true}`,
			valid: true,
		},
		{
			name: "MissingField",
			body: `{"year": 2018, "present_price": 5, "kms_driven": 50000, "fuel_type": "Petrol", "seller_type": "Dealer", "transmission": "Manual"}`,
		},
		{
			name: "YearOutOfRange",
			body: `{"year": 1990, "present_price": 5, "kms_driven": 50000, "fuel_type": "Petrol", "seller_type": "Dealer", "transmission": "Manual", "owner": 0}`,
		},
		{
			name: "UnknownFuel",
			body: `{"year": 2018, "present_price": 5, "kms_driven": 50000, "fuel_type": "Hydrogen", "seller_type": "Dealer", "transmission": "Manual", "owner": 0}`,
		},
		{
			name: "OwnerAsString",
			body: `{"year": 2018, "present_price": 5, "kms_driven": 50000, "fuel_type": "Petrol", "seller_type": "Dealer", "transmission": "Manual", "owner": "0"}`,
		},
		{
			name: "ExtraField",
			body: `{"year": 2018, "present_price": 5, "kms_driven": 50000, "fuel_type": "Petrol", "seller_type": "Dealer", "transmission": "Manual", "owner": 0, "color": "red"}`,
		},
		{
			name: "Malformed",
			body: `{"year": 2018,`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateJSON([]byte(tc.body))
			if tc.valid {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
		})
	}
}
