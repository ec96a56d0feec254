// Package encoder turns a CarRecord into the numeric row the model expects.
package encoder

import (
	"fmt"

	"github.com/nekruzvatanshoev/carprice/pkg/carprice/dal"
)

var (
	fuelCodes = map[dal.FuelType]int{
		dal.FuelPetrol: 0,
		dal.FuelDiesel: 1,
		dal.FuelCNG:    2,
	}
	sellerCodes = map[dal.SellerType]int{
		dal.SellerDealer:     0,
		dal.SellerIndividual: 1,
	}
	transmissionCodes = map[dal.Transmission]int{
		dal.TransmissionManual:    0,
		dal.TransmissionAutomatic: 1,
	}
)

// EncodingError reports a categorical value missing from its table.
type EncodingError struct {
	Field string
	Value string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("no encoding for %s %q", e.Field, e.Value)
}

// Encode replaces the categorical fields of rec with their codes. Numeric
// fields are copied as is; no range checks are made here.
func Encode(rec dal.CarRecord) (dal.EncodedRecord, error) {
	fuel, ok := fuelCodes[rec.FuelType]
	if !ok {
		return dal.EncodedRecord{}, &EncodingError{Field: "Fuel_Type", Value: string(rec.FuelType)}
	}
	seller, ok := sellerCodes[rec.SellerType]
	if !ok {
		return dal.EncodedRecord{}, &EncodingError{Field: "Seller_Type", Value: string(rec.SellerType)}
	}
	transmission, ok := transmissionCodes[rec.Transmission]
	if !ok {
		return dal.EncodedRecord{}, &EncodingError{Field: "Transmission", Value: string(rec.Transmission)}
	}

	return dal.EncodedRecord{
		Year:         rec.Year,
		PresentPrice: rec.PresentPrice,
		KmsDriven:    rec.KmsDriven,
		FuelType:     fuel,
		SellerType:   seller,
		Transmission: transmission,
		Owner:        rec.Owner,
	}, nil
}
