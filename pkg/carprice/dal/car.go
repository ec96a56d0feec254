package dal

// FuelType is the fuel a car runs on
type FuelType string

const (
	FuelPetrol FuelType = "Petrol"
	FuelDiesel FuelType = "Diesel"
	FuelCNG    FuelType = "CNG"
)

// SellerType is who sells the car
type SellerType string

const (
	SellerDealer     SellerType = "Dealer"
	SellerIndividual SellerType = "Individual"
)

// Transmission is the gearbox kind
type Transmission string

const (
	TransmissionManual    Transmission = "Manual"
	TransmissionAutomatic Transmission = "Automatic"
)

// CarRecord defines the user supplied description of a used car
type CarRecord struct {
	Year         int          `json:"year"`
	PresentPrice float64      `json:"present_price"`
	KmsDriven    int          `json:"kms_driven"`
	FuelType     FuelType     `json:"fuel_type"`
	SellerType   SellerType   `json:"seller_type"`
	Transmission Transmission `json:"transmission"`
	Owner        int          `json:"owner"`
}

// FeatureNames is the column order the model artifacts were trained on.
var FeatureNames = []string{
	"Year",
	"Present_Price",
	"Kms_Driven",
	"Fuel_Type",
	"Seller_Type",
	"Transmission",
	"Owner",
}

// EncodedRecord is a CarRecord with its categorical fields replaced by codes
type EncodedRecord struct {
	Year         int     `json:"year"`
	PresentPrice float64 `json:"present_price"`
	KmsDriven    int     `json:"kms_driven"`
	FuelType     int     `json:"fuel_type"`
	SellerType   int     `json:"seller_type"`
	Transmission int     `json:"transmission"`
	Owner        int     `json:"owner"`
}

// Features returns the record as a feature row in FeatureNames order.
func (e EncodedRecord) Features() []float64 {
	return []float64{
		float64(e.Year),
		e.PresentPrice,
		float64(e.KmsDriven),
		float64(e.FuelType),
		float64(e.SellerType),
		float64(e.Transmission),
		float64(e.Owner),
	}
}
