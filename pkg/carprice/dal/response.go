package dal

// PredictRequest defines the JSON body of a prediction request
type PredictRequest struct {
	CarRecord
	Explain bool `json:"explain"`
}

// Attribution is one feature's share of an explained prediction
type Attribution struct {
	Feature      string  `json:"feature"`
	Value        float64 `json:"value"`
	Contribution float64 `json:"contribution"`
}

// Explanation defines the JSON form of an attribution view
type Explanation struct {
	Baseline     float64       `json:"baseline"`
	Output       float64       `json:"output"`
	Attributions []Attribution `json:"attributions"`
}

// PredictResponse defines an HTTP response struct
type PredictResponse struct {
	Encoded          *EncodedRecord `json:"encoded,omitempty"`
	EncodingError    string         `json:"encoding_error,omitempty"`
	Price            *float64       `json:"price,omitempty"`
	PriceError       string         `json:"price_error,omitempty"`
	Explanation      *Explanation   `json:"explanation,omitempty"`
	ExplanationError string         `json:"explanation_error,omitempty"`
}

// ErrorResponse is returned for requests rejected before the cycle runs
type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
