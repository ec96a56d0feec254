package predict

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/nekruzvatanshoev/carprice/pkg/carprice/dal"
)

// FormatLakhs formats a price with thousands separators and two decimals.
// Exact halves round to even, so 0.125 is "0.12".
func FormatLakhs(price float64) string {
	fixed := strconv.FormatFloat(math.Abs(price), 'f', 2, 64)
	whole, frac, _ := strings.Cut(fixed, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return fixed
	}
	sign := ""
	if price < 0 {
		sign = "-"
	}
	return sign + humanize.Comma(n) + "." + frac
}

// DTO converts the outcome into the JSON response body.
func (o Outcome) DTO() dal.PredictResponse {
	var resp dal.PredictResponse
	if o.Encoding != StateEncoded {
		resp.EncodingError = o.EncodingErr.Error()
		return resp
	}

	encoded := o.Encoded
	resp.Encoded = &encoded

	switch o.Prediction {
	case StatePredicted:
		price := o.Price
		resp.Price = &price
	case StatePredictionFailed:
		resp.PriceError = Cause(o.PredictionErr)
	}

	switch o.Explanation {
	case StateExplained:
		resp.Explanation = o.View.DTO()
	case StateExplanationFailed:
		resp.ExplanationError = Cause(o.ExplanationErr)
	}
	return resp
}
