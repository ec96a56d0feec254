package predict

import (
	"errors"
	"fmt"
	"math"

	"github.com/nekruzvatanshoev/carprice/pkg/carprice/artifact"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/dal"
)

// PredictionError wraps any failure of the model on one record.
type PredictionError struct {
	Err error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("prediction: %v", e.Err)
}

func (e *PredictionError) Unwrap() error { return e.Err }

// Predict returns the model's price for rec in Lakhs. Errors and panics
// raised by the model come back as *PredictionError.
func Predict(m artifact.Model, rec dal.EncodedRecord) (price float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			price, err = 0, &PredictionError{Err: fmt.Errorf("model panicked: %v", r)}
		}
	}()

	if m == nil {
		return 0, &PredictionError{Err: errors.New("no model loaded")}
	}

	price, err = m.Predict(rec.Features())
	if err != nil {
		return 0, &PredictionError{Err: err}
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, &PredictionError{Err: fmt.Errorf("model returned %v", price)}
	}
	return price, nil
}
