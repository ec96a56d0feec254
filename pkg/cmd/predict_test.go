package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekruzvatanshoev/carprice/pkg/carprice/artifact"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/dal"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/schema"
)

const (
	modelPath     = "../../artifacts/car_price_model.json"
	explainerPath = "../../artifacts/shap_explainer.json"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetArgs(args)
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetArgs(nil)
		for _, c := range RootCmd.Commands() {
			resetFlags(c.Flags())
		}
		resetFlags(RootCmd.PersistentFlags())
	})
	err := RootCmd.Execute()
	return out.String(), err
}

// resetFlags puts every flag in fs back to its default, since cobra keeps
// parsed values between Execute calls.
func resetFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

func TestPredictCmd_Text(t *testing.T) {
	out, err := run(t, "predict",
		"--model", modelPath, "--explainer", explainerPath, "--log-level", "error",
		"--year", "2018", "--present-price", "5", "--kms-driven", "50000",
		"--fuel-type", "Petrol", "--seller-type", "Dealer", "--transmission", "Manual", "--owner", "0",
		"--explain", "--output", "text",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Predicted Price: ₹3.90 Lakhs")
	assert.Contains(t, out, "Explanation of Prediction (base value 4.60)")
	assert.Contains(t, out, "Present_Price")
}

func TestPredictCmd_JSON(t *testing.T) {
	out, err := run(t, "predict",
		"--model", modelPath, "--explainer", explainerPath, "--log-level", "error",
		"--year", "2018", "--present-price", "5", "--kms-driven", "50000",
		"--fuel-type", "Diesel", "--seller-type", "Individual", "--transmission", "Automatic", "--owner", "0",
		"--explain=false", "--output", "json",
	)
	require.NoError(t, err)

	var resp dal.PredictResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, dal.EncodedRecord{Year: 2018, PresentPrice: 5, KmsDriven: 50000, FuelType: 1, SellerType: 1, Transmission: 1}, *resp.Encoded)
	require.NotNil(t, resp.Price)
	assert.Nil(t, resp.Explanation)
}

func TestPredictCmd_InvalidInput(t *testing.T) {
	_, err := run(t, "predict",
		"--model", modelPath, "--explainer", explainerPath, "--log-level", "error",
		"--year", "1999", "--output", "text",
	)
	var vErr *schema.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, schema.FieldYear, vErr.Field)
}

func TestPredictCmd_MissingArtifact(t *testing.T) {
	_, err := run(t, "predict",
		"--model", "../../artifacts/missing.json", "--explainer", explainerPath, "--log-level", "error",
		"--year", "2018", "--output", "text",
	)
	var loadErr *artifact.LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "../../artifacts/missing.json", loadErr.Path)
}

func TestPredictCmd_UnknownFormat(t *testing.T) {
	_, err := run(t, "predict", "--output", "xml")
	assert.Error(t, err)
}

func TestPredictCmd_FlagsDoNotLeak(t *testing.T) {
	t.Run("Diesel", func(t *testing.T) {
		_, err := run(t, "predict",
			"--model", modelPath, "--explainer", explainerPath, "--log-level", "error",
			"--fuel-type", "Diesel", "--explain", "--output", "json",
		)
		require.NoError(t, err)
	})

	t.Run("Defaults", func(t *testing.T) {
		out, err := run(t, "predict",
			"--model", modelPath, "--explainer", explainerPath, "--log-level", "error",
			"--output", "json",
		)
		require.NoError(t, err)

		var resp dal.PredictResponse
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		require.NotNil(t, resp.Encoded)
		assert.Equal(t, 0, resp.Encoded.FuelType)
		assert.Nil(t, resp.Explanation)
		require.NotNil(t, resp.Price)
		assert.InDelta(t, 3.9, *resp.Price, 1e-9)
	})
}
