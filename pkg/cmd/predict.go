package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nekruzvatanshoev/carprice/pkg/carprice/predict"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/schema"
)

var PredictCmd = &cobra.Command{
	Use:   PredictCmdName,
	Short: PredictCmdShort,
	Long:  PredictCmdLong,
	Args:  cobra.NoArgs,
	RunE:  predictCmdFunc,
}

func init() {
	for _, f := range schema.Fields {
		usage := f.Label
		if len(f.Choices) > 0 {
			usage += " (" + strings.Join(f.Choices, ", ") + ")"
		}
		PredictCmd.Flags().String(flagName(f), f.Default, usage)
	}
	PredictCmd.Flags().Bool("explain", false, "also explain the prediction")
	PredictCmd.Flags().StringP("output", "o", "text", "text or json")
}

func flagName(f schema.Field) string {
	return strings.ReplaceAll(f.Name, "_", "-")
}

func predictCmdFunc(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("output")
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown output format %q", format)
	}

	vars := url.Values{}
	for _, f := range schema.Fields {
		val, _ := cmd.Flags().GetString(flagName(f))
		vars.Set(f.Name, val)
	}
	rec, err := schema.FromForm(vars)
	if err != nil {
		return err
	}
	wantExplanation, _ := cmd.Flags().GetBool("explain")

	_, log, cycle, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	out := cycle.Run(rec, wantExplanation)
	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out.DTO())
	}
	printOutcome(cmd.OutOrStdout(), out)
	return nil
}

func printOutcome(w io.Writer, out predict.Outcome) {
	if out.Encoding != predict.StateEncoded {
		fmt.Fprintf(w, "An error occurred while encoding the input: %v\n", out.EncodingErr)
		return
	}

	switch out.Prediction {
	case predict.StatePredicted:
		fmt.Fprintln(w, predict.PriceMessage(out.Price))
	case predict.StatePredictionFailed:
		fmt.Fprintf(w, "An error occurred during prediction: %s\n", predict.Cause(out.PredictionErr))
	}

	switch out.Explanation {
	case predict.StateExplained:
		fmt.Fprintf(w, "\nExplanation of Prediction (base value %.2f)\n", out.View.Baseline)
		for _, a := range out.View.Ranked() {
			fmt.Fprintf(w, "  %-14s %10g  %+.3f\n", a.Feature, a.Value, a.Contribution)
		}
	case predict.StateExplanationFailed:
		fmt.Fprintf(w, "An error occurred during SHAP explanation: %s\n", predict.Cause(out.ExplanationErr))
	}
}
