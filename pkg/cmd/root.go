package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/nekruzvatanshoev/carprice/pkg/carprice/artifact"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/config"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/logger"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/predict"
)

const (
	RootCmdName  = "carprice"
	RootCmdShort = "Used car price prediction"
	RootCmdLong  = `carprice estimates the resale price of a used car in Lakhs from a
pre-trained regression model and can explain each estimate feature by feature.`

	ServeCmdName  = "serve"
	ServeCmdShort = "Serve the prediction form over HTTP"
	ServeCmdLong  = `Load the model and explainer artifacts and serve the interactive form,
the JSON API and Prometheus metrics.`

	PredictCmdName  = "predict"
	PredictCmdShort = "Predict the price of one car"
	PredictCmdLong  = `Load the artifacts, run one prediction for the car described by the
flags and print the outcome. Useful to smoke test deployed artifacts.`
)

// v holds the configuration shared by all subcommands.
var v = viper.New()

var RootCmd = &cobra.Command{
	Use:           RootCmdName,
	Short:         RootCmdShort,
	Long:          RootCmdLong,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().String("config", "", "config file (default ./carprice.yaml)")
	RootCmd.PersistentFlags().String("model", "", "model artifact path")
	RootCmd.PersistentFlags().String("explainer", "", "explainer artifact path")
	RootCmd.PersistentFlags().String("log-level", "", "debug, info, warn or error")
	RootCmd.PersistentFlags().String("log-format", "", "console or json")

	v.BindPFlag("config", RootCmd.PersistentFlags().Lookup("config"))
	v.BindPFlag("artifacts.model_path", RootCmd.PersistentFlags().Lookup("model"))
	v.BindPFlag("artifacts.explainer_path", RootCmd.PersistentFlags().Lookup("explainer"))
	v.BindPFlag("logging.level", RootCmd.PersistentFlags().Lookup("log-level"))
	v.BindPFlag("logging.format", RootCmd.PersistentFlags().Lookup("log-format"))

	RootCmd.AddCommand(ServeCmd)
	RootCmd.AddCommand(PredictCmd)
}

// bootstrap loads config, builds the logger and loads the artifacts. Any
// artifact failure stops the command before it serves anything.
func bootstrap() (*config.Config, *zap.Logger, *predict.Cycle, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, nil, nil, err
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, nil, nil, err
	}

	model, explainer, err := artifact.Load(cfg.Artifacts.ModelPath, cfg.Artifacts.ExplainerPath)
	if err != nil {
		log.Error("artifact load failed", zap.Error(err))
		log.Sync()
		return nil, nil, nil, err
	}
	log.Info("artifacts loaded",
		zap.String("model", cfg.Artifacts.ModelPath),
		zap.String("explainer", cfg.Artifacts.ExplainerPath),
	)

	return cfg, log, predict.NewCycle(model, explainer, cfg.Explanation.PlotHeight, log), nil
}
