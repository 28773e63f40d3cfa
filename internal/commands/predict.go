package fraudcheck

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mwiater/fraudcheck/internal/form"
	"github.com/mwiater/fraudcheck/internal/prompt"
	"github.com/mwiater/fraudcheck/internal/result"
	"github.com/mwiater/fraudcheck/internal/session"
	"github.com/spf13/cobra"
)

var (
	predictSet   []string
	predictInput string
)

// predictCmd submits one record without any interactive UI.
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Submit one record and print the prediction",
	Long: `Submit one record and print the prediction. Values come from a JSON object
file (--input) and/or repeated --set FIELD=VALUE flags; --set wins. Every field
listed by the service metadata is required.`,
	Example: `  fraudcheck predict --set PROVENANCE=FR --set CODE_BANQUE=B01
  fraudcheck predict --input record.json --jsonMode`,
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := collectValues(predictInput, predictSet)
		if err != nil {
			return err
		}

		cfg := GetConfig()
		svc, agg := newService(cfg)
		defer flushMetrics(agg)

		ctx := commandContext(cmd)
		state := session.New()
		if err := state.Load(ctx, svc); err != nil {
			return fmt.Errorf("%s: %w", session.MetadataErrorMessage, err)
		}
		if err := state.Form.Apply(values); err != nil {
			return err
		}
		if err := state.Submit(ctx, svc); err != nil {
			var missing *form.MissingError
			if errors.As(err, &missing) {
				return err
			}
			return fmt.Errorf("%s: %w", session.PredictionErrorMessage, err)
		}

		out := cmd.OutOrStdout()
		if cfg.JSONMode {
			return writePredictionJSON(out, state.Form.Snapshot(), *state.Prediction)
		}
		prompt.PrintResult(out, *state.Prediction, result.DefaultBarWidth)
		return nil
	},
}

func init() {
	predictCmd.Flags().StringArrayVar(&predictSet, "set", nil, "field value as FIELD=VALUE (repeatable)")
	predictCmd.Flags().StringVarP(&predictInput, "input", "i", "", "JSON file holding a {\"FIELD\": \"VALUE\"} object")
	rootCmd.AddCommand(predictCmd)
}

// collectValues merges the input file with the --set pairs.
func collectValues(inputPath string, pairs []string) (map[string]string, error) {
	values := make(map[string]string)
	if inputPath != "" {
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		if err := json.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("parse input %s: expected an object of string values: %w", inputPath, err)
		}
	}
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q: expected FIELD=VALUE", pair)
		}
		values[name] = value
	}
	return values, nil
}

type predictionOutput struct {
	Input       form.Snapshot `json:"input"`
	Prediction  string        `json:"prediction"`
	Probability float64       `json:"probability"`
	Display     string        `json:"display"`
	Tier        string        `json:"tier"`
}

func writePredictionJSON(out io.Writer, values form.Snapshot, pred result.Prediction) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(predictionOutput{
		Input:       values,
		Prediction:  pred.Label,
		Probability: pred.Probability,
		Display:     result.FormatProbability(pred.Probability),
		Tier:        pred.Tier().String(),
	})
}
