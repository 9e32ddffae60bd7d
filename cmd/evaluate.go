package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/housewrangle/internal/acquire"
	"github.com/KaramelBytes/housewrangle/internal/analysis"
	"github.com/KaramelBytes/housewrangle/internal/evaluate"
)

var (
	evalTarget   string
	evalFeatures []string
	evalSelectK  int
	evalRFE      int
	evalResBins  int
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <file>",
	Short: "Fit a linear model and compare it with the mean baseline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if evalTarget == "" || len(evalFeatures) == 0 {
			return errors.New("--target and --features are required")
		}
		t, err := acquire.ReadCSV(args[0])
		if err != nil {
			return err
		}
		y, err := t.Floats(evalTarget)
		if err != nil {
			return err
		}
		X, err := evaluate.Features(t, evalFeatures)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if evalSelectK > 0 {
			best, err := evaluate.SelectKBest(X, evalFeatures, y, evalSelectK)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "SelectKBest (k=%d): %v\n", evalSelectK, best)
		}
		if evalRFE > 0 {
			kept, err := evaluate.RFE(X, evalFeatures, y, evalRFE)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "RFE (n=%d): %v\n", evalRFE, kept)
		}

		model, err := evaluate.FitOLS(X, y)
		if err != nil {
			return err
		}
		logger.Debug("Fitted model", zap.Float64("intercept", model.Intercept), zap.Float64s("coef", model.Coef))
		yhat, err := model.Predict(X)
		if err != nil {
			return err
		}
		m, err := evaluate.Regression(y, yhat)
		if err != nil {
			return err
		}
		base, err := evaluate.Baseline(y)
		if err != nil {
			return err
		}
		r2, err := evaluate.R2(y, yhat)
		if err != nil {
			return err
		}
		better, err := evaluate.BetterThanBaseline(y, yhat)
		if err != nil {
			return err
		}

		renderTable(out, table.Row{"Model", "SSE", "MSE", "RMSE", "R²"}, []table.Row{
			{"ols", f2(m.SSE), f2(m.MSE), f2(m.RMSE), fmt.Sprintf("%.4f", r2)},
			{"baseline", f2(base.SSE), f2(base.MSE), f2(base.RMSE), "0.0000"},
		})
		fmt.Fprintf(out, "ESS: %s  TSS: %s\n", f2(m.ESS), f2(m.TSS))
		fmt.Fprintln(out, evaluate.CompareSSE(m.SSE, base.SSE, "ols", "baseline"))
		fmt.Fprintf(out, "Better than baseline: %v\n", better)

		res, err := evaluate.Residuals(y, yhat)
		if err != nil {
			return err
		}
		return printResiduals(out, res, evalResBins)
	},
}

// printResiduals writes a residual summary and, when bins > 0, a text
// histogram of y - yhat.
func printResiduals(w io.Writer, res []float64, bins int) error {
	fmt.Fprintf(w, "Residuals: min %s  max %s  mean %s\n", f2(floats.Min(res)), f2(floats.Max(res)), f2(stat.Mean(res, nil)))
	if bins <= 0 {
		return nil
	}
	hist, err := analysis.Histogram(res, bins)
	if err != nil {
		return fmt.Errorf("residual histogram: %w", err)
	}
	rows := make([]table.Row, 0, len(hist))
	for _, b := range hist {
		rows = append(rows, table.Row{fmt.Sprintf("[%s, %s]", f2(b.Lo), f2(b.Hi)), b.Count})
	}
	renderTable(w, table.Row{"Residual", "Count"}, rows)
	return nil
}

func f2(v float64) string { return fmt.Sprintf("%.2f", v) }

func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().StringVar(&evalTarget, "target", "", "target column")
	evaluateCmd.Flags().StringSliceVar(&evalFeatures, "features", nil, "comma-separated feature columns")
	evaluateCmd.Flags().IntVar(&evalSelectK, "select-k", 0, "report the k best features by F-regression")
	evaluateCmd.Flags().IntVar(&evalRFE, "rfe", 0, "report the n features kept by recursive feature elimination")
	evaluateCmd.Flags().IntVar(&evalResBins, "residual-bins", 5, "histogram bins for residuals (0 disables)")
}
