// Command signal runs a single buy-signal evaluation from the command line.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"BuySignal/internal/app"
	"BuySignal/internal/config"
	"BuySignal/internal/logger"
	"BuySignal/internal/model"
	"BuySignal/internal/recorder"
	"BuySignal/internal/report"
	"BuySignal/internal/sentiment"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("signal", flag.ContinueOnError)
	fs.SetOutput(stderr)

	cfgPath := fs.String("config", "configs/config.yaml", "path to config file")
	symbol := fs.String("symbol", "", "ticker symbol (overrides config)")
	provider := fs.String("provider", "", "price source: yahoo or mock (overrides config)")
	all := fs.String("all", "", "category applied to every indicator not set explicitly")
	asJSON := fs.Bool("json", false, "print the report as JSON")

	values := make(map[string]*string, model.IndicatorCount)
	for _, ind := range model.Indicators() {
		values[ind.Key()] = fs.String(ind.Key(), "", fmt.Sprintf("%s category (%s)", ind, categoryNames()))
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	raw := make(map[string]string, len(values))
	for k, v := range values {
		raw[k] = *v
		if raw[k] == "" {
			raw[k] = *all
		}
	}
	sel, err := sentiment.ParseSelection(raw)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if *symbol != "" {
		cfg.DataSource.Symbol = *symbol
	}
	if *provider != "" {
		cfg.DataSource.Provider = *provider
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	log := logger.NewWithWriter(logger.Config{Level: cfg.Log.Level, Pretty: true}, stderr)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	components := app.Build(ctx, cfg, log)
	defer components.Close()

	r, err := components.Advisor.Evaluate(ctx, sel, recorder.TriggerCLI)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}
	fmt.Fprint(stdout, renderText(r))
	return 0
}

func categoryNames() string {
	names := make([]string, 0, len(model.Categories()))
	for _, c := range model.Categories() {
		names = append(names, c.String())
	}
	return strings.Join(names, ", ")
}

func renderText(r *report.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n", r.Symbol, r.EvaluatedAt.Format("2006-01-02 15:04"))

	fmt.Fprintln(&b, "1. Market sentiment")
	for _, ind := range r.Indicators {
		fmt.Fprintf(&b, "   %-26s %s\n", ind.Name, ind.Category)
	}
	fmt.Fprintf(&b, "   Fear & Greed: %s/100 (%s)\n\n", r.SentimentScore, r.SentimentLabel)

	fmt.Fprintln(&b, "2. Price data")
	fmt.Fprintf(&b, "   Current price:      %s\n", r.CurrentPrice)
	fmt.Fprintf(&b, "   %d-day average:    %s\n", r.AverageWindow, r.TrailingAverage)
	fmt.Fprintf(&b, "   Trailing minimum:   %s\n", r.TrailingMinimum)
	if r.ChartSkipped {
		fmt.Fprintln(&b, "   Chart skipped: not enough history for the moving average.")
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "3. Result")
	fmt.Fprintf(&b, "   [%s] Score %d/3: %s\n", strings.ToUpper(r.Severity), r.Score, r.Recommendation)
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "   warning: %s\n", w)
	}
	return b.String()
}
