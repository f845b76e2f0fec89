package commands

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	"github.com/go-gota/gota/dataframe"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapiqr/internal/cli/output"
	"github.com/leapstack-labs/leapiqr/pkg/adapter"
	"github.com/leapstack-labs/leapiqr/pkg/outlier"
)

// Sink names as they appear in summaries.
const (
	SinkOutliers    = "outliers"
	SinkNonOutliers = "non_outliers"
	SinkCapped      = "capped"
)

// SinkResult describes one written result dataset.
type SinkResult struct {
	Name   string `json:"name" yaml:"name"`
	Target string `json:"target" yaml:"target"`
	Rows   int    `json:"rows" yaml:"rows"`
}

// ProcessSummary is the machine-readable result of the process command.
type ProcessSummary struct {
	Column      string         `json:"column" yaml:"column"`
	Method      string         `json:"method" yaml:"method"`
	Multiplier  float64        `json:"multiplier" yaml:"multiplier"`
	Bounds      outlier.Bounds `json:"bounds" yaml:"bounds"`
	Rows        int            `json:"rows" yaml:"rows"`
	Outliers    int            `json:"outliers" yaml:"outliers"`
	Below       int            `json:"below" yaml:"below"`
	Above       int            `json:"above" yaml:"above"`
	NonOutliers int            `json:"non_outliers" yaml:"non_outliers"`
	Missing     int            `json:"missing" yaml:"missing"`
	Sinks       []SinkResult   `json:"sinks,omitempty" yaml:"sinks,omitempty"`
	OutlierRows []adapter.Row  `json:"outlier_rows,omitempty" yaml:"outlier_rows,omitempty"`
}

// NewProcessCommand creates the process command.
func NewProcessCommand() *cobra.Command {
	var show int

	cmd := &cobra.Command{
		Use:   "process [column]",
		Short: "Detect and cap outliers in one column",
		Long: `Load the source dataset, compute the IQR fences of one numeric column and
write the outlier rows, the non-outlier rows and the capped dataset to the
configured sinks. Sinks without a target are skipped.

Rows whose value lies strictly outside [Q1 - k*IQR, Q3 + k*IQR] are outliers.
The capped dataset keeps every row and clamps the column into the fences.`,
		Example: `  leapiqr process price --source listings.csv --capped out/capped.csv
  leapiqr process --source-type duckdb --source-path warehouse.db \
    --source "SELECT * FROM listings" --column price --outliers listing_outliers
  leapiqr process price -o json --show 10`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, args, show)
		},
	}

	addSourceFlags(cmd)
	addAnalysisFlags(cmd)
	addSinkFlags(cmd)
	cmd.Flags().IntVar(&show, "show", 0, "Render the first N outlier rows")

	return cmd
}

func runProcess(cmd *cobra.Command, args []string, show int) error {
	ctx := cmd.Context()
	cc := NewCommandContext(cmd)
	if err := cc.applyColumnArg(args); err != nil {
		return err
	}
	cfg := cc.Cfg

	proc, err := outlier.New(cfg.OutlierOptions())
	if err != nil {
		return err
	}

	src, df, err := cc.loadSource(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	res, err := proc.Process(df, cfg.Column)
	if err != nil {
		return err
	}
	cc.Logger.Debug("fences computed",
		slog.String("column", res.Column),
		slog.Float64("lower", res.Bounds.Lower),
		slog.Float64("upper", res.Bounds.Upper),
		slog.Int("outliers", res.Outliers.Nrow()))

	sinks, err := cc.writeSinks(ctx, src, res)
	if err != nil {
		return err
	}

	summary := newProcessSummary(proc.Options(), res, sinks, show)
	return renderProcess(cc.Renderer, summary, res, show)
}

// writeSinks writes every result that has a target. The source adapter is
// reused when the sinks share its connection.
func (c *CommandContext) writeSinks(ctx context.Context, src adapter.Adapter, res *outlier.Result) ([]SinkResult, error) {
	cfg := c.Cfg
	if !cfg.Sinks.Any() {
		return nil, nil
	}

	sinkCfg := cfg.SinkAdapterConfig()
	dst := src
	if !sameConnection(sinkCfg, cfg.Source.AdapterConfig()) {
		adp, err := openAdapter(ctx, sinkCfg, c.Logger)
		if err != nil {
			return nil, err
		}
		defer func() { _ = adp.Close() }()
		dst = adp
	}

	targets := []struct {
		name   string
		target string
		df     dataframe.DataFrame
	}{
		{SinkOutliers, cfg.Sinks.Outliers, res.Outliers},
		{SinkNonOutliers, cfg.Sinks.NonOutliers, res.NonOutliers},
		{SinkCapped, cfg.Sinks.Capped, res.Capped},
	}

	var written []SinkResult
	for _, t := range targets {
		if t.target == "" {
			continue
		}
		if err := dst.Write(ctx, t.target, t.df); err != nil {
			return written, fmt.Errorf("failed to write %s to %s: %w", t.name, t.target, err)
		}
		c.Logger.Info("sink written",
			slog.String("sink", t.name),
			slog.String("target", t.target),
			slog.Int("rows", t.df.Nrow()))
		written = append(written, SinkResult{Name: t.name, Target: t.target, Rows: t.df.Nrow()})
	}
	return written, nil
}

func sameConnection(a, b adapter.Config) bool {
	return a.Type == b.Type && a.Path == b.Path && a.Host == b.Host && a.Port == b.Port &&
		a.Database == b.Database && a.Username == b.Username && a.Password == b.Password &&
		a.Schema == b.Schema && maps.Equal(a.Options, b.Options)
}

func newProcessSummary(opts outlier.Options, res *outlier.Result, sinks []SinkResult, show int) ProcessSummary {
	s := ProcessSummary{
		Column:      res.Column,
		Method:      opts.Method.String(),
		Multiplier:  opts.Multiplier,
		Bounds:      res.Bounds,
		Rows:        res.Total(),
		Outliers:    res.Outliers.Nrow(),
		Below:       res.Below,
		Above:       res.Above,
		NonOutliers: res.NonOutliers.Nrow(),
		Missing:     res.Missing,
		Sinks:       sinks,
	}
	if show > 0 && s.Outliers > 0 {
		s.OutlierRows = adapter.Rows(head(res.Outliers, show))
	}
	return s
}

// head returns the first n rows of df.
func head(df dataframe.DataFrame, n int) dataframe.DataFrame {
	if n >= df.Nrow() {
		return df
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return df.Subset(idx)
}

func renderProcess(r *output.Renderer, s ProcessSummary, res *outlier.Result, show int) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(s)
	case output.ModeYAML:
		return r.YAML(s)
	}

	renderBounds(r, s.Column, s.Method, s.Multiplier, s.Bounds)

	r.Header(2, "Rows")
	r.KeyValue("Total", output.FormatCount(s.Rows))
	outliers := fmt.Sprintf("%s (%s below, %s above)",
		output.FormatCount(s.Outliers), output.FormatCount(s.Below), output.FormatCount(s.Above))
	if r.EffectiveMode() == output.ModeText && s.Outliers > 0 {
		outliers = r.Styles().Outlier.Render(outliers)
	}
	r.KeyValue("Outliers", outliers)
	r.KeyValue("Non-outliers", output.FormatCount(s.NonOutliers))
	if s.Missing > 0 {
		r.KeyValue("Missing", output.FormatCount(s.Missing))
	}
	r.Println("")
	if s.Missing > 0 {
		r.Warning(fmt.Sprintf("%d missing values in %q were left untouched", s.Missing, s.Column))
	}

	if len(s.Sinks) > 0 {
		r.Header(2, "Sinks")
		for _, sink := range s.Sinks {
			r.KeyValue(sink.Name, fmt.Sprintf("%s (%s rows)", sink.Target, output.FormatCount(sink.Rows)))
		}
		r.Println("")
	}

	if s.Outliers == 0 {
		r.Success("No outliers found")
		return nil
	}
	if show > 0 {
		r.Header(2, "Outlier rows")
		records := adapter.Records(head(res.Outliers, show))
		r.Table(records[0], records[1:])
		if rest := s.Outliers - show; rest > 0 {
			r.Muted(fmt.Sprintf("... %s more", output.FormatCount(rest)))
		}
	}
	return nil
}

// renderBounds writes the fence section shared by process and bounds.
func renderBounds(r *output.Renderer, column, method string, multiplier float64, b outlier.Bounds) {
	r.Header(1, fmt.Sprintf("IQR fences for %s", column))
	r.KeyValue("Method", method)
	r.KeyValue("Multiplier", output.FormatFloat(multiplier))
	r.KeyValue("Q1", output.FormatFloat(b.Q1))
	r.KeyValue("Q3", output.FormatFloat(b.Q3))
	r.KeyValue("IQR", output.FormatFloat(b.IQR))
	r.KeyValue("Lower bound", output.FormatFloat(b.Lower))
	r.KeyValue("Upper bound", output.FormatFloat(b.Upper))
	r.Println("")
}
