package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stabilizer/pkg/errors"
	"github.com/matzehuels/stabilizer/pkg/render/genealogy"
	"github.com/matzehuels/stabilizer/pkg/io"
	"github.com/matzehuels/stabilizer/pkg/observability"
	"github.com/matzehuels/stabilizer/pkg/pipeline"
)

// analyzeOpts holds the flags of the analyze command.
type analyzeOpts struct {
	output    string
	config    string
	genealogy string
	workers   int
	refresh   bool
	browse    bool
	cache     cacheFlags
}

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var opts analyzeOpts

	cmd := &cobra.Command{
		Use:   "analyze <object.json>",
		Short: "Find the support points a sliced object needs",
		Long: `Analyze reads a sliced object, checks every layer for parts that would
tip, snap, detach or sag, and writes a JSON report of the support points.`,
		Example: `  stabilizer analyze benchy.json
  stabilizer analyze benchy.json -o report.json --genealogy parts.svg
  stabilizer analyze benchy.json --config pla.toml --browse`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "report path (default: <input>.report.json)")
	cmd.Flags().StringVar(&opts.config, "config", "", "parameter file (TOML)")
	cmd.Flags().StringVar(&opts.genealogy, "genealogy", "", "write the part genealogy graph (.svg, .dot or .gv)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "layer workers (default: number of CPUs)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&opts.browse, "browse", false, "browse the support points interactively")
	opts.cache.register(cmd)

	return cmd
}

func (c *CLI) runAnalyze(ctx context.Context, input string, opts analyzeOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	genealogyFormat, err := genealogyFormat(opts.genealogy)
	if err != nil {
		return err
	}
	params, err := loadParams(opts.config)
	if err != nil {
		return err
	}
	obj, err := io.ImportObject(input)
	if err != nil {
		return err
	}
	if obj.Name == "" {
		obj.Name = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}

	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Analyzing %d layers...", len(obj.Layers)))
	spinner.Start()

	popts := pipeline.DefaultOptions()
	popts.Params = params
	popts.Workers = opts.workers
	popts.Genealogy = genealogyFormat
	popts.Refresh = opts.refresh
	popts.Logger = logger
	popts.Progress = func(done, total int) {
		spinner.SetMessage("Analyzing layer %d/%d", done, total)
	}

	result, err := runner.Analyze(ctx, obj, popts)
	spinner.Stop()
	if err != nil {
		if errors.Is(err, errors.ErrCodeCancelled) && result != nil {
			if path, werr := writeReport(ctx, result.Report, reportPath(input, opts.output)); werr == nil {
				printWarning("Interrupted, partial report written to %s", path)
			}
		}
		return err
	}

	path, err := writeReport(ctx, result.Report, reportPath(input, opts.output))
	if err != nil {
		return err
	}
	printSuccess("Analyzed %s", StyleHighlight.Render(obj.Name))
	printFile(path)
	if opts.genealogy != "" {
		if err := os.WriteFile(opts.genealogy, result.Genealogy, 0o644); err != nil {
			return fmt.Errorf("write genealogy: %w", err)
		}
		observability.Analysis().OnExport(ctx, genealogyFormat, len(result.Genealogy))
		printFile(opts.genealogy)
	}

	printKeyValue("object", result.ObjectHash[:12])
	printStats(result.Report.Stats, len(result.Report.Points), result.CacheHit)
	printIssues(result.Report.Issues)

	if opts.browse && len(result.Report.Points) > 0 {
		if _, err := tea.NewProgram(NewPointListModel(result.Report), tea.WithContext(ctx)).Run(); err != nil {
			return fmt.Errorf("browse: %w", err)
		}
	} else if len(result.Report.Points) > 0 {
		printNextStep("Browse the points", "stabilizer analyze "+input+" --browse")
	}

	prog.done(fmt.Sprintf("Analyzed %d layers", result.Report.Stats.Layers))
	return nil
}

// writeReport encodes the report to path and returns path.
func writeReport(ctx context.Context, r *io.Report, path string) (string, error) {
	var buf bytes.Buffer
	if err := io.WriteReport(r, &buf); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	observability.Analysis().OnExport(ctx, "json", buf.Len())
	return path, nil
}

// reportPath returns output, or the input path with a .report.json suffix.
func reportPath(input, output string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".report.json"
}

// genealogyFormat derives the render format from the file extension.
// An empty path disables the genealogy.
func genealogyFormat(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return genealogy.FormatSVG, nil
	case ".dot", ".gv":
		return genealogy.FormatDOT, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "genealogy %s: use a .svg, .dot or .gv file", path)
}
