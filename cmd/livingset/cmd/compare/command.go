// Package compare implements the compare command.
package compare

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/livingset"
	"github.com/agentstation/livingset/cmd/application"
	"github.com/agentstation/livingset/internal/cmd/cmdutil"
	"github.com/agentstation/livingset/internal/cmd/emoji"
	"github.com/agentstation/livingset/internal/cmd/output"
	"github.com/agentstation/livingset/pkg/constants"
	"github.com/agentstation/livingset/pkg/dataset"
	"github.com/agentstation/livingset/pkg/errors"
)

// Flags holds the compare command flags.
type Flags struct {
	Type         string
	Pattern      string
	CreateMaster bool
	Output       string
}

// Report is the JSON/YAML document printed with --create-master.
type Report struct {
	Comparison *livingset.CompareResult `json:"comparison" yaml:"comparison"`
	Master     *livingset.MasterResult  `json:"master" yaml:"master"`
}

// NewCommand creates the compare command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "compare --type TYPE [files...]",
		GroupID: "core",
		Short:   "Score candidate files and recommend a master",
		Long: `Compare loads several files of one data type and scores each by
identities × columns × records. The best-scoring file is recommended as the
master to seed a living dataset from; ties go to the newer file.

Files may be given as arguments or found with --pattern, a glob relative to
the data directory. The default pattern is <stem>*.csv, without quarantine
files and dated backups.

With --create-master the recommended file becomes the master and every record
of the other files whose key it lacks is folded in, best file first. The
master replaces the living file (after a backup) unless --output names
another destination.`,
		Example: `  livingset compare --type striking
  livingset compare --type profile old/fighter_profiles.csv fighter_profiles_latest.csv
  livingset compare --type ground --pattern 'archive/ground_*.csv' -o json
  livingset compare --type striking --create-master
  livingset compare --type profile --create-master --output master.csv`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Execute(cmd, app, flags, args)
		},
	}

	cmd.Flags().StringVar(&flags.Type, "type", "", "Data type of the candidate files (required)")
	cmd.Flags().StringVar(&flags.Pattern, "pattern", "", "Glob of candidate files, relative to the data directory")
	cmd.Flags().BoolVar(&flags.CreateMaster, "create-master", false, "Build a master dataset from the ranked files")
	cmd.Flags().StringVar(&flags.Output, "output", "", "Write the master here instead of the living file")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.RegisterFlagCompletionFunc("type", cmdutil.CompleteTypes)

	return cmd
}

// Execute runs the comparison and prints the ranking.
func Execute(cmd *cobra.Command, app application.Application, flags *Flags, args []string) error {
	dt, err := dataset.ParseType(flags.Type)
	if err != nil {
		return err
	}
	m, err := app.Merger()
	if err != nil {
		return err
	}

	if flags.Output != "" && !flags.CreateMaster {
		return errors.NewConfigError("compare", "--output requires --create-master", nil)
	}

	ctx := cmd.Context()
	paths, err := candidates(ctx, m, dt, flags.Pattern, args)
	if err != nil {
		return err
	}

	result, err := m.Compare(ctx, dt, paths)
	if err != nil {
		return err
	}

	var master *livingset.MasterResult
	if flags.CreateMaster {
		if master, err = m.Master(ctx, dt, paths, flags.Output); err != nil {
			return err
		}
	}

	format := output.DetectFormat(app.OutputFormat())
	var raw any = result
	if master != nil {
		raw = Report{Comparison: result, Master: master}
	}
	if err := output.Render(cmd.OutOrStdout(), format, raw, func() output.Data { return table(result) }); err != nil {
		return err
	}
	if format == output.FormatTable {
		printFooter(cmd, result)
		if master != nil {
			printMaster(cmd, master)
		}
	}
	return nil
}

// candidates returns the files to rank: args, the matches of pattern, or by
// default every <stem>*.csv file that is neither quarantine nor a dated backup.
func candidates(ctx context.Context, m livingset.Merger, dt dataset.DataType, pattern string, args []string) ([]string, error) {
	if len(args) > 0 {
		if pattern != "" {
			return nil, errors.NewConfigError("compare", "give files or --pattern, not both", nil)
		}
		return args, nil
	}

	paths, err := m.Layout().Paths(dt)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(paths.Living)
	defaultPattern := pattern == ""
	if defaultPattern {
		pattern = paths.Stem + "*" + constants.CSVExtension
	}
	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(dir, pattern)
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.NewConfigError("compare", fmt.Sprintf("invalid pattern %q", pattern), err)
	}
	if defaultPattern {
		if matches, err = withoutDerived(ctx, m, dt, matches); err != nil {
			return nil, err
		}
	}
	if len(matches) == 0 {
		return nil, errors.NewNotFoundError("files matching", pattern)
	}
	return matches, nil
}

// withoutDerived drops quarantine files and dated backups, which only repeat
// rows of the files they came from.
func withoutDerived(ctx context.Context, m livingset.Merger, dt dataset.DataType, matches []string) ([]string, error) {
	backups, err := m.Backups(ctx, dt)
	if err != nil {
		return nil, err
	}
	derived := make(map[string]bool, len(backups))
	for _, h := range backups {
		derived[h.Path] = true
	}

	kept := matches[:0]
	for _, path := range matches {
		if derived[path] || strings.Contains(filepath.Base(path), constants.QuarantineSuffix) {
			continue
		}
		kept = append(kept, path)
	}
	return kept, nil
}

func table(result *livingset.CompareResult) output.Data {
	data := output.Data{
		Headers: output.Headers("", "file", "identities", "columns", "records", "rejected", "missing", "score"),
		ColumnAlignment: []output.Align{
			output.AlignCenter, output.AlignLeft,
			output.AlignRight, output.AlignRight, output.AlignRight, output.AlignRight, output.AlignRight, output.AlignRight,
		},
	}
	for _, f := range result.Files {
		mark := ""
		if f.Path == result.Recommended {
			mark = emoji.Success
		}
		data.Rows = append(data.Rows, []string{
			mark,
			filepath.Base(f.Path),
			strconv.Itoa(f.Identities),
			strconv.Itoa(f.Columns),
			strconv.Itoa(f.Records),
			strconv.Itoa(f.Rejected),
			strconv.Itoa(f.Missing),
			strconv.FormatInt(f.Score, 10),
		})
	}
	return data
}

func printFooter(cmd *cobra.Command, result *livingset.CompareResult) {
	w := cmd.OutOrStdout()
	for _, s := range result.Skipped {
		fmt.Fprintf(w, "%s skipped %s: %s\n", emoji.Skipped, filepath.Base(s.Path), s.Reason)
	}
	if best, ok := result.Best(); ok {
		fmt.Fprintf(w, "\n%s Recommended master: %s (%d of %d identities)\n",
			emoji.Success, best.Path, best.Identities, result.Identities)
		if len(best.MissingSample) > 0 {
			fmt.Fprintf(w, "%s Missing from it: %v\n", emoji.Warning, best.MissingSample)
		}
	}
}

func printMaster(cmd *cobra.Command, master *livingset.MasterResult) {
	w := cmd.OutOrStdout()
	for _, f := range master.Folded {
		fmt.Fprintf(w, "%s folded %s: %d records added\n", emoji.Info, filepath.Base(f.Path), f.Added)
	}
	if master.Backup.Created {
		fmt.Fprintf(w, "%s Backed up living file to %s\n", emoji.Info, master.Backup.Path)
	}
	fmt.Fprintf(w, "%s Wrote master with %d records to %s\n", emoji.Success, master.Records, master.Output)
}
