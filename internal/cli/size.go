package cli

import (
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/dirtools/internal/foldersize"
)

// bytesPerKilobyte converts the --threshold value to bytes.
const bytesPerKilobyte = 1000

//nolint:gochecknoglobals // Config constant
var allowedOutputs = []string{"text", "json", "yaml"}

// sizeOptions holds the resolved flags of the size command.
type sizeOptions struct {
	Directory string
	Unit      string
	Exclude   string
	Threshold int64
	Gitignore bool
	Jobs      int
	Output    string
	Debug     bool
}

// sizeReport is the structured form of a size report.
type sizeReport struct {
	Root           string           `json:"root"            yaml:"root"`
	Unit           string           `json:"unit"            yaml:"unit"`
	ThresholdBytes int64            `json:"threshold_bytes" yaml:"threshold_bytes"`
	TotalBytes     int64            `json:"total_bytes"     yaml:"total_bytes"`
	FileCount      int64            `json:"file_count"      yaml:"file_count"`
	ErrorCount     int64            `json:"error_count"     yaml:"error_count"`
	Skipped        []string         `json:"skipped"         yaml:"skipped"`
	Directories    []foldersize.Row `json:"directories"     yaml:"directories"`
}

func newSizeCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "size [flags] [path]",
		Short: "Report the total size of every directory below a root",
		Long: heredoc.Docf(`
			size walks a directory tree and reports the accumulated size of every
			directory in it, largest first. A directory's size includes all files
			below it.

			Accepted units (case-insensitive):
			%s
			The threshold is given in kilobytes (1 kB = 1000 bytes); directories
			smaller than it are left out. The exclude pattern is a regular
			expression matched against file and directory names; a matching
			directory is skipped together with everything below it.
		`, unitTable()),
		Example: heredoc.Doc(`
			dirtools size -d ~/projects -u gib -t 100000
			dirtools size -e '^(\.git|node_modules)$' -o json
		`),
		Args: argsAtMost(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := sizeOptions{
				Directory: v.GetString("size.directory"),
				Unit:      v.GetString("size.unit"),
				Exclude:   v.GetString("size.exclude"),
				Threshold: v.GetInt64("size.threshold"),
				Gitignore: v.GetBool("size.gitignore"),
				Jobs:      v.GetInt("size.jobs"),
				Output:    strings.ToLower(v.GetString("size.output")),
				Debug:     v.GetBool("debug"),
			}

			if opts.Directory == "" && len(args) == 1 {
				opts.Directory = args[0]
			}

			return runSize(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false
	flags.StringP("directory", "d", "", "Directory to scan (default: current directory)")
	flags.StringP("unit", "u", foldersize.DefaultUnit, "Display unit")
	flags.StringP("exclude", "e", "", "Regex matched against names to exclude")
	flags.Int64P("threshold", "t", 0, "Minimum directory size in kilobytes")
	flags.Bool("gitignore", false, "Also exclude paths matched by the root's .gitignore")
	flags.IntP("jobs", "j", 0, "Number of walker goroutines (0=auto)")
	flags.StringP("output", "o", "text", fmt.Sprintf("Output format: one of %v", allowedOutputs))
	bindFlags(v, "size", flags)

	return cmd
}

func unitTable() string {
	var sb strings.Builder

	for _, u := range foldersize.Units {
		fmt.Fprintf(&sb, "  %-4s %s\n", u.Name, u.Description)
	}

	return sb.String()
}

// validate checks everything that can be checked without touching the filesystem.
func (o sizeOptions) validate() (*foldersize.Filter, foldersize.Unit, error) {
	if !slices.Contains(allowedOutputs, o.Output) {
		return nil, foldersize.Unit{}, fmt.Errorf("%w: output format %q must be one of %v",
			foldersize.ErrArgument, o.Output, allowedOutputs)
	}

	if o.Threshold < 0 {
		return nil, foldersize.Unit{}, fmt.Errorf("%w: threshold cannot be negative", foldersize.ErrArgument)
	}

	if o.Threshold > math.MaxInt64/bytesPerKilobyte {
		return nil, foldersize.Unit{}, fmt.Errorf("%w: threshold cannot exceed %d kB",
			foldersize.ErrArgument, int64(math.MaxInt64/bytesPerKilobyte))
	}

	if o.Jobs < 0 {
		return nil, foldersize.Unit{}, fmt.Errorf("%w: jobs cannot be negative", foldersize.ErrArgument)
	}

	filter, err := foldersize.NewFilter(o.Exclude)
	if err != nil {
		return nil, foldersize.Unit{}, err
	}

	unit, err := foldersize.ParseUnit(o.Unit)
	if err != nil {
		return nil, foldersize.Unit{}, err
	}

	return filter, unit, nil
}

func runSize(cmd *cobra.Command, opts sizeOptions) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	filter, unit, err := opts.validate()
	if err != nil {
		return err
	}

	if opts.Directory == "" {
		if opts.Directory, err = os.Getwd(); err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
	}

	root, err := foldersize.Resolve(opts.Directory)
	if err != nil {
		return err
	}

	if opts.Gitignore {
		if err := filter.LoadGitignore(root); err != nil {
			return err
		}
	}

	enableProgress := opts.Output == "text" && !opts.Debug && isTerminal(stderr)

	// Simple progress callback that prints directly to stderr
	var progressHook func(files, bytes int64)

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(stderr, "\033[?25l")
		defer fmt.Fprint(stderr, "\033[?25h")

		progressHook = func(files, bytes int64) {
			msg := printer.Sprintf("Scanning… %d files, %s",
				files, humanize.IBytes(uint64(bytes))) //nolint:gosec // Bytes is always positive
			fmt.Fprintf(stderr, "\r\033[2K%s\r", msg)
		}
	}

	index, err := foldersize.Aggregate(cmd.Context(), foldersize.Options{
		Path:   root,
		Filter: filter,
		Jobs:   opts.Jobs,
		Debug:  opts.Debug,
		Log:    stderr,
	}, progressHook)

	// Clear the status line
	if enableProgress {
		fmt.Fprint(stderr, "\r\033[2K\r")
	}

	if err != nil {
		return err
	}

	threshold := opts.Threshold * bytesPerKilobyte
	rows := foldersize.BuildReport(index, threshold, unit)

	switch opts.Output {
	case "json":
		err = PrintJSON(newSizeReport(index, unit, threshold, rows), stdout)
	case "yaml":
		err = PrintYAML(newSizeReport(index, unit, threshold, rows), stdout)
	default:
		err = PrintRows(rows, stdout, terminalWidth(stdout))
	}

	if err != nil {
		return err
	}

	reportSummary(stderr, index, len(rows))

	return nil
}

func newSizeReport(index *foldersize.Index, unit foldersize.Unit, threshold int64, rows []foldersize.Row) sizeReport {
	return sizeReport{
		Root:           index.Root,
		Unit:           unit.Name,
		ThresholdBytes: threshold,
		TotalBytes:     index.TotalBytes,
		FileCount:      index.FileCount,
		ErrorCount:     index.ErrorCount,
		Skipped:        index.Skipped,
		Directories:    rows,
	}
}

// reportSummary explains an incomplete scan and, on terminals, prints scan totals.
func reportSummary(w io.Writer, index *foldersize.Index, rows int) {
	if index.ErrorCount > 0 {
		printer.Fprintf(w, "warning: %d entries could not be read and were counted as 0 bytes\n", index.ErrorCount)
	}

	if isTerminal(w) {
		printer.Fprintf(w, "%d of %d directories shown, %d files, %s in %v\n",
			rows, len(index.Sizes), index.FileCount,
			humanize.IBytes(uint64(index.TotalBytes)), index.Elapsed) //nolint:gosec // Bytes is always positive
	}
}
