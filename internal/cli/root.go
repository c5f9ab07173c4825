package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"sheetops/adapters/csvfile"
	"sheetops/adapters/excel"
	"sheetops/adapters/observe"
	"sheetops/app"
	"sheetops/internal/config"
	"sheetops/ports"
)

// options carries resolved settings shared by the subcommands. Flag values
// override environment configuration.
type options struct {
	cfg       *config.Config
	tableFile string
	sheetName string
}

func (o *options) tablePath() string {
	if o.tableFile != "" {
		return o.tableFile
	}
	return o.cfg.Data.TableFile
}

func (o *options) sheet() string {
	if o.sheetName != "" {
		return o.sheetName
	}
	return o.cfg.Data.SheetName
}

func (o *options) observer() ports.Observer {
	if o.cfg.Observe.LogOperations {
		return observe.NewLoggingObserver()
	}
	return nil
}

// openStore loads or creates the configured table.
func (o *options) openStore(ctx context.Context) (*app.TableStore, error) {
	codec := codecFor(o.tablePath(), o.sheet())
	return app.NewTableStore(ctx, codec, o.sheet(), o.observer())
}

// Execute runs the CLI against the loaded configuration.
func Execute(cfg *config.Config) error {
	return NewRootCmd(cfg).Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd(cfg *config.Config) *cobra.Command {
	opts := &options{cfg: cfg}

	root := &cobra.Command{
		Use:   "sheetops",
		Short: "Table command dispatch and lookup resolution engine",
		Long: `sheetops loads a spreadsheet-backed table, executes structured operation
envelopes against it, and reports each outcome as a binary reward plus
human-readable feedback.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addTableFlags(root.PersistentFlags(), opts)

	root.AddCommand(
		newExecCmd(opts),
		newPlaygroundCmd(opts),
		newServeCmd(opts),
		newScenariosCmd(opts),
		newSeedCmd(opts),
	)
	return root
}

// addTableFlags registers the store selection flags on a flag set.
func addTableFlags(flags *pflag.FlagSet, opts *options) {
	flags.StringVar(&opts.tableFile, "table", "", "backing table file (overrides TABLE_FILE)")
	flags.StringVar(&opts.sheetName, "sheet", "", "sheet name (overrides SHEET_NAME)")
}

// codecFor picks a codec by file extension: .csv gets the csv codec,
// everything else the xlsx codec.
func codecFor(path, sheet string) ports.TableCodec {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return csvfile.NewCodec(path)
	}
	return excel.NewCodecForSheet(path, sheet)
}
