package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"complaintreport/internal/config"
	apperrors "complaintreport/internal/errors"
	"complaintreport/internal/exporter"
	"complaintreport/internal/infrastructure"
	"complaintreport/internal/services"
	"complaintreport/internal/validation"
	"complaintreport/pkg/contracts"
	"complaintreport/pkg/contracts/domain"
)

// Exit codes
const (
	exitOK      = 0
	exitFailure = 1
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// options are the parsed command line flags
type options struct {
	complaints string
	priceList  string
	brand      string
	outDir     string
	format     string
	logLevel   string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.complaints, "complaints", "", "complaint log workbook (Data for Working.xlsx)")
	fs.StringVar(&opts.priceList, "mop", "", "MOP list workbook (defaults to REPORT_PATHS_REFERENCE_FILE)")
	fs.StringVar(&opts.brand, "brand", domain.AllBrands, "brand to report on")
	fs.StringVar(&opts.outDir, "out", ".", "output directory for the report file")
	fs.StringVar(&opts.format, "format", string(services.FormatXLSX), "report file format: xlsx or csv")
	fs.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "%s\n\nUsage: report -complaints <xlsx> [-mop <xlsx>] [-brand All] [-out dir] [-format xlsx|csv]\n\n", contracts.GetVersionString())
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opts.format = strings.ToLower(strings.TrimSpace(opts.format))
	switch services.ExportFormat(opts.format) {
	case services.FormatXLSX, services.FormatCSV:
	default:
		return nil, fmt.Errorf("%w: %q", services.ErrUnsupportedFormat, opts.format)
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, "Error:", err)
			return exitFailure
		}
		return exitOK
	}

	logger := infrastructure.NewLogger(stderr, opts.logLevel)
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", slog.String("error", err.Error()))
		return exitFailure
	}

	ctx = infrastructure.EnsureTraceID(ctx)
	files := validation.NewFileValidator(logger)
	in, closeInputs, err := openInputs(files, opts)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to open input workbook", slog.String("error", err.Error()))
		return exitFailure
	}
	defer closeInputs()

	svc := services.NewReportService(cfg.Paths, logger)

	result, err := svc.Run(ctx, in)
	if err != nil {
		logger.ErrorContext(ctx, failureMessage(err), slog.String("error", err.Error()))
		return exitFailure
	}

	if result.NoData {
		logger.InfoContext(ctx, "No data available for the selected brand.",
			slog.String("brand", result.Brand),
			slog.Any("brands", result.Brands))
		fmt.Fprintln(stdout, "No data available for the selected brand.")
		return exitOK
	}

	if err := printReport(stdout, result.Report); err != nil {
		logger.ErrorContext(ctx, "Failed to print report", slog.String("error", err.Error()))
		return exitFailure
	}

	exported, err := svc.Serialize(ctx, result.Report, services.ExportFormat(opts.format))
	if err != nil {
		logger.ErrorContext(ctx, "Failed to build the report file", slog.String("error", err.Error()))
		return exitFailure
	}

	path, err := writeReport(files, opts.outDir, exported)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to write the report file", slog.String("error", err.Error()))
		return exitFailure
	}

	logger.InfoContext(ctx, "Report written",
		slog.String("path", path),
		slog.Int("bytes", exported.Data.Len()))
	fmt.Fprintf(stdout, "\nReport written to %s\n", path)
	return exitOK
}

// openInputs opens the workbooks named by opts. A missing -complaints flag
// leaves the reader nil so the service reports the missing upload.
func openInputs(files *validation.FileValidator, opts *options) (services.ReportInput, func(), error) {
	in := services.ReportInput{Brand: opts.brand}
	var opened []*os.File
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	open := func(field, path string) (*os.File, error) {
		if err := files.ValidateWorkbookFile(path); err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		opened = append(opened, f)
		return f, nil
	}

	if opts.complaints != "" {
		f, err := open(services.FieldComplaints, opts.complaints)
		if err != nil {
			return in, closeAll, err
		}
		in.Complaints = f
	}

	if opts.priceList != "" {
		f, err := open(services.FieldPriceList, opts.priceList)
		if err != nil {
			return in, closeAll, err
		}
		in.PriceList = f
	}

	return in, closeAll, nil
}

// failureMessage is the user-facing line logged for a failed run.
func failureMessage(err error) string {
	var missing *services.MissingUploadError
	var reference *services.ReferenceFileError
	switch {
	case errors.As(err, &missing):
		return fmt.Sprintf("Missing input workbook: -%s is required", missing.Field)
	case errors.As(err, &reference):
		return "MOP reference file not found: " + reference.Path
	case apperrors.IsType(err, apperrors.ErrTypeParsing):
		return "Error reading files"
	default:
		return "Report run failed"
	}
}

func printReport(w io.Writer, report *domain.BranchReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Brand: %s\n\n", report.Brand)
	fmt.Fprintln(tw, strings.Join(domain.ReportHeaders(), "\t"))
	for _, row := range exporter.DisplayRows(report.Rows) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", row.Branch, row.SumOfMOP, row.AverageOfDays, row.CountOfComplaintMode)
	}
	return tw.Flush()
}

func writeReport(files *validation.FileValidator, dir string, exported *services.ExportResult) (string, error) {
	if err := files.ValidateOutputDirectory(dir); err != nil {
		return "", err
	}
	path := filepath.Join(dir, filepath.Base(exported.Filename))
	if err := os.WriteFile(path, exported.Data.Bytes(), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
