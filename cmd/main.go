package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"po-extractor/internal/aggregate"
	"po-extractor/internal/app"
	"po-extractor/internal/config"
	"po-extractor/internal/export"
	"po-extractor/internal/extract"
	imapclient "po-extractor/internal/imap"
	"po-extractor/internal/logging"
	"po-extractor/internal/models"
	"po-extractor/internal/pdfdoc"
	"po-extractor/internal/report"
	"po-extractor/internal/selection"
	"po-extractor/internal/tui"
	"po-extractor/internal/web"

	"golang.org/x/term"
)

const (
	previewRows = 20
	formLogFile = "po-extractor.log"
)

func main() {
	cfg, opts, err := config.LoadFromFlags(os.Args[1:])
	if err != nil {
		logging.Log.Fatalf("Error reading configuration: %v", err)
	}

	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		logging.Log.Fatalf("Invalid log level: %v", err)
	}

	extractor, err := newExtractor(cfg)
	if err != nil {
		logging.Log.Fatalf("Error building extractor: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case opts.Serve:
		err = serve(ctx, cfg, extractor)
	case opts.User != "":
		err = runOnce(ctx, cfg, opts, extractor)
	default:
		err = runForm(ctx, cfg, extractor)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, report.RenderError(err))
		os.Exit(1)
	}
}

// newExtractor wires the selector, policy, strategy and document provider
func newExtractor(cfg *models.Config) (*app.Extractor, error) {
	policy, err := selection.New(cfg.Selection)
	if err != nil {
		return nil, err
	}

	strategy, err := extract.New(cfg.Extraction)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Email.Timeout
	newClient := func() imapclient.Client {
		return imapclient.NewStandardClient(timeout)
	}

	processor := aggregate.NewProcessor(cfg.Email, newClient, policy, strategy, pdfdoc.NewOpener(cfg.Extraction.Table))

	logging.Log.Infof("Using %s selection and %s extraction on %s/%s",
		policy.Name(), strategy.Name(), cfg.Email.Imap, cfg.Email.MailBox)

	return app.NewExtractor(processor, cfg.Email.RunTimeout), nil
}

func serve(ctx context.Context, cfg *models.Config, extractor *app.Extractor) error {
	server := web.NewServer(extractor, cfg.Output.Sheet, cfg.Output.File)
	return server.Serve(ctx, cfg.Server.Listen)
}

// runOnce takes the address and dates from flags and the app password from the terminal
func runOnce(ctx context.Context, cfg *models.Config, opts *config.Options, extractor *app.Extractor) error {
	r, err := dateRange(opts.From, opts.To, time.Now())
	if err != nil {
		return err
	}

	password, err := readPassword()
	if err != nil {
		return err
	}

	in := models.RunInput{Address: opts.User, Credential: password, Range: r}
	out, err := extractAndSave(ctx, cfg, extractor, in)
	if err != nil {
		return err
	}

	fmt.Println(out)
	return nil
}

func runForm(ctx context.Context, cfg *models.Config, extractor *app.Extractor) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("no terminal for the input form: use --user, or --serve")
	}

	// JSON log lines would corrupt the form
	logFile, err := os.OpenFile(formLogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("error opening %s: %w", formLogFile, err)
	}
	defer func() { _ = logFile.Close() }()
	logging.Log.SetOutput(logFile)
	defer logging.Log.SetOutput(os.Stdout)

	_, err = tui.Run(func(in models.RunInput) (string, error) {
		return extractAndSave(ctx, cfg, extractor, in)
	}, time.Now())
	return err
}

// extractAndSave runs one extraction, writes the workbook when there are
// rows and returns the rendered report
func extractAndSave(ctx context.Context, cfg *models.Config, extractor *app.Extractor, in models.RunInput) (string, error) {
	outcome, err := extractor.Extract(ctx, in)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(report.Render(outcome.Summary))

	if outcome.Summary.Empty() {
		return b.String(), nil
	}

	if err := export.WriteFile(cfg.Output.File, outcome.Rows, cfg.Output.Sheet); err != nil {
		return "", err
	}

	b.WriteString("\n\n")
	b.WriteString(report.Preview(outcome.Rows, previewRows))
	b.WriteString("\n")
	b.WriteString(report.RenderSaved(cfg.Output.File))

	return b.String(), nil
}

// dateRange parses --from/--to; either may be omitted to keep the default last thirty days
func dateRange(from, to string, now time.Time) (models.DateRange, error) {
	r := models.DefaultDateRange(now)

	if from != "" {
		d, err := time.ParseInLocation(tui.DateLayout, from, time.Local)
		if err != nil {
			return r, fmt.Errorf("invalid --from %q: %w", from, err)
		}
		r.From = d
	}
	if to != "" {
		d, err := time.ParseInLocation(tui.DateLayout, to, time.Local)
		if err != nil {
			return r, fmt.Errorf("invalid --to %q: %w", to, err)
		}
		r.To = d
	}

	r = models.NewDateRange(r.From, r.To)
	return r, r.Validate()
}

// readPassword reads without echo from a terminal, or the first line of piped stdin
func readPassword() (models.Secret, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "App password: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("error reading app password: %w", err)
		}
		return models.Secret(b), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("error reading app password from stdin: %w", err)
	}
	return models.Secret(strings.TrimRight(line, "\r\n")), nil
}
