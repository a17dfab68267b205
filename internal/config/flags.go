package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"po-extractor/internal/logging"
	"po-extractor/internal/models"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override configuration
const EnvPrefix = "POX"

// Options are the run-mode settings that never live in the YAML file
type Options struct {
	ConfigPath string
	Serve      bool
	User       string
	From       string
	To         string
}

// LoadFromFlags parses command line flags, the optional .env file and POX_*
// environment variables on top of the YAML configuration. The mailbox
// credential is deliberately not accepted from any of these sources.
func LoadFromFlags(args []string) (*models.Config, *Options, error) {
	flags := newFlagSet()
	if err := flags.Parse(args); err != nil {
		return nil, nil, err
	}

	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("error reading .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, nil, err
	}

	opts := &Options{
		ConfigPath: v.GetString("config"),
		Serve:      v.GetBool("serve"),
		User:       v.GetString("user"),
		From:       v.GetString("from"),
		To:         v.GetString("to"),
	}

	cfg, err := Load(opts.ConfigPath)
	if err != nil {
		// A missing default config file just means "use defaults"
		if !errors.Is(err, fs.ErrNotExist) || v.IsSet("config") {
			return nil, nil, fmt.Errorf("error reading configuration file: %w", err)
		}
		logging.Log.Warnf("No %s found, using defaults", opts.ConfigPath)
		cfg = Default()
	}

	ApplyOverrides(cfg, v)

	if err := Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, opts, nil
}

// ApplyOverrides copies every explicitly set flag or environment value into cfg
func ApplyOverrides(cfg *models.Config, v *viper.Viper) {
	if v.IsSet("imap") {
		cfg.Email.Imap = v.GetString("imap")
	}
	if v.IsSet("mailbox") {
		cfg.Email.MailBox = v.GetString("mailbox")
	}
	if v.IsSet("timeout") {
		cfg.Email.Timeout = v.GetDuration("timeout")
	}
	if v.IsSet("strategy") {
		cfg.Extraction.Strategy = v.GetString("strategy")
	}
	if v.IsSet("policy") {
		cfg.Selection.Policy = v.GetString("policy")
	}
	if v.IsSet("keyword") {
		cfg.Selection.Keyword = v.GetString("keyword")
	}
	if v.IsSet("phrase") {
		cfg.Selection.Phrase = v.GetString("phrase")
	}
	if v.IsSet("out") {
		cfg.Output.File = v.GetString("out")
	}
	if v.IsSet("listen") {
		cfg.Server.Listen = v.GetString("listen")
	}
	if v.IsSet("loglevel") {
		cfg.LogLevel = v.GetString("loglevel")
	}
}

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("po-extractor", pflag.ContinueOnError)

	flags.String("config", DefaultConfigFile, "Path to the YAML configuration file")
	flags.Bool("serve", false, "Serve the extraction form on server.listen instead of running once")
	flags.String("user", "", "Mailbox address; the app password is prompted for")
	flags.String("from", "", "First day of the range (YYYY-MM-DD)")
	flags.String("to", "", "Last day of the range, inclusive (YYYY-MM-DD)")

	flags.String("imap", "", "IMAP server host:port")
	flags.String("mailbox", "", "Mailbox folder to search")
	flags.Duration("timeout", 0, "Timeout of each IMAP round-trip")
	flags.String("strategy", "", "Extraction strategy: keyword or anchored")
	flags.String("policy", "", "Selection policy: body-keyword or filename-phrase")
	flags.String("keyword", "", "Body keyword used by the body-keyword policy")
	flags.String("phrase", "", "Filename phrase used by the filename-phrase policy")
	flags.String("out", "", "Spreadsheet file to write")
	flags.String("listen", "", "Listen address of the browser form (--serve)")
	flags.String("loglevel", "", "Log level (debug, info, warn, error)")

	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nExtracts purchase order fields from PDF attachments into a spreadsheet\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment variables use the %s_ prefix, e.g. %s_IMAP, %s_STRATEGY.\n",
			EnvPrefix, EnvPrefix, EnvPrefix)
	}

	return flags
}
