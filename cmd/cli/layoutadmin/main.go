package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/goccy/go-json"
	flags "github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/samuel/go-metrics/metrics"
	"github.com/sprucehealth/layoutadmin"
	"github.com/sprucehealth/layoutadmin/layout"
	"github.com/sprucehealth/layoutadmin/libs/errors"
	"github.com/sprucehealth/layoutadmin/libs/golog"
	"github.com/sprucehealth/layoutadmin/libs/storage"
	"github.com/sprucehealth/layoutadmin/saml"
)

const defaultConfigPath = "~/.layoutadmin.conf"

type archiveConfig struct {
	Local          string `long:"local" description:"Directory to archive published layouts in" toml:"local"`
	S3Bucket       string `long:"s3_bucket" description:"S3 bucket to archive published layouts in" toml:"s3_bucket"`
	S3Prefix       string `long:"s3_prefix" description:"Key prefix inside the S3 bucket" toml:"s3_prefix"`
	S3Region       string `long:"s3_region" description:"AWS region of the S3 bucket" toml:"s3_region"`
	MinIOEndpoint  string `long:"minio_endpoint" description:"host:port of an S3 compatible server" toml:"minio_endpoint"`
	MinIOAccessKey string `long:"minio_access_key" env:"LAYOUTADMIN_MINIO_ACCESS_KEY" toml:"minio_access_key"`
	MinIOSecretKey string `long:"minio_secret_key" env:"LAYOUTADMIN_MINIO_SECRET_KEY" toml:"minio_secret_key"`
	MinIOBucket    string `long:"minio_bucket" toml:"minio_bucket"`
	MinIOPrefix    string `long:"minio_prefix" toml:"minio_prefix"`
	MinIOSecure    bool   `long:"minio_secure" description:"Use TLS for the MinIO endpoint" toml:"minio_secure"`
}

type config struct {
	ConfigPath        string        `short:"c" long:"config" description:"Path to config file" env:"LAYOUTADMIN_CONFIG" toml:"-"`
	URL               string        `long:"url" description:"Base URL of the admin API" env:"LAYOUTADMIN_URL" toml:"url"`
	Token             string        `long:"token" description:"Admin API bearer token" env:"LAYOUTADMIN_TOKEN" toml:"token"`
	Timeout           time.Duration `long:"timeout" description:"HTTP request timeout" toml:"timeout"`
	RequestsPerSecond float64       `long:"rps" description:"Maximum admin API requests per second" toml:"requests_per_second"`
	LogLevel          string        `long:"log_level" description:"Log level (debug, info, warning, error)" toml:"log_level"`
	LogJSON           bool          `long:"log-json" description:"Log JSON lines" toml:"log_json"`
	Archive           archiveConfig `group:"Archive" namespace:"archive" toml:"archive"`

	ctx     context.Context
	stdin   io.Reader
	stdout  io.Writer
	log     golog.Logger
	metrics metrics.Registry
}

func main() {
	// A missing .env file is fine
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	cnf := &config{
		ctx:     ctx,
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		metrics: metrics.NewRegistry(),
	}
	if err := cnf.loadFile(configPathFromArgs(os.Args[1:])); err != nil {
		golog.Fatalf("%s", err)
	}
	_, err := newParser(cnf).Parse()
	stop()
	if err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

func newParser(cnf *config) *flags.Parser {
	parser := flags.NewParser(cnf, flags.Default)
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if cmd == nil {
			return nil
		}
		if err := cnf.setupLogging(); err != nil {
			return err
		}
		return cmd.Execute(args)
	}
	for _, c := range []struct {
		name, short, long string
		data              interface{}
	}{
		{"transform", "Transform a template into an intake layout", "Prints the intake layout of a template. Questions are versioned only with --commit.", &transformCmd{cnf: cnf}},
		{"review", "Generate the review of a template", "", &reviewCmd{cnf: cnf}},
		{"validate", "Check a template for errors", "", &validateCmd{cnf: cnf}},
		{"publish", "Publish a template as the next layout version of a SKU", "", &publishCmd{cnf: cnf}},
		{"versions", "List published layout versions", "", &versionsCmd{cnf: cnf}},
		{"expand", "Turn a published intake layout back into a template", "", &expandCmd{cnf: cnf}},
	} {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			golog.Fatalf("Failed to add command %s: %s", c.name, err)
		}
	}
	return parser
}

// configPathFromArgs finds the config file before the flags are parsed so
// that flags override its values.
func configPathFromArgs(args []string) string {
	for i, a := range args {
		switch {
		case (a == "-c" || a == "--config") && i+1 < len(args):
			return args[i+1]
		case strings.HasPrefix(a, "--config="):
			return strings.TrimPrefix(a, "--config=")
		}
	}
	if p := os.Getenv("LAYOUTADMIN_CONFIG"); p != "" {
		return p
	}
	return defaultConfigPath
}

func (c *config) loadFile(path string) error {
	path, err := interpolatePath(path)
	if err != nil {
		return err
	}
	if _, err := toml.DecodeFile(path, c); err != nil {
		if os.IsNotExist(errors.Cause(err)) || os.IsNotExist(err) {
			return nil
		}
		return errors.Errorf("Failed to parse %s: %s", path, err)
	}
	return nil
}

func (c *config) setupLogging() error {
	if c.log != nil {
		return nil
	}
	lvl := golog.INFO
	if c.LogLevel != "" {
		var err error
		if lvl, err = golog.ParseLevel(c.LogLevel); err != nil {
			return err
		}
	}
	h := golog.DefaultHandler
	if c.LogJSON {
		h = golog.ZapJSONHandler(os.Stderr)
	}
	c.log = golog.New(h, lvl)
	golog.SetDefault(c.log)
	return nil
}

func (c *config) client() (*layoutadmin.Client, error) {
	if c.metrics == nil {
		c.metrics = metrics.NewRegistry()
	}
	if c.URL == "" {
		return nil, errors.New("admin API URL required (--url or LAYOUTADMIN_URL)")
	}
	return layoutadmin.NewClient(layoutadmin.ClientConfig{
		BaseURL:           c.URL,
		BearerToken:       c.Token,
		Timeout:           c.Timeout,
		RequestsPerSecond: c.RequestsPerSecond,
		Log:               c.log,
		MetricsRegistry:   c.metrics.Scope("client"),
	})
}

// archive returns nil when no archive is configured.
func (c *config) archive() (*layout.Archive, error) {
	a := c.Archive
	switch {
	case a.Local != "":
		p, err := interpolatePath(a.Local)
		if err != nil {
			return nil, err
		}
		store, err := storage.NewLocalStore(p)
		if err != nil {
			return nil, errors.Trace(err)
		}
		return layout.NewArchive(store), nil
	case a.S3Bucket != "":
		region := a.S3Region
		if region == "" {
			region = "us-east-1"
		}
		sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
		if err != nil {
			return nil, errors.Trace(err)
		}
		return layout.NewArchive(storage.NewS3(sess, a.S3Bucket, a.S3Prefix)), nil
	case a.MinIOEndpoint != "":
		store, err := storage.NewMinIO(&storage.MinIOConfig{
			Endpoint:  a.MinIOEndpoint,
			AccessKey: a.MinIOAccessKey,
			SecretKey: a.MinIOSecretKey,
			Bucket:    a.MinIOBucket,
			Prefix:    a.MinIOPrefix,
			Secure:    a.MinIOSecure,
		})
		if err != nil {
			return nil, errors.Trace(err)
		}
		return layout.NewArchive(store), nil
	}
	return nil, nil
}

// readTemplate reads a template from path, or from stdin when path is "-".
func (c *config) readTemplate(path string) (*saml.Intake, []byte, error) {
	var src []byte
	var err error
	if path == "-" {
		src, err = io.ReadAll(c.stdin)
	} else {
		src, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	in, err := saml.Decode(src)
	if err != nil {
		return nil, nil, errors.Annotatef(err, "decoding %s", path)
	}
	return in, src, nil
}

func interpolatePath(p string) (string, error) {
	if p == "" {
		return "", errors.New("empty path")
	}
	if p[0] == '~' {
		p = os.Getenv("HOME") + p[1:]
	}
	return filepath.Abs(p)
}

func (c *config) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.stdout, format, args...)
}

func (c *config) printJSON(v interface{}) error {
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	return errors.Trace(enc.Encode(v))
}
