package cli

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"github.com/devtoolbox/jwtinspect"
)

// Version is reported by --version.
var Version = "dev"

// Cli provides CLI context to run commands
type Cli struct {
	Version kong.VersionFlag `name:"version" help:"Print version information and quit"`

	Timeout  int    `help:"HTTP timeout in seconds" default:"30" env:"JWTINSPECT_TIMEOUT"`
	LogLevel string `help:"log level: debug, info, warn or error" default:"error" env:"JWTINSPECT_LOG_LEVEL" enum:"debug,info,warn,error"`

	// stdin is the source to read from, typically set to os.Stdin
	stdin io.Reader
	// output is the destination for all output from the command, typically set to os.Stdout
	output io.Writer
	// errOutput is the destinaton for errors.
	// If not set, errors will be written to os.StdError
	errOutput io.Writer

	ctx context.Context
	log *logrus.Logger
}

// Context for requests
func (c *Cli) Context() context.Context {
	if c.ctx == nil {
		c.ctx = context.Background()
	}
	return c.ctx
}

// WithContext sets the context commands run with.
func (c *Cli) WithContext(ctx context.Context) *Cli {
	c.ctx = ctx
	return c
}

// Reader is the source to read from, typically set to os.Stdin
func (c *Cli) Reader() io.Reader {
	if c.stdin != nil {
		return c.stdin
	}
	return os.Stdin
}

// WithReader allows to specify a custom reader
func (c *Cli) WithReader(reader io.Reader) *Cli {
	c.stdin = reader
	return c
}

// Writer returns a writer for control output
func (c *Cli) Writer() io.Writer {
	if c.output != nil {
		return c.output
	}
	return os.Stdout
}

// WithWriter allows to specify a custom writer
func (c *Cli) WithWriter(out io.Writer) *Cli {
	c.output = out
	return c
}

// ErrWriter returns a writer for control output
func (c *Cli) ErrWriter() io.Writer {
	if c.errOutput != nil {
		return c.errOutput
	}
	return os.Stderr
}

// WithErrWriter allows to specify a custom error writer
func (c *Cli) WithErrWriter(out io.Writer) *Cli {
	c.errOutput = out
	return c
}

// AfterApply hook configures logging
func (c *Cli) AfterApply(_ *kong.Kong, _ kong.Vars) error {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	c.log = logrus.New()
	c.log.SetOutput(c.ErrWriter())
	c.log.SetLevel(level)
	return nil
}

// Logger returns the logger commands and libraries log through.
func (c *Cli) Logger() jwtinspect.Logger {
	if c.log == nil {
		c.log = logrus.New()
		c.log.SetOutput(io.Discard)
	}
	return jwtinspect.NewLogrusLogger(c.log)
}

// HTTPClient returns the client used to fetch keys.
func (c *Cli) HTTPClient() *http.Client {
	timeout := time.Duration(c.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// ReadFile reads from stdin if the file is "-"
func (c *Cli) ReadFile(filename string) ([]byte, error) {
	if filename == "" {
		return nil, errors.New("empty file name")
	}
	if filename == "-" {
		return io.ReadAll(c.Reader())
	}
	return os.ReadFile(filename)
}

// readArg returns value, or the trimmed content of stdin when value is "-".
func (c *Cli) readArg(value string) (string, error) {
	if value != "-" {
		return value, nil
	}
	b, err := io.ReadAll(c.Reader())
	if err != nil {
		return "", errors.Wrap(err, "unable to read stdin")
	}
	return strings.TrimSpace(string(b)), nil
}
