// Command tnet converts documents between tnetstrings and other formats.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"
	"github.com/zoobzio/tnetstring"
	"github.com/zoobzio/tnetstring/bson"
	"github.com/zoobzio/tnetstring/json"
	"github.com/zoobzio/tnetstring/msgpack"
	"github.com/zoobzio/tnetstring/yaml"
)

// CLI is the root command.
type CLI struct {
	Verbose int  `help:"Log verbosity (-v info, -vv debug)" short:"v" type:"counter"`
	NoColor bool `help:"Disable colored log output" name:"no-color"`

	Encode EncodeCLI `cmd:"" help:"Convert a document to a tnetstring"`
	Decode DecodeCLI `cmd:"" help:"Convert a tnetstring to another format"`
	Thrash ThrashCLI `cmd:"" help:"Time repeated decode and encode of a tnetstring"`
}

// streams carries the process input and output so commands can be tested.
type streams struct {
	in  io.Reader
	out io.Writer
}

// read returns the contents of path, or of stdin when path is empty or "-".
func (s *streams) read(path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(s.in)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("tnet"),
		kong.Description("Convert between tnetstrings and JSON, YAML, MessagePack or BSON."),
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		return err
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, cli.Verbose, cli.NoColor)
	return kctx.Run(logger, &streams{in: stdin, out: stdout})
}

func newLogger(w io.Writer, verbosity int, noColor bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case verbosity == 1:
		level = slog.LevelInfo
	case verbosity >= 2:
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    noColor,
	}))
}

func transcoderFor(format string) (tnetstring.Transcoder, error) {
	switch format {
	case "json":
		return json.New(), nil
	case "yaml":
		return yaml.New(), nil
	case "msgpack":
		return msgpack.New(), nil
	case "bson":
		return bson.New(), nil
	}
	return nil, fmt.Errorf("unknown format %q", format)
}
