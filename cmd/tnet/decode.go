package main

import (
	"fmt"
	"log/slog"

	"github.com/zoobzio/tnetstring"
)

// DecodeCLI converts a tnetstring to a foreign document.
type DecodeCLI struct {
	To        string `help:"Output format" short:"t" enum:"json,yaml,msgpack,bson" default:"json"`
	MaxDepth  int    `help:"Maximum container nesting (0 for no limit)" name:"max-depth" default:"512"`
	MaxLength int    `help:"Maximum payload length in bytes (0 for no limit)" name:"max-length" default:"0"`
	File      string `arg:"" optional:"" help:"Input file (default stdin)"`
}

func (d *DecodeCLI) Run(logger *slog.Logger, s *streams) error {
	t, err := transcoderFor(d.To)
	if err != nil {
		return err
	}

	data, err := s.read(d.File)
	if err != nil {
		return err
	}

	dec := tnetstring.NewDecoder(tnetstring.MaxDepth(d.MaxDepth), tnetstring.MaxLength(d.MaxLength))
	v, err := dec.DecodeOne(data)
	if err != nil {
		return err
	}
	logger.Info("decoded tnetstring", "kind", v.Kind().String(), "size", len(data))

	out, err := t.FromValue(v)
	if err != nil {
		return fmt.Errorf("export %s: %w", t.ContentType(), err)
	}
	logger.Debug("rendered document", "to", t.ContentType(), "out", len(out))

	if _, err := s.out.Write(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
