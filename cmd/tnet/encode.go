package main

import (
	"fmt"
	"log/slog"

	"github.com/zoobzio/tnetstring"
)

// EncodeCLI converts a foreign document to a tnetstring.
type EncodeCLI struct {
	From string `help:"Input format" short:"f" enum:"json,yaml,msgpack,bson" default:"json"`
	File string `arg:"" optional:"" help:"Input file (default stdin)"`
}

func (e *EncodeCLI) Run(logger *slog.Logger, s *streams) error {
	t, err := transcoderFor(e.From)
	if err != nil {
		return err
	}

	data, err := s.read(e.File)
	if err != nil {
		return err
	}

	out, err := tnetstring.Import(t, data)
	if err != nil {
		return err
	}
	logger.Debug("encoded document", "from", t.ContentType(), "in", len(data), "out", len(out))

	if _, err := s.out.Write(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
