package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/zoobzio/tnetstring"
)

// thrashSample is decoded and re-encoded on every iteration unless a file is given.
const thrashSample = "51:5:hello,39:11:12345678901#4:this,4:true!0:~4:\x00\x00\x00\x00,]}"

// ThrashCLI times a decode and encode loop.
type ThrashCLI struct {
	Iterations int    `help:"Number of decode and encode cycles" short:"n" default:"1048576"`
	File       string `arg:"" optional:"" help:"Tnetstring to thrash (default built-in sample)"`
}

func (c *ThrashCLI) Run(logger *slog.Logger, s *streams) error {
	if c.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", c.Iterations)
	}

	sample := []byte(thrashSample)
	if c.File != "" {
		data, err := s.read(c.File)
		if err != nil {
			return err
		}
		sample = data
	}

	// Fail fast on bad input instead of timing errors.
	if _, err := tnetstring.DecodeOne(sample); err != nil {
		return err
	}

	logger.Info("thrashing", "iterations", c.Iterations, "size", len(sample))
	start := time.Now()
	for range c.Iterations {
		v, err := tnetstring.DecodeOne(sample)
		if err != nil {
			return err
		}
		if _, err := tnetstring.Encode(v); err != nil {
			return err
		}
	}
	elapsed := time.Since(start)
	per := elapsed / time.Duration(c.Iterations)

	logger.Debug("thrash complete", "elapsed", elapsed, "per", per)
	_, err := fmt.Fprintf(s.out, "It took %s to perform %d thrashes. That's %s per thrash!\n", elapsed, c.Iterations, per)
	return err
}
