package main

import (
	"fmt"
	"io"

	"github.com/scott-cotton/cli"

	"github.com/goliatone/go-mfdata/packages/pcgn"
)

func pcgnMain(cfg *PCGNConfig, cc *cli.Context, args []string) error {
	args, err := cfg.PCGN.Parse(cc, args)
	if err != nil {
		return err
	}
	layers := make([]pcgn.Settings, 0, len(args))
	for _, path := range args {
		s, err := pcgn.DecodeFile(path)
		if err != nil {
			return err
		}
		layers = append(layers, s)
	}
	cfg.Log.V(1).Info("resolving pcgn settings", "layers", len(layers))
	return writePCGN(cc.Out, layers, cfg.Units)
}

// writePCGN resolves layers, strongest first, and writes either the solver
// file or its extra units.
func writePCGN(w io.Writer, layers []pcgn.Settings, units bool) error {
	s, err := pcgn.Resolve(layers...)
	if err != nil {
		return err
	}
	if !units {
		return s.Write(w)
	}
	for _, unit := range s.Units() {
		if _, err := fmt.Fprintf(w, "%s %d\n", unit.Extension, unit.Number); err != nil {
			return err
		}
	}
	return nil
}
