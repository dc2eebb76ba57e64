package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"

	mfdata "github.com/goliatone/go-mfdata"
	"github.com/goliatone/go-mfdata/internal/hydrate"
)

func fmtMain(cfg *FmtConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Fmt.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("%w: fmt requires a package and at most one file, got %v", cli.ErrUsage, args)
	}
	path := ""
	if len(args) == 2 {
		path = args[1]
	}
	if cfg.Write && (path == "" || path == "-") {
		return fmt.Errorf("%w: -w needs a file argument", cli.ErrUsage)
	}

	var values mfdata.Values
	if cfg.Values != "" {
		if values, err = readValues(cfg.Values); err != nil {
			return err
		}
	}
	var src io.Reader
	if path != "" {
		in, done, err := openInput(path)
		if err != nil {
			return err
		}
		defer done()
		src = in
	}

	var out bytes.Buffer
	if err := formatPackage(&out, args[0], src, values, cfg.Settings.options(cfg.Log)...); err != nil {
		if path != "" {
			return fmt.Errorf("%s: %w", path, err)
		}
		return err
	}
	if cfg.Write {
		return os.WriteFile(path, out.Bytes(), 0o644)
	}
	_, err = cc.Out.Write(out.Bytes())
	return err
}

// readValues decodes a values file. Keys are lowercased so files may use
// the uppercase names of the package file.
func readValues(path string) (mfdata.Values, error) {
	dec := hydrate.NewDecoder(hydrate.WithPreHook[mfdata.Values](hydrate.LowerKeys))
	return dec.DecodeFile(hydrate.Context{Source: path}, path)
}

// formatPackage builds a package of type name, loads src when it is not
// nil, applies values and renders the result to w.
func formatPackage(w io.Writer, name string, src io.Reader, values mfdata.Values, opts ...mfdata.Option) error {
	pkg, err := mfdata.NewEmbeddedPackage(name, opts...)
	if err != nil {
		return err
	}
	if src != nil {
		if err := pkg.Load(src); err != nil {
			return err
		}
	}
	if err := pkg.Apply(values); err != nil {
		return err
	}
	return pkg.Write(w)
}
