package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/scott-cotton/cli"
	"gopkg.in/yaml.v3"

	mfdata "github.com/goliatone/go-mfdata"
	"github.com/goliatone/go-mfdata/schema/openapi"
)

func schemaMain(cfg *SchemaConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Schema.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: schema requires one package, got %v", cli.ErrUsage, args)
	}
	return printSchema(cc.Out, args[0], mfdata.SchemaFormat(cfg.Format), cfg.YAML)
}

// printSchema writes the schema of the bundled package name in format.
func printSchema(w io.Writer, name string, format mfdata.SchemaFormat, asYAML bool) error {
	var opts []mfdata.Option
	switch format {
	case mfdata.SchemaFormatDescriptors, "":
	case mfdata.SchemaFormatOpenAPI:
		opts = append(opts, openapi.Option())
	default:
		return fmt.Errorf("%w: unknown schema format %q", cli.ErrUsage, format)
	}
	pkg, err := mfdata.NewEmbeddedPackage(name, opts...)
	if err != nil {
		return err
	}
	doc, err := pkg.Schema()
	if err != nil {
		return err
	}
	if asYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc.Document); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc.Document)
}
