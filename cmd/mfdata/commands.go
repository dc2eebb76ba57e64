package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/scott-cotton/cli"
)

// MainConfig holds the global options shared by every subcommand.
type MainConfig struct {
	Config   string `cli:"name=config desc='config file (default ./mfdata.yaml)'"`
	Color    string `cli:"name=color desc='color output: auto, always or never'"`
	LogLevel string `cli:"name=log-level desc='log level: debug, info, warn or error'"`

	Settings Settings
	Log      logr.Logger
	flush    func()

	Main *cli.Command
}

type FmtConfig struct {
	*MainConfig
	Values string `cli:"name=values desc='YAML or JSON file of field values to apply'"`
	Write  bool   `cli:"name=w desc='write the result back to the input file'"`

	Fmt *cli.Command
}

type CheckConfig struct {
	*MainConfig
	Check *cli.Command
}

type EvalConfig struct {
	*MainConfig
	Engine string `cli:"name=engine desc='expression engine: expr, cel or js'"`
	Period int    `cli:"name=period desc='one-based stress period to evaluate against'"`

	Eval *cli.Command
}

type SchemaConfig struct {
	*MainConfig
	Format string `cli:"name=format desc='descriptors or openapi'"`
	YAML   bool   `cli:"name=yaml desc='print YAML instead of JSON'"`

	Schema *cli.Command
}

type PCGNConfig struct {
	*MainConfig
	Units bool `cli:"name=units desc='list the extra output units instead of writing the file'"`

	PCGN *cli.Command
}

func structOpts(cfg any) []*cli.Opt {
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return opts
}

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	return cli.NewCommandAt(&cfg.Main, "mfdata").
		WithSynopsis("mfdata [opts] command [opts]").
		WithDescription("mfdata reads, writes and inspects MODFLOW 6 package files.").
		WithOpts(structOpts(cfg)...).
		WithRun(func(cc *cli.Context, args []string) error {
			return mfdataMain(cfg, cc, args)
		}).
		WithSubs(
			FmtCommand(cfg),
			CheckCommand(cfg),
			EvalCommand(cfg),
			SchemaCommand(cfg),
			PCGNCommand(cfg))
}

func FmtCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &FmtConfig{MainConfig: mainCfg}
	cmd := cli.NewCommand("fmt").
		WithSynopsis("fmt [-values file] [-w] package [file]").
		WithDescription("Load a package file, apply values and print it in canonical form.").
		WithOpts(structOpts(cfg)...).
		WithRun(func(cc *cli.Context, args []string) error {
			return fmtMain(cfg, cc, args)
		})
	cfg.Fmt = cmd
	return cmd
}

func CheckCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CheckConfig{MainConfig: mainCfg}
	cmd := cli.NewCommand("check").
		WithSynopsis("check package file").
		WithDescription("Load a package file and diff it against its canonical rendering.").
		WithOpts(structOpts(cfg)...).
		WithRun(func(cc *cli.Context, args []string) error {
			return checkMain(cfg, cc, args)
		})
	cfg.Check = cmd
	return cmd
}

func EvalCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &EvalConfig{MainConfig: mainCfg, Engine: "expr", Period: 1}
	cmd := cli.NewCommand("eval").
		WithSynopsis("eval [-engine expr|cel|js] [-period n] package file expression").
		WithDescription("Evaluate an expression against the field values of a package.").
		WithOpts(structOpts(cfg)...).
		WithRun(func(cc *cli.Context, args []string) error {
			return evalMain(cfg, cc, args)
		})
	cfg.Eval = cmd
	return cmd
}

func SchemaCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &SchemaConfig{MainConfig: mainCfg, Format: "descriptors"}
	cmd := cli.NewCommand("schema").
		WithSynopsis("schema [-format descriptors|openapi] [-yaml] package").
		WithDescription("Print the schema of a bundled package definition.").
		WithOpts(structOpts(cfg)...).
		WithRun(func(cc *cli.Context, args []string) error {
			return schemaMain(cfg, cc, args)
		})
	cfg.Schema = cmd
	return cmd
}

func PCGNCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PCGNConfig{MainConfig: mainCfg}
	cmd := cli.NewCommand("pcgn").
		WithSynopsis("pcgn [-units] [settings files, strongest first]").
		WithDescription("Write a PCGN solver file from layered settings files.").
		WithOpts(structOpts(cfg)...).
		WithRun(func(cc *cli.Context, args []string) error {
			return pcgnMain(cfg, cc, args)
		})
	cfg.PCGN = cmd
	return cmd
}

func mfdataMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	if err := cfg.setup(); err != nil {
		return err
	}
	defer cfg.flush()

	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		return cli.ExitCodeErr(sub.Exit(cc, err))
	}
	return err
}

// setup resolves settings and the logger. Flags win over the config file.
func (cfg *MainConfig) setup() error {
	settings, err := loadSettings(cfg.Config)
	if err != nil {
		return err
	}
	if cfg.Color != "" {
		settings.Color = cfg.Color
	}
	if cfg.LogLevel != "" {
		settings.LogLevel = cfg.LogLevel
	}
	if err := settings.validate(); err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	log, flush, err := newLogger(settings.LogLevel)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	cfg.Settings, cfg.Log, cfg.flush = settings, log, flush
	return nil
}

func openInput(path string) (*os.File, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}
