package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
	"github.com/sergi/go-diff/diffmatchpatch"

	mfdata "github.com/goliatone/go-mfdata"
	"github.com/goliatone/go-mfdata/internal/token"
)

func checkMain(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: check requires a package and a file, got %v", cli.ErrUsage, args)
	}
	in, done, err := openInput(args[1])
	if err != nil {
		return err
	}
	defer done()

	differs, err := checkPackage(cc.Out, args[0], in, cfg.Settings.colored(cc.Out), cfg.Settings.options(cfg.Log)...)
	if err != nil {
		return fmt.Errorf("%s: %w", args[1], err)
	}
	if differs {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// checkPackage loads src and compares it with its canonical rendering.
// Comments, blank lines, spacing and keyword case are ignored. Differences
// are written to w as a line diff.
func checkPackage(w io.Writer, name string, src io.Reader, colored bool, opts ...mfdata.Option) (bool, error) {
	raw, err := io.ReadAll(src)
	if err != nil {
		return false, err
	}
	pkg, err := mfdata.NewEmbeddedPackage(name, opts...)
	if err != nil {
		return false, err
	}
	if err := pkg.Load(bytes.NewReader(raw)); err != nil {
		return false, err
	}
	diff, differs := lineDiff(normalize(string(raw)), normalize(pkg.String()), colored)
	if differs {
		_, err = io.WriteString(w, diff)
	}
	return differs, err
}

// normalize keeps the data lines of a package file, one space between
// tokens, with keywords and block names uppercased.
func normalize(text string) string {
	var sb strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if token.IsComment(line) {
			continue
		}
		tokens := token.SplitDataLine(line)
		if len(tokens) == 0 {
			continue
		}
		tokens[0] = strings.ToUpper(tokens[0])
		if (tokens[0] == "BEGIN" || tokens[0] == "END") && len(tokens) > 1 {
			tokens[1] = strings.ToUpper(tokens[1])
		}
		sb.WriteString(strings.Join(tokens, " "))
		sb.WriteString("\n")
	}
	return sb.String()
}

// lineDiff renders a line-level diff of a and b with "- " and "+ " markers.
func lineDiff(a, b string, colored bool) (string, bool) {
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	del := color.New(color.FgRed)
	ins := color.New(color.FgGreen)
	if colored {
		del.EnableColor()
		ins.EnableColor()
	} else {
		del.DisableColor()
		ins.DisableColor()
	}

	var (
		sb      strings.Builder
		differs bool
	)
	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			line = strings.TrimSuffix(line, "\n")
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				differs = true
				sb.WriteString(del.Sprint("- "+line) + "\n")
			case diffmatchpatch.DiffInsert:
				differs = true
				sb.WriteString(ins.Sprint("+ "+line) + "\n")
			default:
				sb.WriteString("  " + line + "\n")
			}
		}
	}
	return sb.String(), differs
}
