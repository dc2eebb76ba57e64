// Command mfdata formats, checks and inspects MODFLOW 6 package files.
package main

import (
	"context"

	"github.com/scott-cotton/cli"
)

func main() {
	cli.MainContext(context.Background(), MainCommand())
}
