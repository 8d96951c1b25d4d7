package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
	logger "github.com/sirupsen/logrus"

	"github.com/devtoolbox/jwtinspect/cmd/jwtinspect/cli"
)

type app struct {
	cli.Cli

	Decode     cli.DecodeCmd     `cmd:"" help:"decode and optionally verify a token"`
	Chat       cli.ChatCmd       `cmd:"" help:"answer /jwt chat commands"`
	Serve      cli.ServeCmd      `cmd:"" help:"serve the decode endpoint over HTTP"`
	Algorithms cli.AlgorithmsCmd `cmd:"" help:"list the supported signature algorithms"`
}

func main() {
	logger.SetFormatter(&logger.TextFormatter{})

	realMain(os.Args, os.Stdin, os.Stdout, os.Stderr, os.Exit)
}

func realMain(args []string, in io.Reader, out io.Writer, errout io.Writer, exit func(int)) {
	cl := app{
		Cli: cli.Cli{},
	}
	cl.Cli.WithReader(in).
		WithWriter(out).
		WithErrWriter(errout)

	parser, err := kong.New(&cl,
		kong.Name("jwtinspect"),
		kong.Description("JWT decoding and signature verification"),
		kong.Writers(out, errout),
		kong.Exit(exit),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": cli.Version,
		})
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args[1:])
	parser.FatalIfErrorf(err)

	if ctx != nil {
		err = ctx.Run(&cl.Cli)
		ctx.FatalIfErrorf(err)
	}
}
