package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Serve    ServeCmd         `cmd:"" help:"Run the gesture blackjack server"`
	Play     PlayCmd          `cmd:"" help:"Play blackjack in the terminal"`
	Simulate SimulateCmd      `cmd:"" help:"Simulate rounds headlessly and print a summary"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("gesturejack"),
		kong.Description("Gesture-controlled blackjack"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
