package main

import (
	"github.com/alecthomas/kong"
	"github.com/lox/yahtzee/internal/config"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"withargs" help:"Play in the terminal (the default)"`
	Score    ScoreCmd         `cmd:"" help:"Score a hand in every category"`
	Simulate SimulateCmd      `cmd:"" help:"Play bots against each other and report statistics"`
	Serve    ServeCmd         `cmd:"" help:"Host games over WebSocket"`
	Connect  ConnectCmd       `cmd:"" help:"Play bots against a running server"`
	Info     VersionCmd       `cmd:"" name:"version" help:"Print version information"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("yahtzee"),
		kong.Description("Yahtzee for the terminal, bots and the network"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version":     version,
			"config_file": config.DefaultFile,
		},
		kong.Bind(&cli.Globals),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
