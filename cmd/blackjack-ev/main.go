package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build.
var version = "dev"

// CLI is blackjack-ev's top-level command set: run the Monte-Carlo
// simulator, or dump a static table (the basic-strategy chart, or a
// perfect-play-vs-chart deviation heatmap) without simulating
// indefinitely. Mirrors cmd/pokerforbots's CLI struct shape.
type CLI struct {
	Version     kong.VersionFlag `short:"v" help:"Show version"`
	Simulate    SimulateCmd      `cmd:"" help:"Run the worker pool, reporting running ROI/edge as hands are played"`
	DumpChart   DumpChartCmd     `cmd:"dump-chart" help:"Print the embedded basic-strategy chart for a rule preset"`
	DumpHeatmap DumpHeatmapCmd   `cmd:"dump-heatmap" help:"Sample hands in compare mode and print chart deviations"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack-ev"),
		kong.Description("Perfect-play blackjack expected-value engine and Monte-Carlo simulator"),
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
