package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/wolfeidau/pagepack/cmd/pagepack/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Init    commands.InitCmd    `cmd:"" help:"Scaffold a new extension UI project"`
		Resolve commands.ResolveCmd `cmd:"" help:"Resolve the project descriptor into a build plan"`
		Build   commands.BuildCmd   `cmd:"" help:"Build the extension UI pages"`
		Serve   commands.ServeCmd   `cmd:"" help:"Build, watch and serve the extension UI pages"`
		Debug   bool                `help:"Enable debug mode."`
		Version kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
