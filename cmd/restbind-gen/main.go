// Command restbind-gen generates adapters of API interfaces marked with
// //restbind:service directives. See package gen for the directives.
//
// Usage:
//
//	//go:generate go run github.com/starius/restbind/cmd/restbind-gen .
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"golang.org/x/tools/go/packages"

	"github.com/starius/restbind/gen"
)

type CLI struct {
	Patterns []string `arg:"" optional:"" help:"Packages to process." default:"."`
	Dir      string   `help:"Directory in which packages are loaded." default:"." short:"C"`
	DryRun   bool     `help:"Print names of files instead of writing them." name:"dry-run"`
}

func (c *CLI) Run() error {
	pkgs, err := packages.Load(&packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo,
		Dir:  c.Dir,
	}, c.Patterns...)
	if err != nil {
		return err
	}
	if packages.PrintErrors(pkgs) > 0 {
		return fmt.Errorf("failed to load packages")
	}

	for _, pkg := range pkgs {
		files, err := gen.Generate(pkg.Fset, pkg.Types, pkg.Syntax)
		if err != nil {
			return fmt.Errorf("%s: %w", pkg.PkgPath, err)
		}
		for _, file := range files {
			if c.DryRun {
				fmt.Println(file.Path)
				continue
			}
			if err := os.WriteFile(file.Path, file.Content, 0o644); err != nil {
				return err
			}
		}
	}
	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("restbind-gen"),
		kong.Description("Generate HTTP client adapters of annotated Go interfaces."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
