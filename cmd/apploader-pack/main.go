package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pth-demo-orga/trusty-lib/apppackage"
	"github.com/pth-demo-orga/trusty-lib/cmd/flags"
	"github.com/urfave/cli/v2"
)

var elfFlag = &cli.StringFlag{
	Name:     "elf",
	Required: true,
	Usage:    "path to the application ELF image",
}

var manifestFlag = &cli.StringFlag{
	Name:     "manifest",
	Required: true,
	Usage:    "path to the application manifest",
}

var outputFlag = &cli.StringFlag{
	Name:     "output",
	Required: true,
	Usage:    "path to write the application package to",
}

func main() {
	app := &cli.App{
		Name:  "apploader-pack",
		Usage: "Build a trusted application package from an ELF image and manifest",
		Flags: []cli.Flag{
			elfFlag,
			manifestFlag,
			outputFlag,
			flags.LogJSONFlag,
			flags.LogDebugFlag,
		},
		Action: func(cCtx *cli.Context) error {
			logger := flags.SetupLogger(cCtx)

			contents, err := os.ReadFile(cCtx.String(elfFlag.Name))
			if err != nil {
				return fmt.Errorf("could not read ELF image: %w", err)
			}
			manifest, err := os.ReadFile(cCtx.String(manifestFlag.Name))
			if err != nil {
				return fmt.Errorf("could not read manifest: %w", err)
			}

			pkg, err := apppackage.Encode(contents, manifest, nil)
			if err != nil {
				return fmt.Errorf("could not build package: %w", err)
			}

			// The encoder's output must always pass the validator; a
			// failure here is a bug, not bad input.
			if _, err := apppackage.ParseMetadata(pkg); err != nil {
				return fmt.Errorf("built package does not validate: %w", err)
			}

			if err := os.WriteFile(cCtx.String(outputFlag.Name), pkg, 0644); err != nil {
				return fmt.Errorf("could not write package: %w", err)
			}

			logger.Info("Package written",
				"output", cCtx.String(outputFlag.Name),
				"packageSize", len(pkg),
				"contentsSize", len(contents),
				"manifestSize", len(manifest))
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
