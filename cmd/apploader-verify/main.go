package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pth-demo-orga/trusty-lib/api/hwkeyhandler"
	"github.com/pth-demo-orga/trusty-lib/apppackage"
	"github.com/pth-demo-orga/trusty-lib/cmd/flags"
	"github.com/pth-demo-orga/trusty-lib/hwkey"
	"github.com/pth-demo-orga/trusty-lib/interfaces"
	"github.com/pth-demo-orga/trusty-lib/loader"
	"github.com/urfave/cli/v2"
)

var packageFlag = &cli.StringFlag{
	Name:     "package",
	Required: true,
	Usage:    "path to the application package to validate",
}

var signatureFlag = &cli.StringFlag{
	Name:  "signature",
	Usage: "path to a detached signature; requires -hwkey-addr for key resolution",
}

var keyIDFlag = &cli.UintFlag{
	Name:  "key-id",
	Value: 0,
	Usage: "signing key identifier within the keystore",
}

func main() {
	app := &cli.App{
		Name:  "apploader-verify",
		Usage: "Validate a trusted application package and optionally verify its signature",
		Flags: []cli.Flag{
			packageFlag,
			signatureFlag,
			keyIDFlag,
			flags.HwkeyAddrFlag,
			flags.LogJSONFlag,
			flags.LogDebugFlag,
		},
		Action: func(cCtx *cli.Context) error {
			logger := flags.SetupLogger(cCtx)

			pkg, err := os.ReadFile(cCtx.String(packageFlag.Name))
			if err != nil {
				return fmt.Errorf("could not read package: %w", err)
			}

			sigPath := cCtx.String(signatureFlag.Name)
			if sigPath == "" {
				metadata, err := apppackage.ParseMetadata(pkg)
				if err != nil {
					return fmt.Errorf("package rejected: %w", err)
				}
				logger.Info("Package is structurally valid",
					"contentsOffset", metadata.Contents.Offset,
					"contentsSize", metadata.Contents.Length,
					"manifestOffset", metadata.Manifest.Offset,
					"manifestSize", metadata.Manifest.Length)
				return nil
			}

			sig, err := os.ReadFile(sigPath)
			if err != nil {
				return fmt.Errorf("could not read signature: %w", err)
			}

			keyID := cCtx.Uint(keyIDFlag.Name)
			if keyID > 255 {
				return fmt.Errorf("key-id %d out of range", keyID)
			}

			keystore := &hwkeyhandler.Client{BaseURL: cCtx.String(flags.HwkeyAddrFlag.Name)}
			resolver := hwkey.NewResolver(keystore, logger)

			metadata, err := loader.New(resolver, logger).Admit(cCtx.Context, pkg, sig, interfaces.KeyID(keyID))
			if err != nil {
				return err
			}

			logger.Info("Package admitted",
				"contentsSize", metadata.Contents.Length,
				"manifestSize", metadata.Manifest.Length)
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
