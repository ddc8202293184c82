package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pth-demo-orga/trusty-lib/api/hwkeyhandler"
	"github.com/pth-demo-orga/trusty-lib/cmd/flags"
	"github.com/pth-demo-orga/trusty-lib/httpserver"
	"github.com/pth-demo-orga/trusty-lib/hwkey"
	"github.com/pth-demo-orga/trusty-lib/interfaces"
	"github.com/pth-demo-orga/trusty-lib/storage"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "hwkeyd",
		Usage: "Serve the apploader keystore API over pluggable keyslot storage",
		Flags: append([]cli.Flag{
			flags.ListenAddrFlag,
			flags.KeyslotStoreFlag,
		}, flags.CommonFlags...),
		Action: func(cCtx *cli.Context) error {
			logger := flags.SetupLogger(cCtx)

			locations := []interfaces.KeyslotStoreLocation{}
			for _, raw := range cCtx.StringSlice(flags.KeyslotStoreFlag.Name) {
				locations = append(locations, interfaces.KeyslotStoreLocation(raw))
			}

			storageFactory := storage.NewStorageBackendFactory(logger)
			var store interfaces.KeyslotStore
			var err error
			if len(locations) == 1 {
				store, err = storageFactory.StorageBackendFor(locations[0])
			} else {
				store, err = storageFactory.CreateMultiBackend(locations)
			}
			if err != nil {
				logger.Error("Failed to create keyslot store", "err", err)
				return err
			}
			logger.Info("Keyslot store ready", "location", store.LocationURI())

			service := hwkey.NewService(store, logger)
			handler := hwkeyhandler.NewHandler(service, logger)

			cfg := flags.ConfigureServer(cCtx, logger, cCtx.String(flags.ListenAddrFlag.Name))
			server, err := httpserver.New(cfg, handler)
			if err != nil {
				logger.Error("Failed to create server", "err", err)
				return err
			}

			server.RunInBackground()

			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)
			<-exit

			logger.Info("Shutting down")
			server.Shutdown()
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
