package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/brevis-network/pico-proving-service/cmd/flags"
	"github.com/brevis-network/pico-proving-service/deploy"
	"github.com/brevis-network/pico-proving-service/topology"
)

const usage string = `Bootstrap the GPU proving-engine deployment
Identical to deploy-cpu except for the engine image and a hardware gate:
GPU access is probed through the container runtime before provisioning, with
an explicit operator override since the probe can produce false negatives.`

func main() {
	app := &cli.App{
		Name:  "deploy-gpu",
		Usage: usage,
		Flags: flags.CommonFlags,
		Action: func(cCtx *cli.Context) error {
			logger := flags.SetupLogger(cCtx)

			confirmer, err := flags.SetupConfirmer(cCtx, logger)
			if err != nil {
				return err
			}

			bootstrapper, err := deploy.New(topology.GPU, cCtx.String(flags.WorkDirFlag.Name), confirmer, logger)
			if err != nil {
				return err
			}

			if err := bootstrapper.Run(cCtx.Context); err != nil {
				logger.Error("Bootstrap failed", "err", err)
				return err
			}
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
