package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/brevis-network/pico-proving-service/cmd/flags"
	"github.com/brevis-network/pico-proving-service/deploy"
	"github.com/brevis-network/pico-proving-service/topology"
)

const usage string = `Bootstrap the CPU proving-engine deployment
Brings an uninitialized host to a running two-service deployment:
* Configuration materialized from the template on first run
* Verification-key artifacts fetched if missing
* Pre-loaded service images verified
* Proving engine and gnark sidecar started via compose`

func main() {
	app := &cli.App{
		Name:  "deploy-cpu",
		Usage: usage,
		Flags: flags.CommonFlags,
		Action: func(cCtx *cli.Context) error {
			logger := flags.SetupLogger(cCtx)

			confirmer, err := flags.SetupConfirmer(cCtx, logger)
			if err != nil {
				return err
			}

			bootstrapper, err := deploy.New(topology.CPU, cCtx.String(flags.WorkDirFlag.Name), confirmer, logger)
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
