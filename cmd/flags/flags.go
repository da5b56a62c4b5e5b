// Package flags holds the CLI flags shared by the deployment binaries and
// the helpers that turn them into a logger and a confirmation policy.
package flags

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/brevis-network/pico-proving-service/common"
	"github.com/brevis-network/pico-proving-service/confirm"
	"github.com/brevis-network/pico-proving-service/interfaces"
)

func SetupLogger(cCtx *cli.Context) (log *slog.Logger) {
	logJSON := cCtx.Bool(LogJsonFlag.Name)
	logDebug := cCtx.Bool(LogDebugFlag.Name)
	logUID := cCtx.Bool(LogUidFlag.Name)

	logger := common.SetupLogger(&common.LoggingOpts{
		Debug:   logDebug,
		JSON:    logJSON,
		Service: common.PackageName,
		Version: common.Version,
	})

	if logUID {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}

// SetupConfirmer builds the confirmation capability from the automation
// flags. With no flag set the operator is prompted on the terminal.
func SetupConfirmer(cCtx *cli.Context, logger *slog.Logger) (interfaces.Confirmer, error) {
	yes := cCtx.Bool(AssumeYesFlag.Name)
	no := cCtx.Bool(AssumeNoFlag.Name)
	failIfAsked := cCtx.Bool(FailIfAskedFlag.Name)
	confirmAddr := cCtx.String(ConfirmAddrFlag.Name)

	set := 0
	for _, enabled := range []bool{yes, no, failIfAsked, confirmAddr != ""} {
		if enabled {
			set++
		}
	}
	if set > 1 {
		return nil, errors.New("at most one of --yes, --no, --fail-if-asked, --confirm-addr may be set")
	}

	switch {
	case yes:
		return confirm.AlwaysYes, nil
	case no:
		return confirm.AlwaysNo, nil
	case failIfAsked:
		return confirm.FailIfAsked, nil
	case confirmAddr != "":
		return &confirm.HTTP{ListenAddr: confirmAddr, Log: logger}, nil
	default:
		return &confirm.Stdin{}, nil
	}
}

var WorkDirFlag = &cli.StringFlag{
	Name:    "dir",
	Value:   ".",
	Usage:   "deployment directory holding the configuration template",
	EnvVars: []string{"PICO_DEPLOY_DIR"},
}

var AssumeYesFlag = &cli.BoolFlag{
	Name:    "yes",
	Usage:   "answer yes to every confirmation prompt (non-interactive)",
	EnvVars: []string{"PICO_DEPLOY_YES"},
}
var AssumeNoFlag = &cli.BoolFlag{
	Name:    "no",
	Usage:   "answer no to every confirmation prompt (non-interactive)",
	EnvVars: []string{"PICO_DEPLOY_NO"},
}
var FailIfAskedFlag = &cli.BoolFlag{
	Name:    "fail-if-asked",
	Usage:   "fail the run if any stage would need a confirmation",
	EnvVars: []string{"PICO_DEPLOY_FAIL_IF_ASKED"},
}
var ConfirmAddrFlag = &cli.StringFlag{
	Name:    "confirm-addr",
	Usage:   "serve confirmation prompts on this address for remote operator approval",
	EnvVars: []string{"PICO_DEPLOY_CONFIRM_ADDR"},
}

var LogJsonFlag = &cli.BoolFlag{
	Name:    "log-json",
	Value:   false,
	Usage:   "log in JSON format",
	EnvVars: []string{"PICO_DEPLOY_LOG_JSON"},
}
var LogDebugFlag = &cli.BoolFlag{
	Name:    "log-debug",
	Value:   false,
	Usage:   "log debug messages",
	EnvVars: []string{"PICO_DEPLOY_LOG_DEBUG"},
}
var LogUidFlag = &cli.BoolFlag{
	Name:    "log-uid",
	Value:   false,
	Usage:   "generate a uuid and add to all log messages",
	EnvVars: []string{"PICO_DEPLOY_LOG_UID"},
}

var CommonFlags = []cli.Flag{
	WorkDirFlag,
	AssumeYesFlag,
	AssumeNoFlag,
	FailIfAskedFlag,
	ConfirmAddrFlag,
	LogJsonFlag,
	LogDebugFlag,
	LogUidFlag,
}
