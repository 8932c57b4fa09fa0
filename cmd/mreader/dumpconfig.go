package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"mreader/config"
	"mreader/state"
)

// outputConfiguration is "dumpconfig" command action.
func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	kind, data, err := configuration(env.Cfg, cmd.Bool("default"))
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	fname := cmd.Args().Get(0)
	if len(fname) == 0 {
		env.Log.Info("Outputing configuration", zap.String("state", kind), zap.String("file", "STDOUT"))
		_, err = os.Stdout.Write(data)
	} else {
		env.Log.Info("Outputing configuration", zap.String("state", kind), zap.String("file", fname))
		err = os.WriteFile(fname, data, 0o644)
	}
	if err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}

func configuration(cfg *config.Config, defaults bool) (string, []byte, error) {
	if defaults {
		data, err := config.Prepare()
		return "default", data, err
	}
	data, err := config.Dump(cfg)
	return "actual", data, err
}
