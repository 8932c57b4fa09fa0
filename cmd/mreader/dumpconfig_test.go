package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"mreader/config"
	"mreader/state"
)

func TestOutputConfiguration(t *testing.T) {
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Reader.Direction = config.ReadingDirectionRtl
	env.Cfg, env.Log = cfg, zap.NewNop()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"actual", nil, "direction: rtl"},
		{"default", []string{"--default"}, "direction: ltr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cli.Command{
				Name:   "dumpconfig",
				Action: outputConfiguration,
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "default"}},
			}
			fname := filepath.Join(t.TempDir(), "config.yaml")
			args := append(append([]string{"dumpconfig"}, tt.args...), fname)
			if err := cmd.Run(ctx, args); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			data, err := os.ReadFile(fname)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(string(data), tt.want) {
				t.Errorf("configuration does not have %q:\n%s", tt.want, data)
			}
		})
	}
}
