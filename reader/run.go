package reader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"mreader/config"
	"mreader/state"
)

// Run is "read" command action: it loads chapter from SOURCE and writes it
// into DESTINATION directory.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("read")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Mailformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	if d := cmd.String("direction"); len(d) > 0 {
		dir, err := config.ParseReadingDirection(d)
		if err != nil {
			log.Warn("Unknown reading direction requested, using configured one", zap.Error(err))
		} else {
			env.Cfg.Reader.Direction = dir
		}
	}
	if cmd.Bool("no-spreads") {
		env.Cfg.Reader.Spread.Enable = false
	}

	// Since zip "standard" does not define file name encoding we may need to
	// force archaic code page for old archives
	if cp := cmd.String("force-zip-cp"); len(cp) > 0 {
		env.CodePage, err = ianaindex.IANA.Encoding(cp)
		if err != nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.CodePage)
			log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
		}
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst),
		zap.Stringer("direction", env.Cfg.Reader.Direction), zap.Bool("spreads", env.Cfg.Reader.Spread.Enable))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, env, src, dst)
}

func process(ctx context.Context, env *state.LocalEnv, src, dst string) error {
	s := NewSession(&env.Cfg.Reader, env.CodePage, env.Log)

	ch, err := s.Open(src)
	if err != nil {
		return fmt.Errorf("unable to open source: %w", err)
	}
	defer s.Close(ch)

	if err := os.MkdirAll(dst, 0o755); err != nil {
		return fmt.Errorf("unable to create destination: %w", err)
	}

	err = s.LoadChapter(ctx, ch)
	env.Rpt.StoreData(fmt.Sprintf("trace/%s.txt", ch.ID), s.Trace(ch))
	if err != nil {
		return fmt.Errorf("unable to load chapter: %w", err)
	}

	if _, err := s.WriteChapter(ctx, ch, dst); err != nil {
		return fmt.Errorf("unable to write chapter: %w", err)
	}
	return nil
}
