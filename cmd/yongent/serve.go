package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/modelcycles/yongent/internal/audio"
	"github.com/modelcycles/yongent/internal/daemon"
	"github.com/modelcycles/yongent/internal/jobs"
	"github.com/modelcycles/yongent/internal/logging"
	"github.com/modelcycles/yongent/internal/media/ffmpeg"
	"github.com/modelcycles/yongent/internal/metadata"
	"github.com/modelcycles/yongent/internal/pipeline"
	"github.com/modelcycles/yongent/internal/report"
	"github.com/modelcycles/yongent/internal/sources/melon"
	"github.com/modelcycles/yongent/internal/sources/musicbrainz"
	"github.com/modelcycles/yongent/internal/sources/ytdlp"
)

func newServeCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the download daemon and its HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			logOutput := io.Writer(os.Stdout)
			logFile, err := logging.OpenLogFile(filepath.Join(cfg.Paths.LogDir, "yongent.log"))
			if err == nil {
				defer logFile.Close()
				logOutput = io.MultiWriter(os.Stdout, logFile)
			}
			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Output: logOutput,
			})
			if err != nil {
				return err
			}

			store, err := jobs.Open(cfg)
			if err != nil {
				return fmt.Errorf("open job store: %w", err)
			}
			defer store.Close()

			merger := &metadata.Merger{
				Credits:     melon.New(cfg.Melon),
				Recordings:  musicbrainz.New(cfg.MusicBrainz),
				Placeholder: cfg.Metadata.Placeholder,
				Logger:      logger,
			}
			orchestrator := pipeline.New(
				cfg,
				store,
				ytdlp.NewCLI(cfg.YtDlp),
				merger,
				audio.NewTagger(cfg.Metadata.Placeholder, cfg.Metadata.EmbedArtwork),
				ffmpeg.NewCLI(cfg.Clip),
				report.NewWriter(cfg.Metadata.Placeholder),
				logger,
			)

			d, err := daemon.New(cfg, store, orchestrator, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := d.Start(ctx); err != nil {
				return err
			}

			<-ctx.Done()
			d.Stop()
			orchestrator.Stop()
			return nil
		},
	}
}
