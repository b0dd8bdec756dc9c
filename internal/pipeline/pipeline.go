// Package pipeline orchestrates download jobs from request to finished song
// directory.
//
// Each job runs through a fixed sequence: parse the query, find or accept a
// YouTube URL, download the audio into staging, resolve metadata, move the
// file into its final song directory, tag it, cut the preview clip, and
// write the report. Progress is persisted to the job store after every step
// so the status endpoint always reflects where a job is.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/modelcycles/yongent/internal/config"
	"github.com/modelcycles/yongent/internal/fileutil"
	"github.com/modelcycles/yongent/internal/jobs"
	"github.com/modelcycles/yongent/internal/logging"
	"github.com/modelcycles/yongent/internal/metadata"
	"github.com/modelcycles/yongent/internal/scoring"
	"github.com/modelcycles/yongent/internal/sources/ytdlp"
	"github.com/modelcycles/yongent/internal/textutil"
)

// Merger resolves final metadata for a downloaded track.
type Merger interface {
	Merge(ctx context.Context, info ytdlp.TrackInfo, artist, title string) metadata.Resolved
}

// Tagger embeds metadata into the downloaded audio file.
type Tagger interface {
	SaveTags(ctx context.Context, path string, meta metadata.Resolved) error
}

// Clipper produces the preview clip.
type Clipper interface {
	MakeClip(ctx context.Context, inputPath, outputPath string) error
}

// ReportWriter renders the metadata report into the song directory.
type ReportWriter interface {
	Write(songDir, stem string, meta metadata.Resolved) (string, error)
}

// Orchestrator runs download jobs with bounded concurrency.
type Orchestrator struct {
	cfg    *config.Config
	store  *jobs.Store
	ytdlp  ytdlp.Client
	merger Merger
	tagger Tagger
	clip   Clipper
	report ReportWriter
	logger *slog.Logger

	sem *semaphore.Weighted
	wg  sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

// New constructs an Orchestrator.
func New(cfg *config.Config, store *jobs.Store, client ytdlp.Client, merger Merger, tagger Tagger, clip Clipper, report ReportWriter, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	maxJobs := cfg.Workflow.MaxConcurrentJobs
	if maxJobs <= 0 {
		maxJobs = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		cfg:    cfg,
		store:  store,
		ytdlp:  client,
		merger: merger,
		tagger: tagger,
		clip:   clip,
		report: report,
		logger: logger.With(logging.String(logging.FieldComponent, "pipeline")),
		sem:    semaphore.NewWeighted(int64(maxJobs)),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Submit records a new job and schedules it. Either query or url must be
// set; outputDir may be empty to use the configured default.
func (o *Orchestrator) Submit(ctx context.Context, query, url, outputDir string) (*jobs.Job, error) {
	if strings.TrimSpace(query) == "" && strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("query or url required")
	}

	job, err := o.store.New(ctx, strings.TrimSpace(query), strings.TrimSpace(url), strings.TrimSpace(outputDir))
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		if err := o.sem.Acquire(o.ctx, 1); err != nil {
			o.failJob(job, fmt.Errorf("job cancelled before start: %w", err))
			return
		}
		defer o.sem.Release(1)
		o.run(job)
	}()

	return job, nil
}

// Stop cancels running jobs and waits for their goroutines to drain.
func (o *Orchestrator) Stop() {
	o.cancel()
	o.wg.Wait()
}

// Wait blocks until all submitted jobs have finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

func (o *Orchestrator) run(job *jobs.Job) {
	ctx := o.ctx
	logger := o.logger.With(logging.String(logging.FieldJobID, job.ID))
	logger.Info("job started", logging.String("query", job.Query), logging.String("url", job.SourceURL))

	if err := o.execute(ctx, job, logger); err != nil {
		logger.Error("job failed", logging.Error(err))
		o.failJob(job, err)
		return
	}
	logger.Info("job completed", logging.String("song_dir", job.Result.SongDir))
}

func (o *Orchestrator) execute(ctx context.Context, job *jobs.Job, logger *slog.Logger) error {
	artist, title := textutil.ParseQuery(job.Query)

	job.SetRunning("searching youtube")
	if err := o.store.Update(ctx, job); err != nil {
		return err
	}

	url := job.SourceURL
	if url == "" {
		searchQuery := strings.TrimSpace(artist + " " + title + " official audio")
		candidates, err := o.ytdlp.Search(ctx, searchQuery)
		if err != nil {
			return fmt.Errorf("youtube search: %w", err)
		}
		best, ok := scoring.Select(candidates, artist, title, o.cfg.Metadata.PublisherKeywords)
		if !ok {
			return ErrNoSearchResult
		}
		url = best.URL
		logger.Info("candidate selected", logging.String("url", url), logging.String("title", best.Title))
	}

	if err := o.advance(ctx, job, "downloading audio"); err != nil {
		return err
	}
	stagingDir := filepath.Join(o.cfg.Paths.StagingDir, "job-"+job.ID)
	downloaded, err := o.ytdlp.Download(ctx, url, stagingDir)
	if err != nil {
		return fmt.Errorf("download audio: %w", err)
	}

	if err := o.advance(ctx, job, "resolving metadata"); err != nil {
		return err
	}
	meta := o.merger.Merge(ctx, downloaded.Info, artist, title)
	if meta.SourceURL == "" {
		meta.SourceURL = url
	}

	stem := textutil.Stem(meta.Artist, meta.Title)
	baseDir := job.OutputDir
	if baseDir == "" {
		baseDir = o.cfg.Paths.OutputDir
	}
	songDir := filepath.Join(baseDir, stem)
	if err := os.MkdirAll(songDir, 0o755); err != nil {
		return fmt.Errorf("create song directory: %w", err)
	}

	audioPath := filepath.Join(songDir, stem+".mp3")
	if err := fileutil.MoveFile(downloaded.AudioPath, audioPath); err != nil {
		return fmt.Errorf("move audio: %w", err)
	}
	o.cleanStaging(stagingDir, logger)

	if err := o.advance(ctx, job, "tagging audio"); err != nil {
		return err
	}
	if err := o.tagger.SaveTags(ctx, audioPath, meta); err != nil {
		// Tags are best effort; the audio file itself is intact.
		logger.Warn("tagging failed", logging.Error(err))
	}

	if err := o.advance(ctx, job, "creating preview clip"); err != nil {
		return err
	}
	clipName := stem + "(60s).mp3"
	if err := o.clip.MakeClip(ctx, audioPath, filepath.Join(songDir, clipName)); err != nil {
		return fmt.Errorf("preview clip: %w", err)
	}

	if err := o.advance(ctx, job, "writing report"); err != nil {
		return err
	}
	reportName, err := o.report.Write(songDir, stem, meta)
	if err != nil {
		return fmt.Errorf("metadata report: %w", err)
	}

	job.SetDone(&jobs.Result{
		Title:     meta.Title,
		Artist:    meta.Artist,
		Album:     meta.Album,
		Year:      meta.Year,
		Composer:  meta.Composer,
		Lyricist:  meta.Lyricist,
		SourceURL: meta.SourceURL,
		SongDir:   songDir,
		Files: jobs.ResultFiles{
			Audio:  stem + ".mp3",
			Clip:   clipName,
			Report: reportName,
		},
	})
	return o.store.Update(ctx, job)
}

func (o *Orchestrator) advance(ctx context.Context, job *jobs.Job, step string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	job.SetStep(step)
	return o.store.Update(ctx, job)
}

func (o *Orchestrator) failJob(job *jobs.Job, cause error) {
	job.SetFailed(cause.Error())
	// Failure updates use a fresh context so shutdown still records them.
	if err := o.store.Update(context.Background(), job); err != nil {
		o.logger.Error("failed to persist job failure",
			logging.String(logging.FieldJobID, job.ID),
			logging.Error(err))
	}
}

func (o *Orchestrator) cleanStaging(stagingDir string, logger *slog.Logger) {
	_ = os.Remove(filepath.Join(stagingDir, "audio.info.json"))
	if err := fileutil.RemoveDirIfEmpty(stagingDir); err != nil {
		logger.Warn("staging cleanup failed", logging.String("dir", stagingDir), logging.Error(err))
	}
}
