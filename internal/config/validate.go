package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateYtDlp(); err != nil {
		return err
	}
	if err := c.validateSources(); err != nil {
		return err
	}
	if err := c.validateClip(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		return errors.New("paths.staging_dir must be set")
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateYtDlp() error {
	if strings.TrimSpace(c.YtDlp.Binary) == "" {
		return errors.New("ytdlp.binary must be set")
	}
	if c.YtDlp.SearchLimit < 1 || c.YtDlp.SearchLimit > 50 {
		return fmt.Errorf("ytdlp.search_limit must be between 1 and 50, got %d", c.YtDlp.SearchLimit)
	}
	return nil
}

func (c *Config) validateSources() error {
	if strings.TrimSpace(c.Melon.BaseURL) == "" {
		return errors.New("melon.base_url must be set")
	}
	if strings.TrimSpace(c.MusicBrainz.BaseURL) == "" {
		return errors.New("musicbrainz.base_url must be set")
	}
	if c.Melon.RequestTimeout <= 0 {
		return errors.New("melon.request_timeout must be positive")
	}
	if c.MusicBrainz.RequestTimeout <= 0 {
		return errors.New("musicbrainz.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateClip() error {
	if c.Clip.Seconds <= 0 {
		return errors.New("clip.seconds must be positive")
	}
	if c.Clip.FadeSeconds < 0 || c.Clip.FadeSeconds > c.Clip.Seconds {
		return fmt.Errorf("clip.fade_seconds must be between 0 and clip.seconds, got %d", c.Clip.FadeSeconds)
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.MaxConcurrentJobs < 1 {
		return errors.New("workflow.max_concurrent_jobs must be at least 1")
	}
	return nil
}
