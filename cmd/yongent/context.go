package main

import (
	"fmt"
	"sync"

	"github.com/modelcycles/yongent/internal/config"
)

// commandContext lazily loads configuration shared by the subcommands.
type commandContext struct {
	configFlag *string

	mu     sync.Mutex
	cfg    *config.Config
	path   string
	exists bool
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cfg != nil {
		return c.cfg, nil
	}

	path := ""
	if c.configFlag != nil {
		path = *c.configFlag
	}
	cfg, resolvedPath, exists, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	c.cfg = cfg
	c.path = resolvedPath
	c.exists = exists
	return cfg, nil
}

func (c *commandContext) configPath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.path
}

func (c *commandContext) configExists() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exists
}

// apiBaseURL derives the daemon API address from configuration.
func (c *commandContext) apiBaseURL() (string, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	if cfg.Paths.APIBind == "" {
		return "", fmt.Errorf("api_bind is not configured")
	}
	return "http://" + cfg.Paths.APIBind, nil
}
