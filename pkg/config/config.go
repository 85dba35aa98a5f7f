// Package config loads evaluator limits and store settings from a YAML
// file, with optional live reload via fsnotify.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/crystal-mush/mushcode/pkg/eval"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Conf holds the tunable evaluator and store parameters. Field names
// follow the classic conf directives so existing .conf knowledge carries
// over.
type Conf struct {
	// --- Identity ---
	MudName string `yaml:"mud_name"`

	// --- Evaluator limits ---
	FunctionInvocationLimit int `yaml:"function_invocation_limit"`
	FunctionRecursionLimit  int `yaml:"function_recursion_limit"`
	RegisterLimit           int `yaml:"register_limit"`
	VariablesLimit          int `yaml:"variables_limit"`
	StackLimit              int `yaml:"stack_limit"`
	StructureLimit          int `yaml:"structure_limit"`
	InstanceLimit           int `yaml:"instance_limit"`
	GridsizeLimit           int `yaml:"gridsize_limit"`

	// --- Behavior toggles ---
	BooleansOldstyle bool `yaml:"booleans_oldstyle"`
	SpaceCompression bool `yaml:"space_compression"`
	AnsiColors       bool `yaml:"ansi_colors"`

	// --- SQL store ---
	SQLDatabase   string `yaml:"sql_database"`
	SQLQueryLimit int    `yaml:"sql_query_limit"`
	SQLTimeout    int    `yaml:"sql_timeout"`
}

// Default returns a Conf populated with the stock limits.
func Default() *Conf {
	return &Conf{
		FunctionInvocationLimit: 2500,
		FunctionRecursionLimit:  50,
		RegisterLimit:           50,
		VariablesLimit:          50,
		StackLimit:              50,
		StructureLimit:          100,
		InstanceLimit:           100,
		GridsizeLimit:           1000,
		SpaceCompression:        true,
		AnsiColors:              true,
		SQLQueryLimit:           50,
		SQLTimeout:              5,
	}
}

// Load reads a YAML config file over the defaults. A missing path
// returns the defaults unchanged.
func Load(path string) (*Conf, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return c, nil
}

// Apply pushes the configured limits into an evaluation context.
func (c *Conf) Apply(ctx *eval.EvalContext) {
	if c.MudName != "" {
		ctx.MudName = c.MudName
	}
	ctx.FuncInvkLim = c.FunctionInvocationLimit
	ctx.FuncNestLim = c.FunctionRecursionLimit
	ctx.RegisterLimit = c.RegisterLimit
	ctx.NumVarsLim = c.VariablesLimit
	ctx.StackLim = c.StackLimit
	ctx.StructLim = c.StructureLimit
	ctx.InstanceLim = c.InstanceLimit
	ctx.MaxGridSize = c.GridsizeLimit
	ctx.BoolsOldstyle = c.BooleansOldstyle
	ctx.SpaceCompress = c.SpaceCompression
	ctx.AnsiColors = c.AnsiColors
}

// Watch starts an fsnotify watcher on the config file. When the file is
// written or recreated it is reparsed and onChange is called with the
// fresh Conf. Parse errors keep the previous config.
func Watch(path string, onChange func(*Conf)) error {
	if path == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: start watcher: %w", err)
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)

	go func() {
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if !strings.EqualFold(filepath.Base(event.Name), base) {
					continue
				}
				c, err := Load(path)
				if err != nil {
					log.Printf("config: reload failed: %v", err)
					continue
				}
				log.Printf("config: reloaded %s", path)
				onChange(c)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("config: watcher error: %v", err)
			}
		}
	}()

	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("config: watch %s: %w", dir, err)
	}
	return nil
}
