package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/slimwrapgo/internal/ctxlog"
	"github.com/vk/slimwrapgo/internal/fsutil"
	"github.com/vk/slimwrapgo/internal/runfile"
	"github.com/vk/slimwrapgo/internal/slim"
)

// Run executes every model declared by the configured run path: a single
// .hcl run file or a directory of them. Files run in sorted order and the
// first failure stops the run.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	paths, err := a.resolveRunFiles()
	if err != nil {
		return err
	}
	a.logger.Debug("Run files resolved.", "count", len(paths))

	for _, path := range paths {
		if err := a.runFile(ctx, path); err != nil {
			return err
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// resolveRunFiles expands the configured run path into concrete file paths.
func (a *App) resolveRunFiles() ([]string, error) {
	info, err := os.Stat(a.config.RunPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access run path: %w", err)
	}
	if !info.IsDir() {
		return []string{a.config.RunPath}, nil
	}

	paths, err := fsutil.FindFilesByExtension(a.config.RunPath, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to scan run path: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no .hcl run files found under %s", a.config.RunPath)
	}
	return paths, nil
}

// runFile loads one run file and executes each of its model blocks.
func (a *App) runFile(ctx context.Context, path string) error {
	file, err := runfile.Load(ctx, path)
	if err != nil {
		return err
	}

	binary := a.config.EngineBinary
	if file.Engine != nil && file.Engine.Binary != "" {
		binary = file.Engine.Binary
	}
	runner := slim.NewCmdRunner(binary)

	for _, mb := range file.Models {
		if err := a.runModel(ctx, runner, filepath.Dir(path), mb); err != nil {
			return fmt.Errorf("model %q: %w", mb.Name, err)
		}
	}
	return nil
}

// runModel builds, runs, and releases one model.
func (a *App) runModel(ctx context.Context, runner slim.Runner, baseDir string, mb *runfile.ModelBlock) error {
	logger := a.logger.With("model", mb.Name)
	logger.Info("▶️ Starting model run")

	constants, err := mb.EvalConstants(ctx)
	if err != nil {
		return err
	}

	var model *slim.Model
	if mb.Code != "" {
		model, err = slim.NewModelFromCode(ctx, runner, mb.Code)
	} else {
		source := mb.Source
		if !filepath.IsAbs(source) {
			// Script paths are relative to the run file that names them.
			source = filepath.Join(baseDir, source)
		}
		model, err = slim.NewModelFromFile(ctx, runner, source)
	}
	if err != nil {
		return err
	}
	defer func() {
		if err := model.Close(); err != nil {
			logger.Warn("Could not remove model temp file.", "error", err)
		}
	}()

	result, err := model.Run(ctx, slim.RunOptions{
		Seed:      mb.Seed,
		Constants: constants,
		NoCheck:   mb.NoCheck,
	})
	if err != nil {
		return err
	}

	if _, err := a.outW.Write(result.Stdout); err != nil {
		return fmt.Errorf("failed to write model output: %w", err)
	}
	logger.Info("✅ Finished model run", "seed", model.LastSeed(), "exit_code", result.ExitCode, "duration", result.Duration)
	return nil
}
