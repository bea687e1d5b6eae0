package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"isle-analyzer/internal/check"
	"isle-analyzer/internal/diag"
	"isle-analyzer/internal/project"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "watch [path]",
		Short:        "Re-check the workspace whenever an ISLE file or isle.toml changes",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         runWatch,
	}
	cmd.Flags().Duration("debounce", 250*time.Millisecond, "quiet period before re-checking")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("failed to get debounce flag: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := colorMode(cmd, out); err != nil {
		return err
	}
	log := newLogger(cmd)
	defer func() { _ = log.Sync() }()

	ws, err := project.Discover(startArg(args))
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	recheck := func(changed []string) {
		if len(changed) > 0 {
			log.Debug("workspace changed", zap.Strings("paths", changed))
		}
		if err := watchCheck(cmd, out, ws.Root, log); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
		}
	}
	recheck(nil)
	return watchWithFSNotify(ctx, ws.Root, debounce, log, recheck)
}

// watchCheck re-discovers the workspace so added and removed files are seen.
func watchCheck(cmd *cobra.Command, out io.Writer, root string, log *zap.Logger) error {
	a, err := analyze(cmd, root, log)
	if err != nil {
		return err
	}
	diags := []diag.Diagnostic(a.Errors)
	if a.Project != nil {
		diags = check.Run(a.Project)
	}
	fmt.Fprintf(out, "[%s] %d files: %d errors, %d warnings\n",
		time.Now().Format(time.TimeOnly), len(a.Workspace.Files),
		countSeverity(diags, diag.SevError), countSeverity(diags, diag.SevWarning))
	if timingsEnabled(cmd) {
		fmt.Fprint(cmd.ErrOrStderr(), a.Timer.Summary())
	}
	return writeDiagnostics(out, diags, a.Files, a.Workspace.Root)
}

func watchWithFSNotify(ctx context.Context, root string, debounce time.Duration, log *zap.Logger, onChange func(changedPaths []string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	root = filepath.Clean(root)
	if err := addWatchRecursive(watcher, root); err != nil {
		return err
	}
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false
	pendingPaths := map[string]bool{}
	resetDebounce := func(path string) {
		pendingPaths[path] = true
		if pending && !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(debounce)
		pending = true
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			path := filepath.Clean(event.Name)
			if event.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
					if err := addWatchRecursive(watcher, path); err != nil {
						log.Warn("cannot watch directory", zap.String("path", path), zap.Error(err))
					}
					continue
				}
			}
			if !isWatchedFile(path) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			resetDebounce(path)
		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			changed := make([]string, 0, len(pendingPaths))
			for path := range pendingPaths {
				changed = append(changed, path)
			}
			sort.Strings(changed)
			pendingPaths = map[string]bool{}
			onChange(changed)
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return watchErr
		}
	}
}

func addWatchRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, entry os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !entry.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(entry.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// isWatchedFile keeps ISLE sources and manifests; editor swap files are dropped.
func isWatchedFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return filepath.Ext(base) == project.Ext || base == project.ManifestName
}
