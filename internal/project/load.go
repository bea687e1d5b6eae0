package project

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"isle-analyzer/internal/diag"
	"isle-analyzer/internal/index"
	"isle-analyzer/internal/source"

	"golang.org/x/sync/errgroup"
)

// Workspace is the set of sources one analysis runs over.
type Workspace struct {
	Root     string
	Manifest *Manifest // nil без isle.toml
	Files    []string
}

// Discover resolves the workspace containing start. With an isle.toml above
// start its [project] patterns select the files; otherwise every *.isle file
// under start is taken.
func Discover(start string) (*Workspace, error) {
	m, ok, err := LoadManifest(StartDir(start))
	if err != nil {
		return nil, err
	}
	ws := &Workspace{Manifest: m}
	var cfg *ProjectConfig
	if ok {
		ws.Root = m.Root
		cfg = &m.Config.Project
	} else {
		root, err := filepath.Abs(StartDir(start))
		if err != nil {
			return nil, err
		}
		ws.Root = root
	}
	ws.Files, err = ListFiles(ws.Root, cfg)
	if err != nil {
		return nil, err
	}
	return ws, nil
}

// Config returns the manifest settings, or defaults without a manifest.
func (ws *Workspace) Config() Config {
	if ws == nil || ws.Manifest == nil {
		return Config{}
	}
	return ws.Manifest.Config
}

// Load reads paths concurrently, at most jobs at a time (0 means GOMAXPROCS).
// Unreadable files are reported together as diag.Errors.
func Load(ctx context.Context, paths []string, jobs int) ([]index.Source, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	srcs := make([]index.Source, len(paths))
	fails := make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(paths))))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// #nosec G304 -- path comes from discovery or the client
			content, err := os.ReadFile(path)
			if err != nil {
				fails[i] = err
				return nil
			}
			content, _ = source.Normalize(content)
			srcs[i] = index.Source{Path: path, Content: content}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var errs diag.Errors
	for i, err := range fails {
		if err != nil {
			errs = append(errs, diag.IOError(paths[i], err))
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return srcs, nil
}

// Open discovers the workspace around start and indexes it.
func Open(ctx context.Context, start string, opts ...index.Option) (*index.Project, *Workspace, error) {
	ws, err := Discover(start)
	if err != nil {
		return nil, nil, err
	}
	srcs, err := Load(ctx, ws.Files, 0)
	if err != nil {
		return nil, ws, err
	}
	p, err := index.FromSources(srcs, opts...)
	if err != nil {
		return nil, ws, err
	}
	return p, ws, nil
}
