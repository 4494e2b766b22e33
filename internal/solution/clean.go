package solution

import (
	"context"

	"golang.org/x/xerrors"

	"github.com/distr1/solbuild/internal/host"
	"github.com/distr1/solbuild/internal/outputs"
)

// CleanProjects resolves projectSpecs, builds the same dependency
// graph BuildProjects would, and either deletes every expected output
// that currently exists (real run) or returns the list without
// touching the filesystem (dry run).
//
// A host that cannot delete files is a fatal configuration error,
// surfaced via the returned error rather than a panic since it
// depends on runtime wiring, not a programming mistake.
func (b *Builder) CleanProjects(ctx context.Context, cwd string, projectSpecs []string) ([]string, error) {
	deleter, canDelete := b.Host.(host.Deleter)
	if !canDelete && !b.ctx.Options.Dry {
		return nil, xerrors.Errorf("clean: %w", host.ErrMissingCapability)
	}

	g := b.buildGraph(ctx, cwd, projectSpecs)

	var toDelete []string
	seen := make(map[string]struct{})
	for _, layer := range g.BuildQueue {
		for _, proj := range layer {
			m, ok := b.Cache.ParseConfigFile(proj)
			if !ok {
				continue
			}
			for _, output := range outputs.For(m) {
				if _, dup := seen[output]; dup {
					continue
				}
				if !b.Host.FileExists(output) {
					continue
				}
				seen[output] = struct{}{}
				toDelete = append(toDelete, output)
			}
		}
	}

	if b.ctx.Options.Dry {
		for _, output := range toDelete {
			b.ctx.Verbose("would delete %s", output)
		}
		return toDelete, nil
	}

	for _, output := range toDelete {
		if err := deleter.DeleteFile(output); err != nil {
			return toDelete, xerrors.Errorf("clean %s: %w", output, err)
		}
	}
	return toDelete, nil
}
