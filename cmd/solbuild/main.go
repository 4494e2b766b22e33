// Command solbuild drives the manifest-based solution builder: build
// or clean a set of projects, following project references the way
// tsc -b follows TypeScript project references.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/distr1/solbuild"
	"github.com/distr1/solbuild/internal/buildctx"
	"github.com/distr1/solbuild/internal/compiler"
	"github.com/distr1/solbuild/internal/host"
	"github.com/distr1/solbuild/internal/manifest"
	"github.com/distr1/solbuild/internal/reporter"
	"github.com/distr1/solbuild/internal/solution"
)

var (
	verbose bool
	dry     bool
	force   bool
	clean   bool
)

func init() {
	const (
		verboseUsage = "verbose: report every project's up-to-date status"
		dryUsage     = "dry run: report what would happen without touching the filesystem"
		forceUsage   = "force a rebuild even of up-to-date projects"
	)
	flag.BoolVar(&verbose, "v", false, verboseUsage)
	flag.BoolVar(&verbose, "verbose", false, verboseUsage)
	flag.BoolVar(&dry, "d", false, dryUsage)
	flag.BoolVar(&dry, "dry", false, dryUsage)
	flag.BoolVar(&force, "f", false, forceUsage)
	flag.BoolVar(&force, "force", false, forceUsage)
	flag.BoolVar(&clean, "clean", false, "delete expected outputs instead of building")
}

func funcmain() error {
	flag.Parse()
	specs := flag.Args()
	if len(specs) == 0 {
		specs = []string{"."}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	h := host.DefaultHost{}
	cache := manifest.NewCache(manifest.JSONParser{})
	logger := log.New(os.Stderr, "", log.LstdFlags)
	rep := reporter.NewLogReporter(logger)
	opts := buildctx.Options{Dry: dry, Force: force, Verbose: verbose}

	b := solution.New(h, cache, compiler.InProcessCompiler{}, rep, opts, logger)

	ctx, canc := solbuild.InterruptibleContext()
	defer canc()

	if clean {
		deleted, err := b.CleanProjects(ctx, cwd, specs)
		if err != nil {
			return err
		}
		if dry {
			for _, path := range deleted {
				fmt.Println(path)
			}
		}
		return solbuild.RunAtExit()
	}

	if ok := b.BuildProjects(ctx, cwd, specs); !ok {
		if err := solbuild.RunAtExit(); err != nil {
			return err
		}
		return fmt.Errorf("solbuild: one or more projects failed to build")
	}
	return solbuild.RunAtExit()
}

func main() {
	if err := funcmain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
