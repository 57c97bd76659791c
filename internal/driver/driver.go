// Package driver wires the whole pipeline together: AST lowering, then a
// bounded-concurrency fan-out over every function body for inference, THIR
// and MIR construction (spec §5, generalizing the teacher's
// internal/driver.ParallelDiagnoseDir/TokenizeDir, whose errgroup-per-file
// pattern this reuses at function-body granularity instead of file
// granularity).
package driver

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"corefront/internal/arena"
	"corefront/internal/ast"
	"corefront/internal/corelog"
	"corefront/internal/diag"
	"corefront/internal/hir"
	"corefront/internal/mir"
	"corefront/internal/mirbuild"
	"corefront/internal/source"
)

// Options configures a pipeline run.
type Options struct {
	// Jobs bounds concurrent function builds. Zero or negative means
	// runtime.GOMAXPROCS(0), matching the teacher's jobs<=0 convention.
	Jobs int
	// MaxDiagnostics caps each phase's diag.Bag (spec §7 capacity bound).
	MaxDiagnostics int
}

func (o Options) jobs() int {
	if o.Jobs > 0 {
		return o.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics > 0 {
		return o.MaxDiagnostics
	}
	return 100
}

// Result is the outcome of one full pipeline run.
type Result struct {
	HIR    *hir.Program
	MIR    *mir.Program
	Bag    *diag.Bag
	Failed bool
}

// Run lowers astProgram to HIR (phases 1-5, sequential per §4.1), then, if
// lowering succeeded, builds every class and function to MIR in parallel
// (phase 6-7, §5). Lowering diagnostics and per-function diagnostics all
// land in one merged, sorted Bag; Result.Failed reports whether the run
// should be treated as unsuccessful by a caller.
func Run(ctx context.Context, astProgram *ast.Program, opts Options) (*Result, error) {
	bag := diag.NewBag(opts.maxDiagnostics())

	corelog.Info("lowering started")
	hirProgram := hir.NewProgram()
	lowerer := hir.NewProgramLowerer(astProgram, hirProgram, bag)
	if err := lowerer.Lower(); err != nil {
		corelog.Warn("lowering failed", "error", err)
		bag.Sort()
		return &Result{HIR: hirProgram, Bag: bag, Failed: true}, nil
	}
	corelog.Info("lowering finished", "classes", hirProgram.Classes.Len(), "functions", hirProgram.Functions.Len())

	mirProgram, built, err := BuildProgram(ctx, hirProgram, opts)
	bag.Merge(built)
	bag.Sort()
	if err != nil {
		corelog.Warn("mir build aborted", "error", err)
		return &Result{HIR: hirProgram, Bag: bag, Failed: true}, err
	}

	return &Result{HIR: hirProgram, MIR: mirProgram, Bag: bag, Failed: bag.HasErrors()}, nil
}

type classJob struct {
	id    hir.ClassID
	ident string
	class mir.Class
	err   error
}

type functionJob struct {
	id       hir.FunctionID
	ident    string
	function mir.Function
	err      error
}

// BuildProgram runs mirbuild.BuildClass/BuildFunction across every class
// and function of hirProgram concurrently, bounded by opts.Jobs goroutines
// (spec §5 "bounded worker pool... fanned out across functions"). A
// per-item build failure is reported as a diagnostic in the returned Bag
// rather than aborting the whole group, so one bad function does not hide
// diagnostics from its siblings.
func BuildProgram(ctx context.Context, hirProgram *hir.Program, opts Options) (*mir.Program, *diag.Bag, error) {
	bag := diag.NewBag(opts.maxDiagnostics())
	out := mir.NewProgram()

	classJobs := make([]classJob, 0, hirProgram.Classes.Len())
	for id, class := range hirProgram.Classes.All {
		classJobs = append(classJobs, classJob{id: id, ident: class.Ident.Name()})
	}

	corelog.Debug("building classes", "count", len(classJobs), "jobs", opts.jobs())
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(opts.jobs(), max(len(classJobs), 1)))
	for i := range classJobs {
		i := i
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			mirClass, err := mirbuild.BuildClass(hirProgram, hirProgram.Classes.MustGet(classJobs[i].id))
			classJobs[i].class = mirClass
			classJobs[i].err = err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, bag, err
	}

	functionJobs := make([]functionJob, 0, hirProgram.Functions.Len())
	for id, function := range hirProgram.Functions.All {
		functionJobs = append(functionJobs, functionJob{id: id, ident: function.Ident.Name()})
	}

	corelog.Debug("building functions", "count", len(functionJobs), "jobs", opts.jobs())
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(min(opts.jobs(), max(len(functionJobs), 1)))
	for i := range functionJobs {
		i := i
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			mirFunction, err := mirbuild.BuildFunction(hirProgram, hirProgram.Functions.MustGet(functionJobs[i].id))
			functionJobs[i].function = mirFunction
			functionJobs[i].err = err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, bag, err
	}

	// Diagnostics are emitted in (ident) order rather than goroutine
	// completion order so a run is reproducible regardless of scheduling
	// (spec §5 "results... merged in deterministic order").
	sort.Slice(classJobs, func(i, j int) bool { return classJobs[i].ident < classJobs[j].ident })
	for _, job := range classJobs {
		if job.err != nil {
			emitBuildError(bag, job.err)
			continue
		}
		out.Classes.Insert(arena.Cast[hir.Class, mir.Class](job.id), job.class)
	}

	sort.Slice(functionJobs, func(i, j int) bool { return functionJobs[i].ident < functionJobs[j].ident })
	for _, job := range functionJobs {
		if job.err != nil {
			emitBuildError(bag, job.err)
			continue
		}
		out.Functions.Insert(arena.Cast[hir.Function, mir.Function](job.id), job.function)
	}

	return out, bag, nil
}

func emitBuildError(bag *diag.Bag, err error) {
	if d, ok := err.(*diag.Diagnostic); ok {
		bag.Emit(d)
		return
	}
	bag.Emit(diag.Error(diag.FunctionCompletion, err.Error(), source.Dummy))
}
