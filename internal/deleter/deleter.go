// Package deleter removes operator-selected files under strict guards: scope
// containment, symlink refusal, regular files only, writable parents, and a
// dry-run mode that touches nothing. Every outcome goes to an audit log.
package deleter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Options configures a Deleter.
type Options struct {
	// Root, when set, is the directory outside of which nothing is removed.
	Root string
	// DryRun performs every check but removes nothing.
	DryRun bool
	// Workers is the number of requests processed at once. Values below 1
	// mean 1.
	Workers int
	// Audit receives the batch header and one line per outcome.
	Audit *AuditLog
	// OnOutcome, if set, is called once per finished request. Calls never
	// overlap.
	OnOutcome func(Outcome)
	Logger    *logrus.Logger

	// writable overrides the parent directory probe in tests.
	writable func(dir string) bool
}

type Deleter struct {
	scope     *Scope
	dryRun    bool
	workers   int
	audit     *AuditLog
	onOutcome func(Outcome)
	logger    *logrus.Logger
	dirs      *writableDirs
	now       func() time.Time

	mu sync.Mutex
}

// New validates opts. An invalid scope root is fatal and returns an error
// wrapping ErrInvalidRoot.
func New(opts Options) (*Deleter, error) {
	d := &Deleter{
		dryRun:    opts.DryRun,
		workers:   opts.Workers,
		audit:     opts.Audit,
		onOutcome: opts.OnOutcome,
		logger:    opts.Logger,
		now:       time.Now,
	}
	if d.workers < 1 {
		d.workers = 1
	}
	if d.logger == nil {
		d.logger = logrus.New()
		d.logger.SetOutput(io.Discard)
	}

	if opts.Root != "" {
		scope, err := NewScope(opts.Root)
		if err != nil {
			return nil, err
		}
		d.scope = scope
	}

	dirs, err := newWritableDirs(opts.writable)
	if err != nil {
		return nil, fmt.Errorf("failed to create permission cache: %w", err)
	}
	d.dirs = dirs

	return d, nil
}

// Run processes every path. A failing request never stops the batch; the
// returned error only reports audit log write failures. When ctx is
// cancelled, requests not yet started are skipped and counted as
// NotAttempted.
func (d *Deleter) Run(ctx context.Context, paths []string) (*Report, error) {
	report := &Report{
		Started: d.now(),
		DryRun:  d.dryRun,
	}

	if d.audit != nil {
		if err := d.audit.BeginBatch(report.Started, d.dryRun); err != nil {
			return nil, fmt.Errorf("failed to write audit log: %w", err)
		}
	}

	d.logger.WithFields(logrus.Fields{
		"requests": len(paths),
		"dry_run":  d.dryRun,
		"workers":  d.workers,
	}).Debug("starting deletion batch")

	var (
		results = make([]*Outcome, len(paths))
		logErrs []error
	)

	var g errgroup.Group
	g.SetLimit(d.workers)
	for i, raw := range paths {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			o := d.Process(raw)
			results[i] = &o
			if err := d.publish(o); err != nil {
				d.mu.Lock()
				logErrs = append(logErrs, err)
				d.mu.Unlock()
			}
			return nil
		})
	}
	// Workers never return errors.
	_ = g.Wait()

	for _, o := range results {
		if o == nil {
			report.NotAttempted++
			continue
		}
		report.Outcomes = append(report.Outcomes, *o)
		switch {
		case o.Status.IsError():
			report.Errors++
		case o.Status.IsWarning():
			report.Warnings++
		}
	}

	if d.audit != nil {
		if err := d.audit.EndBatch(report.Errors); err != nil {
			logErrs = append(logErrs, fmt.Errorf("failed to write audit log: %w", err))
		}
	}

	return report, errors.Join(logErrs...)
}

func (d *Deleter) publish(o Outcome) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.logger.WithFields(logrus.Fields{
		"status": string(o.Status),
		"path":   o.Path,
	}).Debug(o.Message)

	if d.onOutcome != nil {
		d.onOutcome(o)
	}
	if d.audit == nil {
		return nil
	}
	if err := d.audit.Record(o); err != nil {
		return fmt.Errorf("failed to write audit log for %s: %w", o.Path, err)
	}
	return nil
}

// Process runs the checks for one request and, outside dry-run, removes the
// file. The first failing check decides the outcome.
func (d *Deleter) Process(raw string) Outcome {
	variants := Variants(raw)

	// Every later check and the removal act on the located path.
	located := make([]string, 0, len(variants))
	var locateErr error
	for _, v := range variants {
		loc, err := locate(v)
		if err != nil {
			if !isMissing(err) && locateErr == nil {
				locateErr = err
			}
			continue
		}
		located = append(located, loc)
	}

	if d.scope != nil {
		inScope := make([]string, 0, len(located))
		for _, loc := range located {
			if d.scope.Contains(loc) {
				inScope = append(inScope, loc)
			}
		}
		// A path whose parent is missing is judged on its lexical form, so
		// it reports as not found rather than refused.
		if len(inScope) == 0 && (len(located) > 0 || !d.anyContained(variants)) {
			return Outcome{
				Raw:     raw,
				Path:    variants[0],
				Status:  StatusOutOfScope,
				Message: fmt.Sprintf("refused (outside root %s): %s", d.scope.Root(), raw),
			}
		}
		located = inScope
	}

	target, info, err := firstExisting(located)
	if err == nil && target == "" {
		err = locateErr
	}
	if err != nil {
		return Outcome{
			Raw:     raw,
			Path:    variants[0],
			Status:  StatusError,
			Message: fmt.Sprintf("cannot inspect %s: %v", variants[0], err),
			Err:     err,
		}
	}
	if target == "" {
		return Outcome{
			Raw:     raw,
			Path:    variants[0],
			Status:  StatusNotFound,
			Message: fmt.Sprintf("file not found: %s", variants[0]),
		}
	}

	if info.Mode()&fs.ModeSymlink != 0 {
		return Outcome{
			Raw:     raw,
			Path:    target,
			Status:  StatusSymlink,
			Message: fmt.Sprintf("refused (symlink): %s", target),
		}
	}

	if !info.Mode().IsRegular() {
		return Outcome{
			Raw:     raw,
			Path:    target,
			Status:  StatusNotRegular,
			Message: fmt.Sprintf("not deleted (not a regular file): %s", target),
		}
	}

	parent := filepath.Dir(target)
	if !d.dirs.Writable(parent) {
		return Outcome{
			Raw:     raw,
			Path:    target,
			Status:  StatusPermission,
			Message: fmt.Sprintf("permission denied on parent directory: %s", parent),
		}
	}

	if d.dryRun {
		return Outcome{
			Raw:     raw,
			Path:    target,
			Status:  StatusSimulated,
			Message: fmt.Sprintf("simulated: %s", target),
		}
	}

	if err := d.remove(target); err != nil {
		return Outcome{
			Raw:     raw,
			Path:    target,
			Status:  StatusError,
			Message: fmt.Sprintf("failed to delete %s: %v", target, err),
			Err:     err,
		}
	}

	return Outcome{
		Raw:     raw,
		Path:    target,
		Status:  StatusDeleted,
		Message: fmt.Sprintf("deleted: %s", target),
	}
}

func (d *Deleter) remove(target string) error {
	if d.scope != nil {
		return d.scope.remove(target)
	}
	return os.Remove(target)
}

func (d *Deleter) anyContained(variants []string) bool {
	for _, v := range variants {
		if d.scope.Contains(v) {
			return true
		}
	}
	return false
}

func isMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

// firstExisting returns the first candidate present on disk, without
// following a final symlink. Missing candidates are skipped; any other
// lookup failure is returned when nothing was found.
func firstExisting(candidates []string) (string, fs.FileInfo, error) {
	var lookupErr error
	for _, c := range candidates {
		info, err := os.Lstat(c)
		if err == nil {
			return c, info, nil
		}
		if isMissing(err) {
			continue
		}
		if lookupErr == nil {
			lookupErr = err
		}
	}
	return "", nil, lookupErr
}
