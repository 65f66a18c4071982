// Copyright © 2022 Ettore Di Giacinto <mudler@mocaccino.org>
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License along
// with this program; if not, see <http://www.gnu.org/licenses/>.

package installer

import (
	"sync"

	"github.com/mudler/ipk/pkg/api/core/types"
	"github.com/mudler/ipk/pkg/bus"
	"github.com/mudler/ipk/pkg/index"
	"github.com/mudler/ipk/pkg/repository"
	"github.com/mudler/ipk/pkg/solver"
	version "github.com/mudler/ipk/pkg/versioner"

	"github.com/pkg/errors"
)

type ManagerOptions struct {
	Context  *types.Context
	Database types.PackageDatabase
	// Cache keeps the index revision across restarts, nil disables it
	Cache *repository.Cache
	// Bus receives the package and index events, defaults to bus.Manager
	Bus *bus.Bus

	SolverOptions  types.SolverOptions
	NoAction       bool
	ForceReinstall bool
}

type RemoveOptions struct {
	Recursive  bool
	AutoRemove bool
}

// Operations are the mutating calls of the manager. Exclusive hands out an
// implementation that runs them under an already held write lock.
type Operations interface {
	Update() error
	Install(names ...string) (*types.Plan, error)
	Upgrade(names ...string) (*types.Plan, error)
	Remove(opts RemoveOptions, names ...string) (*types.Plan, error)
	Flag(flag string, names ...string) error
	IsInstalled(name, version string) (bool, error)
}

// Manager owns the current index revision and the status store. Resolve
// and apply run as one critical section under the write lock, queries take
// the read lock.
type Manager struct {
	sync.RWMutex

	Options ManagerOptions

	ctx       *types.Context
	index     *index.Holder
	db        types.PackageDatabase
	versioner version.Versioner
}

func NewManager(opts ManagerOptions) (*Manager, error) {
	if opts.Context == nil {
		opts.Context = types.NewContext()
	}
	if opts.Database == nil {
		return nil, errors.New("no status database given")
	}
	if opts.Bus == nil {
		opts.Bus = bus.Manager
	}

	v, err := opts.Context.Config.Versioner()
	if err != nil {
		return nil, err
	}

	current := index.Empty(v)
	if opts.Cache != nil {
		current, err = opts.Cache.Load(v)
		if err != nil {
			opts.Context.Warning("Ignoring unreadable index cache:", err.Error())
			current = index.Empty(v)
		}
	}
	opts.Context.Debug("Loaded index revision", current.ID(), "with", current.Len(), "packages")

	return &Manager{
		Options:   opts,
		ctx:       opts.Context,
		index:     index.NewHolder(current),
		db:        opts.Database,
		versioner: v,
	}, nil
}

// Index returns the revision currently in place.
func (m *Manager) Index() *index.Index {
	return m.index.Current()
}

// Exclusive runs fn holding the write lock for its whole duration, so that
// several operations observe no interleaved update or install.
func (m *Manager) Exclusive(fn func(Operations) error) error {
	m.Lock()
	defer m.Unlock()
	return fn(locked{m})
}

func (m *Manager) Update() error {
	m.Lock()
	defer m.Unlock()
	return m.update()
}

func (m *Manager) Install(names ...string) (*types.Plan, error) {
	m.Lock()
	defer m.Unlock()
	return m.install(names...)
}

func (m *Manager) Upgrade(names ...string) (*types.Plan, error) {
	m.Lock()
	defer m.Unlock()
	return m.upgrade(names...)
}

func (m *Manager) Remove(opts RemoveOptions, names ...string) (*types.Plan, error) {
	m.Lock()
	defer m.Unlock()
	return m.remove(opts, names...)
}

func (m *Manager) Flag(flag string, names ...string) error {
	m.Lock()
	defer m.Unlock()
	return m.flag(flag, names...)
}

// IsInstalled reports whether name is installed and, when version is not
// empty, whether the installed version compares equal to it.
func (m *Manager) IsInstalled(name, version string) (bool, error) {
	m.RLock()
	defer m.RUnlock()
	return m.isInstalled(name, version)
}

// update fetches every enabled feed and publishes the new revision. The
// previous one stays in place on any failure.
func (m *Manager) update() error {
	repos := m.ctx.Config.SystemRepositories
	if len(repos.Enabled()) == 0 {
		m.ctx.Warning("No enabled repositories")
	}

	next, err := repository.BuildRevision(m.ctx, repos, m.versioner)
	if err != nil {
		return err
	}

	if m.Options.Cache != nil {
		if err := m.Options.Cache.Store(next); err != nil {
			return &types.IndexUnavailableError{Err: err}
		}
	}

	previous := m.index.Replace(next)
	m.ctx.Success("Index updated:", next.Len(), "packages available")
	m.ctx.Debug("Index revision", previous.ID(), "superseded by", next.ID())

	if _, err := m.Options.Bus.Publish(bus.EventIndexUpdate, bus.IndexEvent{Revision: next.ID(), Packages: next.Len()}); err != nil {
		m.ctx.Warning("Failed publishing index update:", err.Error())
	}
	return nil
}

func (m *Manager) newSolver() (*solver.Solver, types.InstalledSet, error) {
	installed, err := m.db.Snapshot()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed reading installed packages")
	}
	s := solver.NewSolver(m.Options.SolverOptions, installed, m.index.Current())
	s.ForceReinstall = m.Options.ForceReinstall
	return s, installed, nil
}

func (m *Manager) install(names ...string) (*types.Plan, error) {
	if len(names) == 0 {
		return nil, errors.New("no packages to install")
	}

	roots := make([]version.Constraint, 0, len(names))
	for _, n := range names {
		c, err := version.ParseConstraint(n)
		if err != nil {
			return nil, err
		}
		roots = append(roots, c)
	}

	s, installed, err := m.newSolver()
	if err != nil {
		return nil, err
	}

	m.ctx.Debug("Resolving", version.FormatConstraints(roots))
	plan, err := s.Install(roots...)
	if err != nil {
		return nil, errors.Wrap(err, "failed solving install")
	}
	return plan, m.apply(plan, installed)
}

func (m *Manager) upgrade(names ...string) (*types.Plan, error) {
	s, installed, err := m.newSolver()
	if err != nil {
		return nil, err
	}

	plan, err := s.Upgrade(names...)
	if err != nil {
		return nil, errors.Wrap(err, "failed solving upgrade")
	}
	return plan, m.apply(plan, installed)
}

func (m *Manager) remove(opts RemoveOptions, names ...string) (*types.Plan, error) {
	if len(names) == 0 {
		return nil, errors.New("no packages to remove")
	}

	s, installed, err := m.newSolver()
	if err != nil {
		return nil, err
	}

	plan, err := s.Uninstall(solver.UninstallOptions{Recursive: opts.Recursive, AutoRemove: opts.AutoRemove}, names...)
	if err != nil {
		return nil, err
	}
	return plan, m.apply(plan, installed)
}

func (m *Manager) isInstalled(name, v string) (bool, error) {
	p, err := m.db.GetInstalled(name)
	if errors.Is(err, types.ErrPackageNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if v == "" {
		return true, nil
	}
	return m.versioner.Compare(p.Version, v) == 0, nil
}

const (
	FlagHold   = "hold"
	FlagUnhold = "unhold"
	FlagOk     = "ok"
	FlagUser   = "user"
	FlagAuto   = "auto"
)

// flag updates the status flags of installed packages in one transaction.
func (m *Manager) flag(flag string, names ...string) error {
	tx := types.NewTransaction()
	for _, n := range names {
		p, err := m.db.GetInstalled(n)
		if errors.Is(err, types.ErrPackageNotFound) {
			return errors.Errorf("package %s is not installed", n)
		}
		if err != nil {
			return err
		}

		switch flag {
		case FlagHold:
			p.Hold = true
		case FlagUnhold, FlagOk:
			p.Hold = false
		case FlagUser:
			p.AutoInstalled = false
		case FlagAuto:
			p.AutoInstalled = true
		default:
			return errors.Errorf("unknown flag '%s'", flag)
		}
		tx.Put(p)
	}

	if tx.Empty() {
		return nil
	}
	if err := m.db.Commit(tx); err != nil {
		return err
	}
	for _, n := range names {
		m.ctx.Info("Setting flags for package", n, "to", flag)
	}
	return nil
}

// locked runs the operations of a manager whose write lock is already held.
type locked struct {
	m *Manager
}

func (l locked) Update() error { return l.m.update() }

func (l locked) Install(names ...string) (*types.Plan, error) { return l.m.install(names...) }

func (l locked) Upgrade(names ...string) (*types.Plan, error) { return l.m.upgrade(names...) }

func (l locked) Remove(opts RemoveOptions, names ...string) (*types.Plan, error) {
	return l.m.remove(opts, names...)
}

func (l locked) Flag(flag string, names ...string) error { return l.m.flag(flag, names...) }

func (l locked) IsInstalled(name, version string) (bool, error) {
	return l.m.isInstalled(name, version)
}
