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
	"time"

	"github.com/mudler/ipk/pkg/api/core/types"
)

// NewTransaction turns plan into the status store writes reaching it, in
// plan order. Hold flags survive upgrades.
func NewTransaction(plan *types.Plan, installed types.InstalledSet, now time.Time) *types.Transaction {
	tx := types.NewTransaction()
	if plan == nil {
		return tx
	}

	for _, a := range plan.Actions {
		if a.Kind == types.ActionRemove {
			tx.Delete(types.NewInstalledPackage(a.Package))
			continue
		}

		p := types.NewInstalledPackage(a.Package)
		p.AutoInstalled = a.Auto
		p.InstalledTime = now.Unix()
		if prev, ok := installed.Get(a.Package.Name); ok {
			p.Hold = prev.Hold
		}
		tx.Put(p)
	}
	return tx
}

// apply prints plan and commits it in a single transaction. Nothing is
// written when the manager runs with NoAction.
func (m *Manager) apply(plan *types.Plan, installed types.InstalledSet) error {
	if plan.Empty() {
		m.ctx.Info("Nothing to do.")
		return nil
	}

	for _, a := range plan.Actions {
		m.ctx.Info(a.String())
	}

	if m.Options.NoAction {
		m.ctx.Info("Dry run, no changes applied.")
		return nil
	}

	if err := m.db.Commit(NewTransaction(plan, installed, time.Now())); err != nil {
		if !types.IsTransactionAborted(err) {
			err = &types.TransactionAbortedError{Err: err}
		}
		return err
	}

	for _, a := range plan.Actions {
		if err := m.Options.Bus.PublishAction(a); err != nil {
			m.ctx.Warning("Failed publishing event for", a.Package.HumanReadableString(), ":", err.Error())
		}
	}

	m.ctx.Success(":confetti_ball: Applied", plan.Len(), "actions")
	return nil
}
