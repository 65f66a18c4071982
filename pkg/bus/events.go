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

package bus

import (
	"github.com/mudler/go-pluggable"
	"github.com/mudler/ipk/pkg/api/core/types"
)

var (
	// Package events

	// EventPackageInstall is the event fired when a package was installed
	EventPackageInstall pluggable.EventType = "package.install"
	// EventPackageUpgrade is the event fired when a package changed version
	EventPackageUpgrade pluggable.EventType = "package.upgrade"
	// EventPackageRemove is the event fired when a package was removed
	EventPackageRemove pluggable.EventType = "package.remove"

	// Index events

	// EventIndexUpdate is the event fired when a new index revision was published
	EventIndexUpdate pluggable.EventType = "index.update"
)

// Events lists every event plugins can subscribe to.
var Events = []pluggable.EventType{
	EventPackageInstall,
	EventPackageUpgrade,
	EventPackageRemove,
	EventIndexUpdate,
}

// PackageEvent is the payload of the package events.
type PackageEvent struct {
	Action   types.ActionKind     `json:"action"`
	Package  *types.PackageRecord `json:"package"`
	Previous string               `json:"previous,omitempty"`
}

// IndexEvent is the payload of EventIndexUpdate.
type IndexEvent struct {
	Revision string `json:"revision"`
	Packages int    `json:"packages"`
}

// Manager is the bus instance manager, which subscribes plugins to events emitted by ipk
var Manager = NewBus()

type Bus struct {
	*pluggable.Manager
}

func NewBus() *Bus {
	return &Bus{Manager: pluggable.NewManager(Events)}
}

// Initialize loads the plugins found in $PATH and logs their responses.
func (b *Bus) Initialize(ctx *types.Context, plugin ...string) {
	b.Manager.Load(plugin...).Register()

	for _, e := range b.Manager.Events {
		b.Manager.Response(e, func(p *pluggable.Plugin, r *pluggable.EventResponse) {
			if r.Errored() {
				ctx.Warning("Plugin", p.Name, "at", p.Executable, "Error", r.Error)
				return
			}
			ctx.Debug(
				"plugin_event",
				"received from",
				p.Name,
				"at",
				p.Executable,
				r,
			)
		})
	}
}

// PublishAction notifies plugins about an applied plan action.
func (b *Bus) PublishAction(a types.Action) error {
	ev := EventPackageInstall
	switch a.Kind {
	case types.ActionUpgrade, types.ActionDowngrade:
		ev = EventPackageUpgrade
	case types.ActionRemove:
		ev = EventPackageRemove
	}
	_, err := b.Manager.Publish(ev, PackageEvent{Action: a.Kind, Package: a.Package, Previous: a.Previous})
	return err
}
