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

package types

import "github.com/pkg/errors"

var ErrPackageNotFound = errors.New("package not found")

// PackageDatabase is the installed status store.
type PackageDatabase interface {
	// GetInstalled returns ErrPackageNotFound when name is not installed.
	GetInstalled(name string) (*InstalledPackage, error)
	List() ([]*InstalledPackage, error)
	Snapshot() (InstalledSet, error)

	// Commit applies every operation of tx or none of them.
	Commit(tx *Transaction) error
	Clean() error
}

type TxOpKind string

const (
	TxPut    TxOpKind = "put"
	TxDelete TxOpKind = "delete"
)

type TxOp struct {
	Kind    TxOpKind
	Package *InstalledPackage
}

// Transaction is an ordered batch of status store writes.
type Transaction struct {
	Ops []TxOp
}

func NewTransaction() *Transaction {
	return &Transaction{}
}

func (t *Transaction) Put(p *InstalledPackage) *Transaction {
	t.Ops = append(t.Ops, TxOp{Kind: TxPut, Package: p})
	return t
}

func (t *Transaction) Delete(p *InstalledPackage) *Transaction {
	t.Ops = append(t.Ops, TxOp{Kind: TxDelete, Package: p})
	return t
}

func (t *Transaction) Empty() bool {
	return len(t.Ops) == 0
}
