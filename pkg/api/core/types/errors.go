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

import (
	"fmt"
	"strings"

	version "github.com/mudler/ipk/pkg/versioner"
	"github.com/pkg/errors"
)

type MalformedConstraintError = version.MalformedConstraintError

// UnsatisfiableDependencyError is returned when no record satisfies a
// required constraint.
type UnsatisfiableDependencyError struct {
	Constraint version.Constraint
	RequiredBy string
}

func (e *UnsatisfiableDependencyError) Error() string {
	if e.RequiredBy == "" {
		return fmt.Sprintf("unsatisfiable dependency '%s'", e.Constraint)
	}
	return fmt.Sprintf("unsatisfiable dependency '%s' required by %s", e.Constraint, e.RequiredBy)
}

// ConflictingConstraintsError is returned when two constraints on the same
// name admit no common version.
type ConflictingConstraintsError struct {
	Name       string
	Selected   string
	Constraint version.Constraint
	RequiredBy string
}

func (e *ConflictingConstraintsError) Error() string {
	msg := fmt.Sprintf("conflicting constraints on '%s': %s selected, but '%s' is required", e.Name, e.Selected, e.Constraint)
	if e.RequiredBy != "" {
		msg += " by " + e.RequiredBy
	}
	return msg
}

// IndexUnavailableError is returned when the feeds cannot be read. The
// previous index revision stays in place.
type IndexUnavailableError struct {
	Err error
}

func (e *IndexUnavailableError) Error() string {
	return fmt.Sprintf("index unavailable: %s", e.Err)
}

func (e *IndexUnavailableError) Unwrap() error { return e.Err }

// TransactionAbortedError is returned when a plan could not be committed.
// The status store is left as it was before the attempt.
type TransactionAbortedError struct {
	Err error
}

func (e *TransactionAbortedError) Error() string {
	return fmt.Sprintf("transaction aborted: %s", e.Err)
}

func (e *TransactionAbortedError) Unwrap() error { return e.Err }

// DependentsPresentError is returned when removing a package would break
// installed dependents.
type DependentsPresentError struct {
	Name       string
	Dependents []string
}

func (e *DependentsPresentError) Error() string {
	return fmt.Sprintf("%s is required by %s", e.Name, strings.Join(e.Dependents, ", "))
}

func IsMalformedConstraint(err error) bool {
	var e *MalformedConstraintError
	return errors.As(err, &e)
}

func IsUnsatisfiable(err error) bool {
	var e *UnsatisfiableDependencyError
	return errors.As(err, &e)
}

func IsConflict(err error) bool {
	var e *ConflictingConstraintsError
	return errors.As(err, &e)
}

func IsIndexUnavailable(err error) bool {
	var e *IndexUnavailableError
	return errors.As(err, &e)
}

func IsTransactionAborted(err error) bool {
	var e *TransactionAbortedError
	return errors.As(err, &e)
}

func IsDependentsPresent(err error) bool {
	var e *DependentsPresentError
	return errors.As(err, &e)
}
