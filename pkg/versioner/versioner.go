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

package version

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	semver "github.com/hashicorp/go-version"
	debversion "github.com/knqyf263/go-deb-version"
	"github.com/pkg/errors"
)

const (
	DebianScheme = "debian"
	SemverScheme = "semver"
)

// Versioner gives a total ordering over version strings of one scheme.
//
// Versions the scheme cannot parse are never rejected by Compare: they are
// ordered after every well formed version and, between themselves, by plain
// byte-wise comparison of the raw strings. This keeps Compare total and
// transitive so the resolver can always make progress on broken feeds.
type Versioner interface {
	Compare(a, b string) int
	Validate(version string) error
	Sanitize(version string) string
	IsSemver(version string) bool
	Sort(versions []string) []string
	Scheme() string
}

// NewVersioner returns the versioner registered for the given scheme name.
// An empty scheme selects the debian one, which is what opkg feeds use.
func NewVersioner(scheme string) (Versioner, error) {
	switch strings.ToLower(scheme) {
	case "", DebianScheme, "opkg":
		return &DebianVersioner{}, nil
	case SemverScheme:
		return &SemverVersioner{}, nil
	default:
		return nil, errors.Errorf("unknown version scheme '%s'", scheme)
	}
}

func DefaultVersioner() Versioner {
	return &DebianVersioner{}
}

// DebianVersioner implements the epoch:upstream-revision ordering: digit runs
// compare numerically, letters sort before non-letters and '~' sorts before
// everything, even the end of the string.
type DebianVersioner struct{}

func (d *DebianVersioner) Scheme() string { return DebianScheme }

func (d *DebianVersioner) Compare(a, b string) int {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return compareWithFallback(debversion.Valid(a), debversion.Valid(b), a, b, func() int {
		return compareDebian(a, b)
	})
}

// compareDebian orders two versions already accepted by debversion.Valid.
func compareDebian(a, b string) int {
	epochA, upA, revA := splitDebian(a)
	epochB, upB, revB := splitDebian(b)
	if epochA != epochB {
		return epochA - epochB
	}
	if r := verrevcmp(upA, upB); r != 0 {
		return r
	}
	return verrevcmp(revA, revB)
}

func splitDebian(v string) (epoch int, upstream, revision string) {
	if i := strings.Index(v, ":"); i >= 0 {
		epoch, _ = strconv.Atoi(v[:i])
		v = v[i+1:]
	}
	if i := strings.LastIndex(v, "-"); i >= 0 {
		return epoch, v[:i], v[i+1:]
	}
	return epoch, v, ""
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

// order weighs a non digit character; 0 stands for the end of the string.
func order(s string, i int) int {
	if i >= len(s) {
		return 0
	}
	c := s[i]
	switch {
	case c == '~':
		return -1
	case isDigit(c):
		return 0
	case isAlpha(c):
		return int(c)
	}
	return 256 + int(c)
}

// verrevcmp compares alternating runs of non digits and digits. Leading
// zeros of a digit run are not significant. Every iteration consumes input,
// so it ends after at most len(a)+len(b) steps.
func verrevcmp(a, b string) int {
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		for (i < len(a) && !isDigit(a[i])) || (j < len(b) && !isDigit(b[j])) {
			if oa, ob := order(a, i), order(b, j); oa != ob {
				return oa - ob
			}
			i++
			j++
		}

		for i < len(a) && a[i] == '0' {
			i++
		}
		for j < len(b) && b[j] == '0' {
			j++
		}

		firstDiff := 0
		for i < len(a) && j < len(b) && isDigit(a[i]) && isDigit(b[j]) {
			if firstDiff == 0 {
				firstDiff = int(a[i]) - int(b[j])
			}
			i++
			j++
		}
		if i < len(a) && isDigit(a[i]) {
			return 1
		}
		if j < len(b) && isDigit(b[j]) {
			return -1
		}
		if firstDiff != 0 {
			return firstDiff
		}
	}
	return 0
}

func (d *DebianVersioner) Validate(version string) error {
	if !debversion.Valid(version) {
		return errors.Errorf("invalid version '%s'", version)
	}
	return nil
}

func (d *DebianVersioner) Sanitize(s string) string {
	return strings.ReplaceAll(s, "_", "-")
}

func (d *DebianVersioner) IsSemver(v string) bool {
	return isSemver(v)
}

func (d *DebianVersioner) Sort(toSort []string) []string {
	return sortWith(d, toSort)
}

// SemverVersioner orders versions with hashicorp/go-version. It is meant for
// feeds that publish semantic versions and want pre-release ordering.
type SemverVersioner struct{}

func (s *SemverVersioner) Scheme() string { return SemverScheme }

func (s *SemverVersioner) Compare(a, b string) int {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	return compareWithFallback(errA == nil, errB == nil, a, b, func() int {
		return va.Compare(vb)
	})
}

func (s *SemverVersioner) Validate(version string) error {
	if _, err := semver.NewVersion(version); err != nil {
		return errors.Wrapf(err, "invalid version '%s'", version)
	}
	return nil
}

func (s *SemverVersioner) Sanitize(v string) string {
	return strings.ReplaceAll(v, "_", "-")
}

func (s *SemverVersioner) IsSemver(v string) bool {
	return isSemver(v)
}

func (s *SemverVersioner) Sort(toSort []string) []string {
	return sortWith(s, toSort)
}

func compareWithFallback(okA, okB bool, a, b string, cmp func() int) int {
	switch {
	case okA && okB:
		return sign(cmp())
	case okA:
		return -1
	case okB:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func sign(i int) int {
	switch {
	case i < 0:
		return -1
	case i > 0:
		return 1
	}
	return 0
}

func sortWith(v Versioner, toSort []string) []string {
	res := make([]string, len(toSort))
	copy(res, toSort)
	sort.SliceStable(res, func(i, j int) bool {
		return v.Compare(res[i], res[j]) < 0
	})
	return res
}

var semverRegexp = regexp.MustCompile("^" + semver.SemverRegexpRaw + "$")

func isSemver(v string) bool {
	// go-version has no validation helper, so match its own regexp before
	// trusting the segments.
	matches := semverRegexp.FindStringSubmatch(v)
	if matches == nil {
		return false
	}
	segmentsStr := strings.Split(matches[1], ".")
	for _, str := range segmentsStr {
		if _, err := strconv.ParseInt(str, 10, 64); err != nil {
			return false
		}
	}
	return len(segmentsStr) != 0
}
