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

package repository

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mudler/ipk/pkg/api/core/types"
	version "github.com/mudler/ipk/pkg/versioner"
	"github.com/pkg/errors"
)

const (
	PackagesFile   = "Packages"
	PackagesGzFile = "Packages.gz"
)

// field order used when writing stanzas back
var controlFields = []string{
	"Package", "Version", "Depends", "Provides", "Architecture",
	"Maintainer", "Section", "Filename", "Size", "Description",
}

type stanza struct {
	line   int
	fields map[string]string
	last   string
}

// ParseControl reads a package list made of control stanzas separated by
// blank lines. Unknown fields are ignored.
func ParseControl(r io.Reader) ([]*types.PackageRecord, error) {
	res := []*types.PackageRecord{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var cur *stanza
	flush := func() error {
		if cur == nil {
			return nil
		}
		rec, err := cur.record()
		if err != nil {
			return err
		}
		res = append(res, rec)
		cur = nil
		return nil
	}

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")

		if strings.TrimSpace(line) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}

		if line[0] == ' ' || line[0] == '\t' {
			if cur == nil || cur.last == "" {
				return nil, errors.Errorf("line %d: continuation line outside of a field", lineNo)
			}
			cont := strings.TrimSpace(line)
			if cont == "." {
				cont = ""
			}
			cur.fields[cur.last] += "\n" + cont
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			return nil, errors.Errorf("line %d: expected 'Field: value', got '%s'", lineNo, line)
		}
		if cur == nil {
			cur = &stanza{line: lineNo, fields: map[string]string{}}
		}
		cur.last = strings.ToLower(strings.TrimSpace(key))
		cur.fields[cur.last] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed reading package list")
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return res, nil
}

func (s *stanza) record() (*types.PackageRecord, error) {
	rec := &types.PackageRecord{
		Name:         s.fields["package"],
		Version:      s.fields["version"],
		Architecture: s.fields["architecture"],
		Maintainer:   s.fields["maintainer"],
		Section:      s.fields["section"],
		Filename:     s.fields["filename"],
		Description:  s.fields["description"],
	}

	if rec.Name == "" {
		return nil, errors.Errorf("stanza at line %d: missing Package field", s.line)
	}
	if rec.Version == "" {
		return nil, errors.Errorf("stanza at line %d: package '%s' has no Version field", s.line, rec.Name)
	}

	if deps, ok := s.fields["depends"]; ok {
		cs, err := version.ParseConstraints(strings.ReplaceAll(deps, "\n", " "))
		if err != nil {
			return nil, errors.Wrapf(err, "stanza at line %d: package '%s'", s.line, rec.Name)
		}
		rec.Depends = cs
	}

	if provides, ok := s.fields["provides"]; ok {
		for _, p := range strings.Split(provides, ",") {
			// a versioned provide only names the virtual package here
			name, _, _ := strings.Cut(p, "(")
			name = strings.TrimSpace(name)
			if name != "" {
				rec.Provides = append(rec.Provides, name)
			}
		}
	}

	if size, ok := s.fields["size"]; ok && size != "" {
		n, err := strconv.ParseInt(size, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "stanza at line %d: invalid Size '%s'", s.line, size)
		}
		rec.Size = n
	}

	return rec, nil
}

// WriteControl serialises records into the stanza format read by
// ParseControl.
func WriteControl(w io.Writer, records []*types.PackageRecord) error {
	bw := bufio.NewWriter(w)
	for i, r := range records {
		if i > 0 {
			if _, err := bw.WriteString("\n"); err != nil {
				return err
			}
		}
		values := map[string]string{
			"Package":      r.Name,
			"Version":      r.Version,
			"Depends":      version.FormatConstraints(r.Depends),
			"Provides":     strings.Join(r.Provides, ", "),
			"Architecture": r.Architecture,
			"Maintainer":   r.Maintainer,
			"Section":      r.Section,
			"Filename":     r.Filename,
			"Description":  formatDescription(r.Description),
		}
		if r.Size > 0 {
			values["Size"] = strconv.FormatInt(r.Size, 10)
		}
		for _, f := range controlFields {
			if values[f] == "" {
				continue
			}
			if _, err := fmt.Fprintf(bw, "%s: %s\n", f, values[f]); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

func formatDescription(d string) string {
	lines := strings.Split(d, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] == "" {
			lines[i] = " ."
		} else {
			lines[i] = " " + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
