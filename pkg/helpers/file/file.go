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

package file

import (
	"os"
	"path/filepath"
	"time"

	copy "github.com/otiai10/copy"
	"github.com/pkg/errors"
)

// Exists reports whether the named file or directory exists.
func Exists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

// Touch creates an empty file, or bumps its times when it exists
func Touch(f string) error {
	_, err := os.Stat(f)
	if os.IsNotExist(err) {
		file, err := os.Create(f)
		if err != nil {
			return err
		}
		return file.Close()
	}
	currentTime := time.Now().Local()
	return os.Chtimes(f, currentTime, currentTime)
}

func Read(file string) (string, error) {
	dat, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	return string(dat), nil
}

// EnsureDir creates the parent directory of fileName.
func EnsureDir(fileName string) error {
	dirName := filepath.Dir(fileName)
	if _, serr := os.Stat(dirName); serr != nil {
		return os.MkdirAll(dirName, os.ModePerm)
	}
	return nil
}

func DirectoryIsEmpty(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}

func Rel2Abs(s string) (string, error) {
	pathToSet := s
	if !filepath.IsAbs(s) {
		abs, err := filepath.Abs(s)
		if err != nil {
			return "", err
		}
		pathToSet = abs
	}
	return pathToSet, nil
}

// CopyFile copies src to dst, creating the parent directories of dst and
// replacing its content when it already exists.
func CopyFile(src, dst string) error {
	fi, err := os.Lstat(src)
	if err != nil {
		return errors.Wrap(err, "error reading file info")
	}
	if fi.IsDir() {
		return errors.Errorf("%s is a directory", src)
	}
	if err := EnsureDir(dst); err != nil {
		return err
	}
	return copy.Copy(src, dst, copy.Options{
		Sync:      true,
		OnSymlink: func(string) copy.SymlinkAction { return copy.Deep },
	})
}
