// Package versionbump raises the version and build numbers of the mobile
// app before each store build. app.json and package.json are edited in
// place, keeping their key order.
package versionbump

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	AppFile     = "app.json"
	PackageFile = "package.json"

	defaultVersion = "1.0.0"
)

// Version is a dotted major.minor.patch version
type Version struct {
	Major int
	Minor int
	Patch int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// ParseVersion reads a dotted version. An empty string is 1.0.0, an
// unreadable major is 1 and missing or unreadable minor and patch are 0.
func ParseVersion(s string) Version {
	s = strings.TrimSpace(s)
	if s == "" {
		s = defaultVersion
	}
	parts := strings.Split(s, ".")

	v := Version{Major: 1}
	if n, err := strconv.Atoi(parts[0]); err == nil && n >= 0 {
		v.Major = n
	}
	if len(parts) > 1 {
		v.Minor, _ = strconv.Atoi(parts[1])
	}
	if len(parts) > 2 {
		v.Patch, _ = strconv.Atoi(parts[2])
	}
	return v
}

// BumpPatch returns s with the patch number incremented
func BumpPatch(s string) string {
	v := ParseVersion(s)
	v.Patch++
	return v.String()
}

// Result records the three transitions of a bump
type Result struct {
	OldVersion     string
	NewVersion     string
	OldVersionCode int
	NewVersionCode int
	OldBuildNumber int
	NewBuildNumber int
}

// Lines returns the report printed after a bump
func (r *Result) Lines() []string {
	return []string{
		fmt.Sprintf("Version bumped: %s → %s", r.OldVersion, r.NewVersion),
		fmt.Sprintf("Android versionCode: %d → %d", r.OldVersionCode, r.NewVersionCode),
		fmt.Sprintf("iOS buildNumber: %d → %d", r.OldBuildNumber, r.NewBuildNumber),
	}
}

// Bump updates app.json and package.json under root. Neither file is
// touched unless both can be read and rewritten.
func Bump(root string) (*Result, error) {
	appPath := filepath.Join(root, AppFile)
	pkgPath := filepath.Join(root, PackageFile)

	app, err := readJSON(appPath)
	if err != nil {
		return nil, err
	}
	pkg, err := readJSON(pkgPath)
	if err != nil {
		return nil, err
	}

	r := &Result{OldVersion: gjson.GetBytes(app, "expo.version").String()}
	if r.OldVersion == "" {
		r.OldVersion = gjson.GetBytes(pkg, "version").String()
	}
	if r.OldVersion == "" {
		r.OldVersion = defaultVersion
	}
	r.NewVersion = BumpPatch(r.OldVersion)

	r.OldVersionCode = 1
	if code := gjson.GetBytes(app, "expo.android.versionCode"); code.Type == gjson.Number {
		r.OldVersionCode = int(code.Int())
	}
	r.NewVersionCode = r.OldVersionCode + 1

	r.OldBuildNumber = 1
	if build := gjson.GetBytes(app, "expo.ios.buildNumber"); build.Exists() {
		if n, ok := leadingInt(build.String()); ok {
			r.OldBuildNumber = n
		}
	}
	r.NewBuildNumber = r.OldBuildNumber + 1

	edits := []struct {
		path  string
		value interface{}
	}{
		{"expo.version", r.NewVersion},
		{"expo.android.versionCode", r.NewVersionCode},
		{"expo.ios.buildNumber", strconv.Itoa(r.NewBuildNumber)},
	}
	for _, e := range edits {
		if app, err = sjson.SetBytes(app, e.path, e.value); err != nil {
			return nil, errors.Wrapf(err, "set %s", e.path)
		}
	}
	if pkg, err = sjson.SetBytes(pkg, "version", r.NewVersion); err != nil {
		return nil, errors.Wrap(err, "set version")
	}

	appOut, err := format(app)
	if err != nil {
		return nil, errors.Wrapf(err, "format %s", AppFile)
	}
	pkgOut, err := format(pkg)
	if err != nil {
		return nil, errors.Wrapf(err, "format %s", PackageFile)
	}

	if err := writeAtomic(appPath, appOut); err != nil {
		return nil, err
	}
	if err := writeAtomic(pkgPath, pkgOut); err != nil {
		return nil, err
	}
	return r, nil
}

func readJSON(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.Errorf("%s is not valid JSON", path)
	}
	return data, nil
}

// format re-indents with two spaces and ends the file with a newline
func format(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(data), "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// writeAtomic replaces path through a temp file in the same directory
func writeAtomic(path string, data []byte) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrapf(err, "create temp file for %s", path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "write %s", tmp.Name())
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "sync %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close %s", tmp.Name())
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return errors.Wrapf(err, "chmod %s", tmp.Name())
	}
	return errors.Wrapf(os.Rename(tmp.Name(), path), "replace %s", path)
}

// leadingInt parses the leading digits of s, like parseInt
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	return n, err == nil
}
