package versionbump_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/rubiane-edu/finedu-web/internal/versionbump"
)

func TestBumpPatch(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.0.0", "1.0.1"},
		{"2.3.9", "2.3.10"},
		{"0.4.1", "0.4.2"},
		{"", "1.0.1"},
		{"3", "3.0.1"},
		{"3.1", "3.1.1"},
		{"x.2.3", "1.2.4"},
		{"1.y.z", "1.0.1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, versionbump.BumpPatch(tt.in), tt.in)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

func TestBump(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, versionbump.AppFile, `{"expo":{"name":"Rubiane","version":"1.2.3","android":{"package":"ao.rubiane","versionCode":7},"ios":{"buildNumber":"7"}}}`)
	writeFile(t, dir, versionbump.PackageFile, `{"name":"mobile","version":"1.2.3","private":true}`)

	res, err := versionbump.Bump(dir)
	require.NoError(t, err)

	assert.Equal(t, "1.2.3", res.OldVersion)
	assert.Equal(t, "1.2.4", res.NewVersion)
	assert.Equal(t, 8, res.NewVersionCode)
	assert.Equal(t, 8, res.NewBuildNumber)
	assert.Equal(t, []string{
		"Version bumped: 1.2.3 → 1.2.4",
		"Android versionCode: 7 → 8",
		"iOS buildNumber: 7 → 8",
	}, res.Lines())

	app := readFile(t, dir, versionbump.AppFile)
	assert.Equal(t, "1.2.4", gjson.Get(app, "expo.version").String())
	assert.Equal(t, int64(8), gjson.Get(app, "expo.android.versionCode").Int())
	assert.Equal(t, gjson.String, gjson.Get(app, "expo.ios.buildNumber").Type)
	assert.Equal(t, "8", gjson.Get(app, "expo.ios.buildNumber").String())
	assert.Equal(t, "ao.rubiane", gjson.Get(app, "expo.android.package").String())
	assert.Contains(t, app, "{\n  \"expo\": {\n    \"name\": \"Rubiane\"")
	assert.Equal(t, byte('\n'), app[len(app)-1])

	pkg := readFile(t, dir, versionbump.PackageFile)
	assert.Equal(t, "{\n  \"name\": \"mobile\",\n  \"version\": \"1.2.4\",\n  \"private\": true\n}\n", pkg)
}

func TestBumpDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, versionbump.AppFile, `{"expo":{}}`)
	writeFile(t, dir, versionbump.PackageFile, `{"version":"2.0.0"}`)

	res, err := versionbump.Bump(dir)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", res.OldVersion)
	assert.Equal(t, "2.0.1", res.NewVersion)
	assert.Equal(t, 1, res.OldVersionCode)
	assert.Equal(t, 2, res.NewVersionCode)
	assert.Equal(t, 1, res.OldBuildNumber)
	assert.Equal(t, 2, res.NewBuildNumber)

	app := readFile(t, dir, versionbump.AppFile)
	assert.Equal(t, "2.0.1", gjson.Get(app, "expo.version").String())
	assert.Equal(t, int64(2), gjson.Get(app, "expo.android.versionCode").Int())
	assert.Equal(t, "2", gjson.Get(app, "expo.ios.buildNumber").String())
}

func TestBumpWithoutAnyVersion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, versionbump.AppFile, `{"expo":{"ios":{"buildNumber":"12b"}}}`)
	writeFile(t, dir, versionbump.PackageFile, `{}`)

	res, err := versionbump.Bump(dir)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", res.OldVersion)
	assert.Equal(t, "1.0.1", res.NewVersion)
	assert.Equal(t, 12, res.OldBuildNumber)
	assert.Equal(t, 13, res.NewBuildNumber)
	assert.Equal(t, "1.0.1", gjson.Get(readFile(t, dir, versionbump.PackageFile), "version").String())
}

func TestBumpLeavesFilesOnError(t *testing.T) {
	dir := t.TempDir()
	const app = `{"expo":{"version":"1.0.0"}}`
	writeFile(t, dir, versionbump.AppFile, app)
	writeFile(t, dir, versionbump.PackageFile, `{"version":`)

	_, err := versionbump.Bump(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid JSON")
	assert.Equal(t, app, readFile(t, dir, versionbump.AppFile))
}

func TestBumpMissingFile(t *testing.T) {
	_, err := versionbump.Bump(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), versionbump.AppFile)
}
