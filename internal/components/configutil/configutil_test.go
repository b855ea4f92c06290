package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	ApiBase  string `json:"api_base"`
	SiteBase string `json:"site_base"`
	Username string `json:"username"`
	Verbose  bool   `json:"verbose"`
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	err := os.WriteFile(path, []byte(contents), 0600)
	require.NoError(t, err)
}

func TestSplitExt(t *testing.T) {
	testCases := []struct {
		name   string
		prefix string
		ext    string
	}{
		{name: "config.json5", prefix: "config", ext: "json5"},
		{name: "config.local.json5", prefix: "config.local", ext: "json5"},
		{name: "config", prefix: "config", ext: ""},
	}
	for _, test := range testCases {
		prefix, ext := splitExt(test.name)
		require.Equal(t, test.prefix, prefix, test.name)
		require.Equal(t, test.ext, ext, test.name)
	}
}

func TestReadConfigMergesLocal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json5"), `{
		// comments and trailing commas are fine in json5
		api_base: "https://hacker-news.firebaseio.com/v0",
		site_base: "https://news.ycombinator.com",
		username: "default",
	}`)
	writeFile(t, filepath.Join(dir, "config.local.json5"), `{
		username: "pg",
		verbose: true,
	}`)

	config, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.NoError(t, err)

	expected := testConfig{
		ApiBase:  "https://hacker-news.firebaseio.com/v0",
		SiteBase: "https://news.ycombinator.com",
		Username: "pg",
		Verbose:  true,
	}
	if diff := cmp.Diff(expected, config); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestReadConfigOnlyLocal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.local.json5"), `{username: "dang"}`)

	config, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.NoError(t, err)
	require.Equal(t, "dang", config.Username)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "config.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadConfigMalformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json5"), `{username: `)

	_, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.Error(t, err)
	require.NotErrorIs(t, err, os.ErrNotExist)
}

func TestReadRecursively(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	writeFile(t, filepath.Join(root, "telemetry.json5"), `{username: "found"}`)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	defer os.Chdir(wd)

	config, err := ReadRecursively[testConfig]("telemetry.json5")
	require.NoError(t, err)
	require.Equal(t, "found", config.Username)

	_, err = ReadRecursively[testConfig]("does-not-exist.json5")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestWithDefaults(t *testing.T) {
	config, err := WithDefaults(
		testConfig{Username: "pg"},
		testConfig{
			ApiBase:  "https://hacker-news.firebaseio.com/v0",
			SiteBase: "https://news.ycombinator.com",
			Username: "ignored",
		},
	)
	require.NoError(t, err)
	require.Equal(t, "pg", config.Username)
	require.Equal(t, "https://hacker-news.firebaseio.com/v0", config.ApiBase)
	require.Equal(t, "https://news.ycombinator.com", config.SiteBase)
}
