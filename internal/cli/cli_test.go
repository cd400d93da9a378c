package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gokeyring "github.com/zalando/go-keyring"

	"asakatsu/internal/config"
	"asakatsu/internal/credentials"
)

const entriesFixture = `[
  {"start": "2023-01-04T21:30:00Z", "stop": "2023-01-04T22:10:00Z", "project_id": 187670676, "duration": 2400},
  {"start": "2023-01-05T22:00:00Z", "stop": null, "project_id": 187670676, "duration": -1},
  {"start": "2023-02-01T00:00:00Z", "stop": "2023-02-01T00:00:00Z", "project_id": 187670687, "duration": 0}
]`

func fileSource(t *testing.T) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "entries.json")
	require.NoError(t, os.WriteFile(path, []byte(entriesFixture), 0o600))
	t.Setenv("ENTRY_SOURCE", "file")
	t.Setenv("ENTRIES_FILE", path)
	t.Setenv("LOG_FILE", "")

	prev := now
	now = func() time.Time { return time.Date(2023, 6, 10, 3, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = prev })
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestYearCSV(t *testing.T) {
	fileSource(t)

	out, _, err := run(t, "", "year", "--format", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 366)
	assert.Equal(t, "date,training,books,english,self_study", lines[0])
	assert.Equal(t, "2023-01-01,,,,", lines[1])
	assert.Contains(t, lines, "2023-01-05,2400,,,")
	assert.Contains(t, lines, "2023-02-01,,0,,", "zero duration is a present zero")
	assert.Contains(t, lines, "2023-01-06,,,,", "running entry is dropped")
}

func TestYearJSONAndTerminal(t *testing.T) {
	fileSource(t)

	out, _, err := run(t, "", "year", "-f", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"year": 2023`)
	assert.Contains(t, out, `"2023-01-05": 2400`)

	out, _, err = run(t, "", "year", "--ago", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "(2022)")
}

func TestYearRejectsBadFlags(t *testing.T) {
	fileSource(t)

	_, _, err := run(t, "", "year", "--ago", "3")
	assert.Error(t, err)

	_, _, err = run(t, "", "year", "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestLoadAndValidateConfig_KeyringToken(t *testing.T) {
	gokeyring.MockInit()
	t.Setenv("ENTRY_SOURCE", "toggl")
	t.Setenv("TOGGL_API_TOKEN", "")
	t.Setenv("API_KEY", "")

	_, err := LoadAndValidateConfig()
	require.Error(t, err, "no token anywhere")

	require.NoError(t, credentials.SetToken("from-keyring"))
	cfg, err := LoadAndValidateConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-keyring", cfg.TogglAPIToken)

	t.Setenv("TOGGL_API_TOKEN", "from-env")
	cfg, err = LoadAndValidateConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.TogglAPIToken)
}

func TestTokenCommands(t *testing.T) {
	gokeyring.MockInit()

	out, _, err := run(t, "secret\n", "token", "set")
	require.NoError(t, err)
	assert.Contains(t, out, "stored")
	tok, err := credentials.Token()
	require.NoError(t, err)
	assert.Equal(t, "secret", tok)

	_, _, err = run(t, "", "token", "set", "other")
	require.NoError(t, err)
	tok, _ = credentials.Token()
	assert.Equal(t, "other", tok)

	out, _, err = run(t, "", "token", "delete")
	require.NoError(t, err)
	assert.Contains(t, out, "removed")

	out, _, err = run(t, "", "token", "delete")
	require.NoError(t, err)
	assert.Contains(t, out, "No token stored")

	_, _, err = run(t, "", "token", "set")
	assert.Error(t, err)
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	doc := `{"caption": "from file", "sections": [{"title": "本棚", "links": [{"label": "ブクログ", "url": "https://booklog.jp/users/x"}]}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	cfg := &config.Config{
		ProfileFile:    path,
		ProfileCaption: "from env",
		ProfileLinks:   "Twitter|https://twitter.com/x",
	}
	prof, err := LoadProfile(cfg)
	require.NoError(t, err)
	assert.Equal(t, "from env", prof.Caption)
	require.Len(t, prof.Sections, 2)
	assert.Equal(t, "Links", prof.Sections[0].Title)
	assert.Equal(t, "Twitter", prof.Sections[0].Links[0].Label)
	assert.Equal(t, "本棚", prof.Sections[1].Title)

	require.NoError(t, os.WriteFile(path, []byte(`{"sections": [{"title": ""}]}`), 0o600))
	_, err = LoadProfile(cfg)
	assert.Error(t, err)
}
