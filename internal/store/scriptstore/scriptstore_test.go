package scriptstore_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/idilsaglam/toast/internal/store/scriptstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadFormats(t *testing.T) {
	files := map[string]string{
		"s.json": `{"name":"x","steps":[
			{"at":"0s","variant":"info","content":"a","duration":"3s"},
			{"at":"1.5s","action":"dismiss","target":1}]}`,
		"s.yaml": `
name: x
steps:
  - at: 0s
    variant: info
    content: a
    duration: 3s
  - at: 1.5s
    action: dismiss
    target: 1
`,
		"s.toml": `
name = "x"

[[steps]]
at = "0s"
variant = "info"
content = "a"
duration = "3s"

[[steps]]
at = "1.5s"
action = "dismiss"
target = 1
`,
	}
	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			s, err := scriptstore.Load(write(t, name, content))
			require.NoError(t, err)
			require.Len(t, s.Steps, 2)
			assert.Equal(t, "x", s.Name)
			assert.Equal(t, scriptstore.ActionCreate, s.Steps[0].Kind())
			assert.Equal(t, scriptstore.Duration(3*time.Second), s.Steps[0].Duration)
			assert.Equal(t, scriptstore.Duration(1500*time.Millisecond), s.Steps[1].At)
			assert.Equal(t, scriptstore.ActionDismiss, s.Steps[1].Kind())
			assert.Equal(t, 1, s.Steps[1].Target)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := scriptstore.Load(write(t, "s.txt", "steps"))
	assert.ErrorIs(t, err, scriptstore.ErrUnsupportedFormat)

	_, err = scriptstore.Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = scriptstore.Load(write(t, "s.json", `{"steps":[{"at":"soon"}]}`))
	assert.ErrorContains(t, err, "soon")

	_, err = scriptstore.Load(write(t, "s.json", `{"steps":[{"action":"dismiss","target":1}]}`))
	assert.ErrorContains(t, err, "dismiss target")

	_, err = scriptstore.Load(write(t, "s.json", `{"steps":[{"at":"2s"},{"at":"1s"}]}`))
	assert.ErrorContains(t, err, "before the previous step")

	_, err = scriptstore.Load(write(t, "s.json", `{"steps":[{"action":"explode"}]}`))
	assert.ErrorContains(t, err, "unknown action")
}

func TestSaveThenLoadSample(t *testing.T) {
	for _, ext := range []string{".json", ".yaml", ".toml"} {
		t.Run(ext, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), "sample"+ext)
			require.NoError(t, scriptstore.Save(p, scriptstore.Sample()))

			got, err := scriptstore.Load(p)
			require.NoError(t, err)
			assert.Equal(t, scriptstore.Sample(), got)
		})
	}
}

func TestSaveRefusesOverwrite(t *testing.T) {
	p := write(t, "s.json", "{}")
	err := scriptstore.Save(p, scriptstore.Sample())
	assert.ErrorIs(t, err, os.ErrExist)
}
