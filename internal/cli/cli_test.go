package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/toast/internal/clock"
	"github.com/idilsaglam/toast/internal/model"
	"github.com/idilsaglam/toast/internal/server"
	"github.com/idilsaglam/toast/internal/toast"
	"github.com/idilsaglam/toast/internal/ui"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("TOAST_TOKEN", "")
	t.Setenv("NO_COLOR", "")
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	t.Cleanup(func() { ui.SetColorForcing(false, false) })
	return dir
}

type result struct {
	code   int
	stdout string
	stderr string
}

func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetIn(strings.NewReader(stdin))
	code := run(context.Background(), root, args, &out, &errOut)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func apiServer(t *testing.T, token string) (*toast.Manager, string) {
	t.Helper()
	c := clock.NewManual(time.Now())
	m := toast.NewManager(toast.WithClock(c))
	s := server.New(m, server.WithToken(token))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Close()
		m.Close()
	})
	return m, ts.URL
}

func TestScriptInitAndSimulate(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "demo.yaml")

	r := execute(t, "", "script", "init", path)
	require.Equal(t, exitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "wrote "+path)

	r = execute(t, "", "script", "init", path)
	assert.Equal(t, exitError, r.code)

	r = execute(t, "", "simulate", path)
	require.Equal(t, exitOK, r.code, r.stderr)
	lines := strings.Split(strings.TrimSpace(r.stdout), "\n")
	require.Len(t, lines, 9)
	assert.Contains(t, lines[4], "+3.000s")
	assert.Contains(t, lines[4], "- expired")
	assert.Contains(t, lines[7], "+6.000s")
	assert.Contains(t, lines[7], "- manual")
	assert.Equal(t, "elapsed +6.000s", lines[8])
}

func TestSendListDismissClear(t *testing.T) {
	isolate(t)
	m, url := apiServer(t, "")

	r := execute(t, "", "--addr", url, "send", "--variant", "success", "build", "done")
	require.Equal(t, exitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "sent #1")

	list := m.List()
	require.Len(t, list, 1)
	assert.Equal(t, "build done", list[0].Content)
	assert.Equal(t, model.VariantSuccess, list[0].Variant)
	assert.Equal(t, 3*time.Second, list[0].Duration, "timing.success default")

	r = execute(t, "", "--addr", url, "send", "--duration", "0", "--title", "Note", "sticky")
	require.Equal(t, exitOK, r.code, r.stderr)
	assert.Zero(t, m.List()[1].Duration)

	r = execute(t, "", "--addr", url, "list")
	require.Equal(t, exitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Toasts (2)")
	assert.Contains(t, r.stdout, "build done")
	assert.Contains(t, r.stdout, "sticky")

	r = execute(t, "", "--addr", url, "dismiss", "1")
	require.Equal(t, exitOK, r.code, r.stderr)
	r = execute(t, "", "--addr", url, "dismiss", "1")
	require.Equal(t, exitOK, r.code, "dismissing twice is fine")
	assert.Len(t, m.List(), 1)

	r = execute(t, "", "--addr", url, "clear")
	require.Equal(t, exitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "cleared 1 toast")
	assert.Empty(t, m.List())
}

func TestUsageErrors(t *testing.T) {
	isolate(t)

	for _, args := range [][]string{
		{"dismiss"},
		{"dismiss", "abc"},
		{"send"},
		{"send", "--variant", "loud", "x"},
		{"send", "--duration=-1s", "x"},
		{"list", "--nope"},
	} {
		r := execute(t, "", args...)
		assert.Equal(t, exitUsage, r.code, args)
		assert.Contains(t, r.stderr, "Usage:", args)
	}
}

func TestTokenFlow(t *testing.T) {
	isolate(t)
	_, url := apiServer(t, "s3cret")

	r := execute(t, "", "--addr", url, "list")
	assert.Equal(t, exitError, r.code)
	assert.Contains(t, r.stderr, "toast auth login")

	r = execute(t, "", "auth", "status")
	require.Equal(t, exitOK, r.code)
	assert.Contains(t, r.stdout, "not logged in")

	r = execute(t, "Bearer s3cret\n", "auth", "login")
	require.Equal(t, exitOK, r.code, r.stderr)

	r = execute(t, "", "auth", "status")
	assert.Contains(t, r.stdout, "source: file")
	assert.Contains(t, r.stdout, "token: **cret")

	r = execute(t, "", "--addr", url, "list")
	require.Equal(t, exitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "no active toasts")

	r = execute(t, "", "auth", "logout")
	require.Equal(t, exitOK, r.code)
	r = execute(t, "", "--addr", url, "list")
	assert.Equal(t, exitError, r.code)

	t.Setenv("TOAST_TOKEN", "s3cret")
	r = execute(t, "", "--addr", url, "list")
	assert.Equal(t, exitOK, r.code, r.stderr)
	r = execute(t, "", "auth", "logout")
	assert.Contains(t, r.stdout, "nothing to delete")
}

func TestBadConfigFails(t *testing.T) {
	dir := isolate(t)
	r := execute(t, "", "--config", filepath.Join(dir, "missing.toml"), "list")
	assert.Equal(t, exitError, r.code)
}

func TestUnwritableLogFileIsNotFatal(t *testing.T) {
	dir := isolate(t)
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	t.Setenv("TOAST_LOG_FILE", filepath.Join(blocker, "toast.log"))

	path := filepath.Join(dir, "s.json")
	r := execute(t, "", "script", "init", path)
	require.Equal(t, exitOK, r.code, r.stderr)
	_, err := os.Stat(path)
	assert.NoError(t, err)

	// The state dir itself being a file breaks the default path the same way.
	t.Setenv("TOAST_LOG_FILE", "")
	t.Setenv("XDG_STATE_HOME", blocker)
	xdg.Reload()
	r = execute(t, "", "simulate", path)
	assert.Equal(t, exitOK, r.code, r.stderr)
}

func TestColorFlag(t *testing.T) {
	dir := isolate(t)

	r := execute(t, "", "--color", "always", "script", "init", filepath.Join(dir, "a.json"))
	require.Equal(t, exitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "\033[")

	r = execute(t, "", "--color", "never", "script", "init", filepath.Join(dir, "b.json"))
	require.Equal(t, exitOK, r.code, r.stderr)
	assert.NotContains(t, r.stdout, "\033[")

	// always still honours the mono theme
	r = execute(t, "", "--color", "always", "--theme", "mono", "script", "init", filepath.Join(dir, "c.json"))
	require.Equal(t, exitOK, r.code, r.stderr)
	assert.NotContains(t, r.stdout, "\033[")

	r = execute(t, "", "--color", "loud", "list")
	assert.Equal(t, exitUsage, r.code)
	assert.Contains(t, r.stderr, "invalid --color")
}

func TestNoColorEnv(t *testing.T) {
	dir := isolate(t)
	t.Setenv("NO_COLOR", "1")

	r := execute(t, "", "script", "init", filepath.Join(dir, "a.json"))
	require.Equal(t, exitOK, r.code, r.stderr)
	assert.NotContains(t, r.stdout, "\033[")

	r = execute(t, "", "--color", "always", "script", "init", filepath.Join(dir, "b.json"))
	require.Equal(t, exitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "\033[")
}
