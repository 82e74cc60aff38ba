package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/toast/internal/api"
	"github.com/idilsaglam/toast/internal/model"
	"github.com/idilsaglam/toast/internal/playback"
	"github.com/idilsaglam/toast/internal/toast"
)

func useTheme(t *testing.T, name string) {
	t.Helper()
	SetTheme(name)
	SetColorForcing(false, true)
	t.Cleanup(func() {
		SetTheme("classic")
		SetColorForcing(false, false)
	})
}

func TestProgressBar(t *testing.T) {
	useTheme(t, "mono")

	assert.Equal(t, "..........   0%", ProgressBar(0, 4, 10))
	assert.Equal(t, "#####.....  50%", ProgressBar(2, 4, 10))
	assert.Equal(t, "########## 100%", ProgressBar(9, 4, 10))
	assert.Equal(t, ".....   0%", ProgressBar(-1, 0, 1))
}

func TestPanelPadsToWidestLine(t *testing.T) {
	useTheme(t, "mono")

	var buf bytes.Buffer
	Panel(&buf, []string{"ab", "\033[31mabcd\033[0m"})
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "+------+", lines[0])
	assert.Equal(t, "| ab   |", lines[1])
	assert.Equal(t, "+------+", lines[3])
}

func TestToastLine(t *testing.T) {
	useTheme(t, "mono")
	now := time.Unix(100, 0)
	exp := now.Add(time.Second)

	line := ToastLine(api.Toast{ID: 3, Variant: "error", Title: "Disk", Content: "full", Duration: "2s", ExpiresAt: &exp}, now)
	assert.Equal(t, "x #3 Disk  full  ######......  50% 1s", line)

	line = ToastLine(api.Toast{ID: 4, Variant: "info", Content: "hi"}, now)
	assert.Equal(t, "i #4 hi  sticky", line)
}

func TestToastsEmpty(t *testing.T) {
	useTheme(t, "mono")
	var buf bytes.Buffer
	Toasts(&buf, nil, time.Now())
	assert.Equal(t, "no active toasts\n", buf.String())
}

func TestTimeline(t *testing.T) {
	useTheme(t, "mono")
	a := model.Toast{ID: 1, Variant: model.VariantSuccess, Content: "saved"}
	b := model.Toast{ID: 2, Variant: model.VariantError, Content: "stuck"}
	res := playback.Result{
		Timeline: []playback.Entry{
			{Offset: 0, Event: toast.Event{Kind: toast.EventCreated, Toast: a}},
			{Offset: 1500 * time.Millisecond, Event: toast.Event{Kind: toast.EventCreated, Toast: b}},
			{Offset: 3 * time.Second, Event: toast.Event{Kind: toast.EventDismissed, Toast: a, Reason: toast.ReasonExpired}},
		},
		Remaining: []model.Toast{b},
		Elapsed:   3 * time.Second,
	}

	var buf bytes.Buffer
	Timeline(&buf, res)
	out := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, out, 4)
	assert.Contains(t, out[0], "+0.000s")
	assert.Contains(t, out[0], "+ created")
	assert.Contains(t, out[1], "+1.500s")
	assert.Contains(t, out[2], "- expired")
	assert.Equal(t, "elapsed +3.000s, 1 still active: #2", out[3])
}
