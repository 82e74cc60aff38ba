package scriptstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Scripts are timelines of toast actions stored as JSON, YAML or TOML, picked
// by file extension. Durations are written as strings like "1.5s".

var ErrUnsupportedFormat = errors.New("unsupported script format")

// Action is what a step does.
type Action string

const (
	ActionCreate  Action = "create"
	ActionDismiss Action = "dismiss"
	ActionClear   Action = "clear"
)

// Duration is a time.Duration that reads and writes as "3s".
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Step is one timed action. Target is the 1-based position, among the
// script's create steps, of the toast a dismiss step removes.
type Step struct {
	At       Duration `json:"at" yaml:"at" toml:"at"`
	Action   Action   `json:"action,omitempty" yaml:"action,omitempty" toml:"action,omitempty"`
	Variant  string   `json:"variant,omitempty" yaml:"variant,omitempty" toml:"variant,omitempty"`
	Title    string   `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Content  string   `json:"content,omitempty" yaml:"content,omitempty" toml:"content,omitempty"`
	Duration Duration `json:"duration,omitempty" yaml:"duration,omitempty" toml:"duration,omitempty"`
	Target   int      `json:"target,omitempty" yaml:"target,omitempty" toml:"target,omitempty"`
	// Sticky keeps the toast until dismissed even when a default duration
	// applies.
	Sticky bool `json:"sticky,omitempty" yaml:"sticky,omitempty" toml:"sticky,omitempty"`
}

// Kind returns the step's action, defaulting to create.
func (s Step) Kind() Action {
	if s.Action == "" {
		return ActionCreate
	}
	return s.Action
}

type Script struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Steps []Step `json:"steps" yaml:"steps" toml:"steps"`
}

// Validate checks actions, offsets and dismiss targets. Steps must be in
// time order.
func (s Script) Validate() error {
	creates := 0
	var last Duration
	for i, st := range s.Steps {
		if st.At < 0 {
			return fmt.Errorf("step %d: negative offset %s", i+1, time.Duration(st.At))
		}
		if st.At < last {
			return fmt.Errorf("step %d: offset %s is before the previous step", i+1, time.Duration(st.At))
		}
		last = st.At
		switch st.Kind() {
		case ActionCreate:
			creates++
		case ActionDismiss:
			if st.Target < 1 || st.Target > creates {
				return fmt.Errorf("step %d: dismiss target %d does not name an earlier create step", i+1, st.Target)
			}
		case ActionClear:
		default:
			return fmt.Errorf("step %d: unknown action %q", i+1, st.Action)
		}
	}
	return nil
}

// Load reads and validates a script. A missing file is an error.
func Load(path string) (Script, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("read file: %w", err)
	}
	var s Script
	switch format(path) {
	case "json":
		err = json.Unmarshal(b, &s)
	case "yaml":
		err = yaml.Unmarshal(b, &s)
	case "toml":
		err = toml.Unmarshal(b, &s)
	default:
		return Script{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return Script{}, fmt.Errorf("%s unmarshal: %w", format(path), err)
	}
	if err := s.Validate(); err != nil {
		return Script{}, err
	}
	return s, nil
}

// Save writes a script, refusing to overwrite an existing file.
func Save(path string, s Script) error {
	var (
		b   []byte
		err error
	)
	switch format(path) {
	case "json":
		b, err = json.MarshalIndent(s, "", "  ")
	case "yaml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		err = enc.Encode(s)
		b = buf.Bytes()
	case "toml":
		b, err = toml.Marshal(s)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("%s marshal: %w", format(path), err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(b); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// Sample is the script written by `toast script init`: three toasts a second
// apart, each living three seconds, plus a sticky one dismissed by hand.
func Sample() Script {
	sec := func(n float64) Duration { return Duration(time.Duration(n * float64(time.Second))) }
	return Script{
		Name: "staggered",
		Steps: []Step{
			{At: 0, Variant: "info", Content: "A: first", Duration: sec(3)},
			{At: sec(1), Variant: "success", Content: "B: second", Duration: sec(3)},
			{At: sec(2), Variant: "warning", Content: "C: third", Duration: sec(3)},
			{At: sec(2.5), Variant: "error", Title: "Sticky", Content: "D: stays until dismissed", Sticky: true},
			{At: sec(6), Action: ActionDismiss, Target: 4},
		},
	}
}

func format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	}
	return ""
}
