package automation

import (
	"fmt"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/mj1618/cslogin/internal/model"
	"github.com/mj1618/cslogin/internal/platform"
)

// ActionKind distinguishes literal text from control keys.
type ActionKind int

const (
	ActionText ActionKind = iota
	ActionKey
)

// Action is one step of an injection script.
type Action struct {
	Kind  ActionKind
	Value string
}

// Text sends every character of s as its own keystroke.
func Text(s string) Action { return Action{Kind: ActionText, Value: s} }

// Key sends the named control key, e.g. platform.KeyTab.
func Key(name string) Action { return Action{Kind: ActionKey, Value: name} }

func (a Action) String() string {
	if a.Kind == ActionKey {
		return fmt.Sprintf("Key(%s)", a.Value)
	}
	return fmt.Sprintf("Text(%q)", a.Value)
}

// Script is an ordered list of actions, applied without feedback.
type Script []Action

// Validate checks that every key action names a known key.
func (s Script) Validate() error {
	for i, a := range s {
		if a.Kind != ActionKey {
			continue
		}
		if _, err := platform.ParseKey(a.Value); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

// Keystrokes counts the keystrokes the script sends: one per rune of text
// and one per key.
func (s Script) Keystrokes() int {
	n := 0
	for _, a := range s {
		if a.Kind == ActionText {
			n += utf8.RuneCountInString(a.Value)
		} else {
			n++
		}
	}
	return n
}

// LoginScript fills the SSMS "Connect to Server" dialog: server name, skip the
// authentication drop-down, login, password, then connect.
func LoginScript(c model.Credentials) Script {
	return Script{
		Text(c.Hostname),
		Key(platform.KeyTab),
		Key(platform.KeyTab),
		Text(c.Username),
		Key(platform.KeyTab),
		Text(c.Password),
		Key(platform.KeyEnter),
	}
}

// ParseScript reads a YAML list of steps, each a single-key map:
//
//	- text: db1
//	- key: tab
//	- text: sa
func ParseScript(data []byte) (Script, error) {
	var raw []map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML script: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("no steps provided; expected a YAML list of text/key steps")
	}

	script := make(Script, 0, len(raw))
	for i, step := range raw {
		if len(step) != 1 {
			return nil, fmt.Errorf("step %d: expected exactly one of text or key, got %d entries", i+1, len(step))
		}
		for kind, value := range step {
			switch kind {
			case "text":
				script = append(script, Text(value))
			case "key":
				script = append(script, Key(value))
			default:
				return nil, fmt.Errorf("step %d: unknown step type %q (supported: text, key)", i+1, kind)
			}
		}
	}
	if err := script.Validate(); err != nil {
		return nil, err
	}
	return script, nil
}
