package automation

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/mj1618/cslogin/internal/platform"
)

// Injector sends scripts to whatever holds input focus.
//
// Injection is open loop. Nothing confirms that a keystroke reached the
// intended field: if the target loses focus or closes mid-script the rest
// of the keystrokes are lost. Send failures reported by the backend are
// logged and skipped, never retried.
type Injector struct {
	Inputter platform.Inputter
	// Delay is slept between keystrokes.
	Delay  time.Duration
	Logger *log.Logger
}

// Inject validates script and then sends its actions strictly in order.
// The only error returned is a validation error, before anything is sent.
func (inj *Injector) Inject(script Script) error {
	if err := script.Validate(); err != nil {
		return err
	}

	for _, a := range script {
		switch a.Kind {
		case ActionText:
			for _, ch := range a.Value {
				inj.send(a, inj.Inputter.TypeChar(ch))
			}
		case ActionKey:
			inj.send(a, inj.Inputter.PressKey(a.Value))
		}
	}
	return nil
}

func (inj *Injector) send(a Action, err error) {
	if err != nil && inj.Logger != nil {
		// Text values may be secrets; only the kind is logged.
		if a.Kind == ActionKey {
			inj.Logger.Warn("keystroke dropped", "key", a.Value, "err", err)
		} else {
			inj.Logger.Warn("keystroke dropped", "action", "text", "err", err)
		}
	}
	if inj.Delay > 0 {
		time.Sleep(inj.Delay)
	}
}
