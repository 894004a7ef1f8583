package picker

// Key is a decoded key press. Only the keys the picker reacts to are named.
type Key int

const (
	KeyOther Key = iota
	KeyUp
	KeyDown
	KeyEnter
	KeyEscape
)

func (k Key) String() string {
	switch k {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyEnter:
		return "enter"
	case KeyEscape:
		return "escape"
	default:
		return "other"
	}
}

// DecodeKeys splits the bytes of a raw-mode read into key presses. A single
// read can carry several keys when a key auto-repeats or input is pasted.
//
// Arrow keys arrive as CSI (ESC [ A) or SS3 (ESC O A) sequences; other CSI
// sequences (ESC [ 1 ; 5 A, ESC [ 3 ~) decode to KeyOther as a whole. A lone
// ESC is the Escape key, and Ctrl-C cancels like Escape because raw mode
// swallows SIGINT.
//
// An escape sequence cut off at the end of b is returned as rest so the
// caller can read more input before deciding what it is.
func DecodeKeys(b []byte) (keys []Key, rest []byte) {
	for len(b) > 0 {
		switch c := b[0]; {
		case c == '\r' && len(b) > 1 && b[1] == '\n':
			keys = append(keys, KeyEnter)
			b = b[2:]
		case c == '\r' || c == '\n':
			keys = append(keys, KeyEnter)
			b = b[1:]
		case c == 0x03:
			keys = append(keys, KeyEscape)
			b = b[1:]
		case c == 0x1b:
			key, n := decodeEscape(b)
			if n == 0 {
				return keys, b
			}
			keys = append(keys, key)
			b = b[n:]
		default:
			keys = append(keys, KeyOther)
			b = b[1:]
		}
	}
	return keys, nil
}

// FlushKeys decodes an incomplete escape sequence left over by DecodeKeys
// once no more input is coming: a lone ESC is Escape, anything else is
// KeyOther.
func FlushKeys(rest []byte) []Key {
	switch {
	case len(rest) == 0:
		return nil
	case len(rest) == 1:
		return []Key{KeyEscape}
	default:
		return []Key{KeyOther}
	}
}

// decodeEscape decodes the escape sequence at the start of b and returns its
// length, or 0 when b ends before the sequence does.
func decodeEscape(b []byte) (Key, int) {
	if len(b) < 2 {
		return KeyOther, 0
	}
	switch b[1] {
	case 0x1b:
		return KeyEscape, 1
	case 'O':
		if len(b) < 3 {
			return KeyOther, 0
		}
		return arrow(b[2]), 3
	case '[':
		// Parameter and intermediate bytes run up to a final byte in 0x40-0x7e.
		for i := 2; i < len(b); i++ {
			if b[i] >= 0x40 && b[i] <= 0x7e {
				if i == 2 {
					return arrow(b[i]), 3
				}
				return KeyOther, i + 1
			}
			if b[i] < 0x20 || b[i] > 0x3f {
				return KeyOther, i
			}
		}
		return KeyOther, 0
	default:
		// Alt-modified key.
		return KeyOther, 2
	}
}

func arrow(final byte) Key {
	switch final {
	case 'A':
		return KeyUp
	case 'B':
		return KeyDown
	}
	return KeyOther
}
