package app

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/tagstorm/internal/input/key"
)

// convertKey converts a tcell key event. ok is false for keys the editor
// has no use for.
func convertKey(ev *tcell.EventKey) (key.Event, bool) {
	mods := convertMod(ev.Modifiers())

	switch k := ev.Key(); k {
	case tcell.KeyRune:
		return key.Event{Key: key.KeyRune, Rune: ev.Rune(), Modifiers: mods}, true
	case tcell.KeyEnter:
		return key.Special(key.KeyEnter, mods), true
	case tcell.KeyTab:
		return key.Special(key.KeyTab, mods), true
	case tcell.KeyBacktab:
		return key.Special(key.KeyTab, mods.With(key.ModShift)), true
	case tcell.KeyEscape:
		return key.Special(key.KeyEscape, mods), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.Special(key.KeyBackspace, mods), true
	case tcell.KeyDelete:
		return key.Special(key.KeyDelete, mods), true
	case tcell.KeyUp:
		return key.Special(key.KeyUp, mods), true
	case tcell.KeyDown:
		return key.Special(key.KeyDown, mods), true
	case tcell.KeyLeft:
		return key.Special(key.KeyLeft, mods), true
	case tcell.KeyRight:
		return key.Special(key.KeyRight, mods), true
	case tcell.KeyHome:
		return key.Special(key.KeyHome, mods), true
	case tcell.KeyEnd:
		return key.Special(key.KeyEnd, mods), true
	default:
		if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
			r := 'a' + rune(k-tcell.KeyCtrlA)
			return key.Event{Key: key.KeyRune, Rune: r, Modifiers: mods.With(key.ModCtrl)}, true
		}
		return key.Event{}, false
	}
}

func convertMod(m tcell.ModMask) key.Modifier {
	var mods key.Modifier
	if m&tcell.ModShift != 0 {
		mods = mods.With(key.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(key.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(key.ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(key.ModMeta)
	}
	return mods
}
