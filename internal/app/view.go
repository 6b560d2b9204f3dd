package app

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/tagstorm/internal/editor"
)

// Styles holds the styles used to draw an editor.
type Styles struct {
	Tag                tcell.Style
	SelectedTag        tcell.Style
	Input              tcell.Style
	Invalid            tcell.Style
	Placeholder        tcell.Style
	Suggestion         tcell.Style
	SelectedSuggestion tcell.Style
	Match              tcell.Style
	Status             tcell.Style
	StatusInvalid      tcell.Style
}

// DefaultStyles returns the default palette.
func DefaultStyles() Styles {
	base := tcell.StyleDefault
	return Styles{
		Tag:                base.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite),
		SelectedTag:        base.Background(tcell.ColorTeal).Foreground(tcell.ColorWhite).Bold(true),
		Input:              base,
		Invalid:            base.Foreground(tcell.ColorRed),
		Placeholder:        base.Foreground(tcell.ColorGray).Italic(true),
		Suggestion:         base,
		SelectedSuggestion: base.Reverse(true),
		Match:              base.Bold(true).Underline(true),
		Status:             base.Foreground(tcell.ColorGray),
		StatusInvalid:      base.Foreground(tcell.ColorYellow),
	}
}

type regionKind int

const (
	regionTag regionKind = iota
	regionRemove
	regionSuggestion
)

// region is a clickable span on one row, x1 exclusive.
type region struct {
	kind   regionKind
	index  int
	y      int
	x0, x1 int
}

// layout is the outcome of a draw: where things ended up.
type layout struct {
	regions []region
	cursorX int
	cursorY int
}

// hit returns the region under (x, y).
func (l layout) hit(x, y int) (region, bool) {
	for _, r := range l.regions {
		if r.y == y && x >= r.x0 && x < r.x1 {
			return r, true
		}
	}
	return region{}, false
}

// canvas writes styled text left to right, wrapping at the screen width.
type canvas struct {
	scr  tcell.Screen
	w, h int
	x, y int
}

func (c *canvas) newline() {
	c.x = 0
	c.y++
}

// put writes s, first moving to the next row when s does not fit on the
// current one. It returns the row and column span written.
func (c *canvas) put(s string, st tcell.Style) (y, x0, x1 int) {
	width := uniseg.StringWidth(s)
	if c.x > 0 && c.x+width > c.w {
		c.newline()
	}
	y, x0 = c.y, c.x
	for _, r := range s {
		if c.x >= c.w {
			c.newline()
		}
		if c.y >= c.h {
			break
		}
		c.scr.SetContent(c.x, c.y, r, nil, st)
		c.x += max(1, uniseg.StringWidth(string(r)))
	}
	return y, x0, c.x
}

// draw renders s onto scr and returns its layout. Tags and the input
// text flow together from the top; suggestions follow one per row; the
// last row holds the status line.
func draw(scr tcell.Screen, s editor.Snapshot, st Styles, status string) layout {
	scr.Clear()
	w, h := scr.Size()
	if w <= 0 || h <= 0 {
		return layout{}
	}

	c := &canvas{scr: scr, w: w, h: h - 1}
	var out layout

	for i, t := range s.Tags {
		style := st.Tag
		if i == s.Selected {
			style = st.SelectedTag
		}
		y, x0, x1 := c.put(" "+t+" ", style)
		out.regions = append(out.regions, region{kind: regionTag, index: i, y: y, x0: x0, x1: x1})
		if !s.Disabled && s.RemoveTag != "" {
			y, x0, x1 = c.put(s.RemoveTag+" ", style)
			out.regions = append(out.regions, region{kind: regionRemove, index: i, y: y, x0: x0, x1: x1})
		}
		c.put(" ", st.Input)
	}

	switch {
	case s.Text != "":
		style := st.Input
		if s.Invalid {
			style = st.Invalid
		}
		c.put(s.Text, style)
		out.cursorX, out.cursorY = c.x, c.y
	case !s.Disabled:
		out.cursorX, out.cursorY = c.x, c.y
		c.put(s.Placeholder, st.Placeholder)
	}

	if s.SuggestionsVisible {
		for i, sg := range s.Suggestions {
			c.newline()
			if c.y >= c.h {
				break
			}
			base, match := st.Suggestion, st.Match
			if i == s.SuggestionIndex {
				base, match = st.SelectedSuggestion, st.Match.Reverse(true)
			}
			x0 := c.x
			c.put("  ", base)
			for _, seg := range sg.Segments {
				style := base
				if seg.Match {
					style = match
				}
				c.put(seg.Text, style)
			}
			out.regions = append(out.regions, region{kind: regionSuggestion, index: i, y: c.y, x0: x0, x1: w})
		}
	}

	statusStyle := st.Status
	if !s.Validity.Valid() {
		statusStyle = st.StatusInvalid
	}
	footer := &canvas{scr: scr, w: w, h: h, y: h - 1}
	footer.put(status, statusStyle)

	return out
}

// statusLine describes the tag count and any failing validity flag.
func statusLine(s editor.Snapshot) string {
	line := fmt.Sprintf("%d tags", len(s.Tags))
	switch {
	case !s.Validity.MaxTags:
		line += " · too many tags"
	case !s.Validity.MinTags:
		line += " · too few tags"
	case !s.Validity.LeftoverText:
		line += " · text not added"
	}
	return line + " · Ctrl-C to finish"
}
