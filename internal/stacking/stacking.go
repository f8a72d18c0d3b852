// Package stacking computes the scroll-stacking layout of a vertical list of
// cards: which card is active for the current viewport and how every other
// card is offset, scaled and faded around it.
package stacking

import (
	"fmt"
	"math"
)

const (
	DefaultThreshold   = 100.0
	DefaultSlideOffset = 50.0
)

// Rect is an item's bounding box relative to the viewport top.
type Rect struct {
	Top    float64
	Bottom float64
}

// VisibleHeight is the part of r inside a viewport of the given height.
func VisibleHeight(r Rect, viewportHeight float64) float64 {
	top := math.Max(r.Top, 0)
	bottom := math.Min(r.Bottom, viewportHeight)
	return math.Max(0, bottom-top)
}

// Selector picks the active index for a set of item rects.
type Selector func(items []Rect, viewportHeight float64) int

// MostVisible selects the item with the greatest visible height. Ties keep
// the earlier item; an empty or fully hidden list selects 0.
func MostVisible(items []Rect, viewportHeight float64) int {
	active, best := 0, 0.0
	for i, r := range items {
		if h := VisibleHeight(r, viewportHeight); h > best {
			active, best = i, h
		}
	}
	return active
}

// Threshold returns a selector picking the topmost item whose visible height
// exceeds threshold, or 0 when none does. A non-positive threshold uses
// DefaultThreshold.
func Threshold(threshold float64) Selector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return func(items []Rect, viewportHeight float64) int {
		for i, r := range items {
			if VisibleHeight(r, viewportHeight) > threshold {
				return i
			}
		}
		return 0
	}
}

type Style struct {
	TranslateY   float64
	Scale        float64
	Opacity      float64
	ZIndex       int
	Blurred      bool
	Interactive  bool
	OriginBottom bool
}

// Transform renders the CSS transform value.
func (s Style) Transform() string {
	return fmt.Sprintf("translateY(%gpx) scale(%g)", s.TranslateY, s.Scale)
}

// StyleFor derives the style of item index given the active index.
func StyleFor(index, active int, slideOffset float64) Style {
	if slideOffset <= 0 {
		slideOffset = DefaultSlideOffset
	}
	switch {
	case index < active:
		return Style{
			TranslateY: slideOffset * 2,
			Scale:      0.95,
			Opacity:    0.3,
			ZIndex:     1,
			Blurred:    true,
		}
	case index == active:
		return Style{
			Scale:       1,
			Opacity:     1,
			ZIndex:      10,
			Interactive: true,
		}
	}

	k := index - active
	z := 10 - k
	if z < 0 {
		z = 0
	}
	return Style{
		TranslateY:   -slideOffset * float64(k),
		Scale:        round2(1 - 0.05*float64(k)),
		Opacity:      math.Max(0, round2(1-0.2*float64(k))),
		ZIndex:       z,
		OriginBottom: true,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Layout is the active index together with the style of every item.
type Layout struct {
	Active int
	Styles []Style
}

// Compute selects the active item with sel and styles every item around it.
func Compute(items []Rect, viewportHeight float64, sel Selector, slideOffset float64) Layout {
	if sel == nil {
		sel = MostVisible
	}
	active := sel(items, viewportHeight)
	styles := make([]Style, len(items))
	for i := range items {
		styles[i] = StyleFor(i, active, slideOffset)
	}
	return Layout{Active: active, Styles: styles}
}
