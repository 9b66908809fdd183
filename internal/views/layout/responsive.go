package layout

import (
	"fyne.io/fyne/v2"
)

// Class is the arrangement chosen for a given width.
type Class int

const (
	// Stacked puts every control in a single full-width column.
	Stacked Class = iota
	// Grid uses three columns: select | path | extract, the text area across
	// all three, then the save buttons under the outer columns.
	Grid
)

func (c Class) String() string {
	if c == Grid {
		return "grid"
	}
	return "stacked"
}

// Object slots. The container handed to ResponsiveLayout must hold exactly
// these six objects in this order.
const (
	SlotSelect = iota
	SlotPath
	SlotExtract
	SlotText
	SlotSaveWord
	SlotSavePDF
	slotCount
)

// ClassFor returns Stacked below threshold and Grid at or above it.
func ClassFor(width, threshold float32) Class {
	if width < threshold {
		return Stacked
	}
	return Grid
}

// ResponsiveLayout re-arranges the same six controls whenever the container
// is resized. It never adds or removes objects.
type ResponsiveLayout struct {
	threshold float32
	padding   float32
	current   Class
	laidOut   bool
	onChange  func(Class)
}

// NewResponsiveLayout switches arrangement at threshold pixels. onChange, if
// not nil, is called whenever the class differs from the previous Layout call.
func NewResponsiveLayout(threshold, padding float32, onChange func(Class)) *ResponsiveLayout {
	return &ResponsiveLayout{
		threshold: threshold,
		padding:   padding,
		onChange:  onChange,
	}
}

// Current returns the class used by the last Layout call.
func (rl *ResponsiveLayout) Current() Class {
	return rl.current
}

func (rl *ResponsiveLayout) Layout(objects []fyne.CanvasObject, containerSize fyne.Size) {
	if len(objects) < slotCount {
		return
	}

	class := ClassFor(containerSize.Width, rl.threshold)
	if !rl.laidOut || class != rl.current {
		rl.current = class
		rl.laidOut = true
		if rl.onChange != nil {
			rl.onChange(class)
		}
	}

	if class == Stacked {
		rl.layoutStacked(objects, containerSize)
	} else {
		rl.layoutGrid(objects, containerSize)
	}
}

func (rl *ResponsiveLayout) layoutStacked(objects []fyne.CanvasObject, size fyne.Size) {
	fixed := float32(0)
	for i := 0; i < slotCount; i++ {
		if i != SlotText {
			fixed += objects[i].MinSize().Height
		}
	}
	textHeight := size.Height - fixed - rl.padding*float32(slotCount-1)
	if min := objects[SlotText].MinSize().Height; textHeight < min {
		textHeight = min
	}

	y := float32(0)
	for i := 0; i < slotCount; i++ {
		h := objects[i].MinSize().Height
		if i == SlotText {
			h = textHeight
		}
		objects[i].Move(fyne.NewPos(0, y))
		objects[i].Resize(fyne.NewSize(size.Width, h))
		y += h + rl.padding
	}
}

func (rl *ResponsiveLayout) layoutGrid(objects []fyne.CanvasObject, size fyne.Size) {
	left := maxWidth(objects[SlotSelect], objects[SlotSaveWord])
	right := maxWidth(objects[SlotExtract], objects[SlotSavePDF])
	middle := size.Width - left - right - 2*rl.padding
	if middle < 0 {
		middle = 0
	}

	top := maxHeight(objects[SlotSelect], objects[SlotPath], objects[SlotExtract])
	bottom := maxHeight(objects[SlotSaveWord], objects[SlotSavePDF])
	textHeight := size.Height - top - bottom - 2*rl.padding
	if min := objects[SlotText].MinSize().Height; textHeight < min {
		textHeight = min
	}

	place := func(obj fyne.CanvasObject, x, y, w, h float32) {
		obj.Move(fyne.NewPos(x, y))
		obj.Resize(fyne.NewSize(w, h))
	}

	midX := left + rl.padding
	rightX := midX + middle + rl.padding
	place(objects[SlotSelect], 0, 0, left, top)
	place(objects[SlotPath], midX, 0, middle, top)
	place(objects[SlotExtract], rightX, 0, right, top)

	textY := top + rl.padding
	place(objects[SlotText], 0, textY, size.Width, textHeight)

	bottomY := textY + textHeight + rl.padding
	place(objects[SlotSaveWord], 0, bottomY, left, bottom)
	place(objects[SlotSavePDF], rightX, bottomY, right, bottom)
}

// MinSize is the larger of the two arrangements' minimums, so the window
// never shrinks below what the stacked column needs.
func (rl *ResponsiveLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < slotCount {
		return fyne.NewSize(0, 0)
	}

	width := float32(0)
	height := rl.padding * float32(slotCount-1)
	for i := 0; i < slotCount; i++ {
		m := objects[i].MinSize()
		if m.Width > width {
			width = m.Width
		}
		height += m.Height
	}
	return fyne.NewSize(width, height)
}

func maxWidth(objs ...fyne.CanvasObject) float32 {
	w := float32(0)
	for _, o := range objs {
		if m := o.MinSize().Width; m > w {
			w = m
		}
	}
	return w
}

func maxHeight(objs ...fyne.CanvasObject) float32 {
	h := float32(0)
	for _, o := range objs {
		if m := o.MinSize().Height; m > h {
			h = m
		}
	}
	return h
}
