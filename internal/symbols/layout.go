package symbols

// CaptureEntry is one row of a function's capture table as the emitter sees it.
type CaptureEntry struct {
	SymbolID    int
	Name        string
	Global      bool
	Slot        int
	ParentIndex int
}

// FunctionLayout is what the bytecode emitter needs from a function scope:
// the frame size and the capture table to copy at closure creation.
type FunctionLayout struct {
	Name      string
	FrameSize int
	Captures  []CaptureEntry
}

// Layout returns the layout of the function containing s.
func (s *Scope) Layout() FunctionLayout {
	fn := s.Function
	l := FunctionLayout{
		Name:      fn.Name,
		FrameSize: fn.FrameSize(),
	}
	for i, sym := range fn.Captured {
		l.Captures = append(l.Captures, CaptureEntry{
			SymbolID:    sym.ID,
			Name:        sym.Name,
			Global:      sym.Global,
			Slot:        sym.Slot,
			ParentIndex: fn.CapIndices[i],
		})
	}
	return l
}

// FrameSize is the number of local slots the function allocates.
// Globals owned by the root and top-level scopes do not occupy frame slots.
func (s *Scope) FrameSize() int {
	n := 0
	for _, sym := range s.Function.Owned {
		if !sym.Global {
			n++
		}
	}
	return n
}
