package gc

// Exempt marks o as not collectable until the matching Unexempt. Exemption
// nests; an exempted object also keeps everything it references alive.
func (h *Heap) Exempt(o *Object) {
	o.check("Exempt")
	o.noGC++
	h.exempted = append(h.exempted, o)
}

// Unexempt lifts one level of exemption from o.
func (h *Heap) Unexempt(o *Object) {
	if o.noGC == 0 {
		violate("Unexempt", "object #%d (%s) is not exempt", o.ID, o.Kind)
	}
	o.noGC--
	for i := len(h.exempted) - 1; i >= 0; i-- {
		if h.exempted[i] == o {
			copy(h.exempted[i:], h.exempted[i+1:])
			h.exempted[len(h.exempted)-1] = nil
			h.exempted = h.exempted[:len(h.exempted)-1]
			break
		}
	}
}

// Build runs fn with o exempt, lifting the exemption on every exit path.
// It is the scoped form used while filling an aggregate under construction.
func (h *Heap) Build(o *Object, fn func() error) error {
	h.Exempt(o)
	defer h.Unexempt(o)
	return fn()
}

// Exempted returns the number of active exemptions.
func (h *Heap) Exempted() int {
	return len(h.exempted)
}
