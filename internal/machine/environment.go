package machine

// Env is a stack of values indexed from the top by de Bruijn indices. It is
// a persistent linked list: pushing builds a new head over a shared tail, so
// a closure's snapshot is untouched by later pushes.
type Env struct {
	slot *slot
	next *Env
}

// slot is one environment entry. Recursive lets allocate the slot first and
// fill it after the closure is built, so the closure's environment contains
// its own binding without the environment itself being rebuilt.
type slot struct {
	value Value
}

// Push returns a new environment with v on top.
func (e *Env) Push(v Value) *Env {
	return &Env{slot: &slot{value: v}, next: e}
}

// Lookup returns the i-th value from the top. The boolean is false when the
// index is out of range or the slot is not filled yet; well-formed programs
// never hit either case.
func (e *Env) Lookup(i int) (Value, bool) {
	for e != nil && i > 0 {
		e = e.next
		i--
	}
	if e == nil || e.slot.value == nil {
		return nil, false
	}
	return e.slot.value, true
}

// Depth returns the number of entries.
func (e *Env) Depth() int {
	depth := 0
	for e != nil {
		depth++
		e = e.next
	}
	return depth
}
