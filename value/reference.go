package value

// Reference is the opaque identity wrapper AddressOf produces: it holds
// the environment frame and name of a live binding, re-read on every
// Dereference rather than snapshotting the value at capture time
// (spec.md §4.3, §9 — no raw pointer arithmetic in the core).
type Reference struct {
	Env  *Environment
	Name string
}

func (*Reference) valueNode()        {}
func (r *Reference) String() string { return "&" + r.Name }

// Read re-reads the referenced binding's current value.
func (r *Reference) Read() (Value, error) {
	return r.Env.Get(r.Name)
}

// Write mutates the referenced binding.
func (r *Reference) Write(v Value) error {
	return r.Env.Assign(r.Name, v)
}
