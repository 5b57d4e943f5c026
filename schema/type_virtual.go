// This file defines the Virtual SchemaType: a computed field that
// participates in getter application but is never part of the persisted
// or exported document.
package schema

// VirtualGetter computes a virtual field's value from the rest of the
// document.
type VirtualGetter func(doc Doc) any

// VirtualSetter assigns a virtual field's incoming value back onto the
// document, typically by splitting it across other paths.
type VirtualSetter func(doc Doc, value any)

// VirtualType never holds persisted state of its own; Cast runs the
// configured getter, and Value always reports Undefined so the export
// stack drops it.
type VirtualType struct {
	baseType
	getter VirtualGetter
	setter VirtualSetter
}

// NewVirtualType constructs a Virtual SchemaType computed by getter.
func NewVirtualType(getter VirtualGetter) *VirtualType {
	return &VirtualType{baseType: newBaseType("Virtual", TypeOptions{}), getter: getter}
}

// Set registers the setter invoked when a caller assigns to this virtual
// path, returning the receiver for chaining.
func (t *VirtualType) Set(setter VirtualSetter) *VirtualType {
	t.setter = setter
	return t
}

func (t *VirtualType) Cast(_ any, doc Doc) any {
	if t.getter == nil {
		return Undefined
	}
	return t.getter(doc)
}

func (t *VirtualType) Validate(_ any, _ Doc) (any, error) {
	return Undefined, nil
}

func (t *VirtualType) Value(_ any, _ Doc) any {
	return Undefined
}

// ApplySetter invokes the configured setter, if any, with the document and
// incoming value. Called directly by the Schema's setter stack rather than
// through the SchemaType interface, since setting a virtual is a
// side-effecting operation on the whole document, not a per-path value
// transform.
func (t *VirtualType) ApplySetter(doc Doc, value any) {
	if t.setter != nil {
		t.setter(doc, value)
	}
}
