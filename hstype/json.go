package hstype

import "encoding/json"

// JSON serialization support for model types.
// All types include a "kind" field for type discrimination.

// MarshalJSON implements json.Marshaler for Primitive.
func (p Primitive) MarshalJSON() ([]byte, error) {
	switch p.Kind() {
	case KindUnit:
		return json.Marshal(&struct {
			Kind string `json:"kind"`
		}{Kind: "unit"})
	case KindCString:
		return json.Marshal(&struct {
			Kind string `json:"kind"`
		}{Kind: "cstring"})
	}
	return json.Marshal(&struct {
		Kind string `json:"kind"`
		Name string `json:"name"`
	}{
		Kind: "scalar",
		Name: p.String(),
	})
}

// MarshalJSON implements json.Marshaler for PtrType.
func (t *PtrType) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind string `json:"kind"`
		Elem Type   `json:"elem"`
	}{
		Kind: "ptr",
		Elem: t.elem,
	})
}

// MarshalJSON implements json.Marshaler for IOType.
func (t *IOType) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind string `json:"kind"`
		Elem Type   `json:"elem"`
	}{
		Kind: "io",
		Elem: t.elem,
	})
}

// MarshalJSON implements json.Marshaler for FunPtrType.
func (t *FunPtrType) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind  string `json:"kind"`
		Types []Type `json:"types"`
	}{
		Kind:  "funptr",
		Types: t.types,
	})
}
