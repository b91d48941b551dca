// Package message defines the typed records a Shimmer line decodes into.
//
// A line has the form
//
//	<routing><action><metadata*><τdigits?><deliverable*>→[v0,v1,v2,v3(,v4)]
//
// and is represented as a ParsedMessage holding a Container (left of the
// arrow) and a Vector (right of it). Optional values use pointers so that
// absent and zero are distinct: a nil Container.Deadline means no temporal
// token, a nil Vector.Numbers means no valid 4- or 5-tuple.
package message
