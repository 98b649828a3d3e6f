package graph

import "errors"

// Sentinel errors returned by graph operations. Callers match them with
// errors.Is; the returned errors wrap them with the offending key.
var (
	// ErrUnknownNode indicates that an operation referenced a node key that is
	// not in the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownEdge indicates that no edge connects the given endpoints.
	// Directed graphs match (source, target) in that order only.
	ErrUnknownEdge = errors.New("unknown edge")

	// ErrAttributeNotFound indicates an attribute lookup on a name the store
	// does not hold.
	ErrAttributeNotFound = errors.New("attribute not found")

	// ErrMalformedRecord indicates a record that is missing required fields
	// or whose edges reference node ids the record does not define.
	ErrMalformedRecord = errors.New("malformed record")
)
