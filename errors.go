package fraggle

import "errors"

var (
	// ErrInvalidConfig signals an invalid overlay configuration.
	ErrInvalidConfig = errors.New("fraggle: invalid configuration")
	// ErrInvalidArgument is flagged whenever a node cannot be classified as
	// real node or group, or an argument combination is not supported.
	ErrInvalidArgument = errors.New("fraggle: invalid argument")
	// ErrNotFound signals a reference node which is not a child of the container.
	ErrNotFound = errors.New("fraggle: node not found")
	// ErrHierarchyRequest signals an insertion which would produce an illegal
	// structure, e.g. a group inserted into itself or a node placed twice.
	ErrHierarchyRequest = errors.New("fraggle: hierarchy request error")
	// ErrNotSupported marks operations which are intentionally not implemented
	// (removal, replacement, cloning, normalization).
	ErrNotSupported = errors.New("fraggle: operation not supported")
	// ErrClosed signals use of an overlay after Close.
	ErrClosed = errors.New("fraggle: overlay closed")
)
