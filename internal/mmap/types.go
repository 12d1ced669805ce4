package mmap

import (
	"encoding/binary"
	"errors"
)

// AccessPattern is a paging hint for a mapping.
type AccessPattern int

const (
	// AccessDefault leaves read-ahead to the kernel.
	AccessDefault AccessPattern = iota
	// AccessRandom disables read-ahead; views index memory at arbitrary offsets.
	AccessRandom
)

var (
	// ErrClosed is returned when attempting to use a closed mapping.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidSize is returned when the requested size is not positive.
	ErrInvalidSize = errors.New("mmap: invalid size")
	// ErrOutOfBounds is returned when a region falls outside the mapping.
	ErrOutOfBounds = errors.New("mmap: out of bounds")
	// ErrNotRetained is returned when Release is called without a matching Retain.
	ErrNotRetained = errors.New("mmap: release without retain")
)

type options struct {
	order binary.ByteOrder
}

// Option configures a mapping.
type Option func(*options)

// WithOrder declares the byte order of the mapping's contents.
// If nil is passed, big-endian is used.
func WithOrder(order binary.ByteOrder) Option {
	return func(o *options) {
		if order == nil {
			order = binary.BigEndian
		}
		o.order = order
	}
}

func applyOptions(opts []Option) options {
	o := options{order: binary.BigEndian}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
