package domain

import "errors"

var (
	// Distance matrix not square, or auxiliary arrays not aligned with it.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// Partition assignment out of range, incomplete, or non-positive group count.
	ErrInvalidPartition = errors.New("invalid partition")
	// Distance matrix entries violate symmetry, sign, or zero-diagonal rules.
	ErrInvalidMatrix = errors.New("invalid distance matrix")
	// Node time window or service time is malformed.
	ErrInvalidNode = errors.New("invalid node")
)
