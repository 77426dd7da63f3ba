package core

import (
	"errors"
)

var (
	// parameter classification
	ErrUnsupportedType         = errors.New("unsupported type")
	ErrEmptyArray              = errors.New("empty array")
	ErrHeterogeneousArray      = errors.New("heterogeneous array")
	ErrUnsupportedImageBinding = errors.New("unsupported image binding")
	ErrNilResource             = errors.New("nil resource")

	// typed parameter access
	ErrParameterNotFound = errors.New("parameter not found")
	ErrParameterType     = errors.New("parameter has a different type")

	// storage formats
	ErrInvalidArraySize = errors.New("array size must be at least 1")
	ErrDuplicateMember  = errors.New("member already exists")

	// program and binding caches
	ErrProgramGeneration        = errors.New("program generation failed")
	ErrAttributeBudgetExceeded  = errors.New("maximum vertex attributes exceeded")
	ErrUnsupportedAttributeType = errors.New("unsupported vertex attribute type")
	ErrContextDestroyed         = errors.New("render context destroyed")
	ErrUnsupportedFeature       = errors.New("feature not supported by the driver")
	ErrInvalidDrawRange         = errors.New("invalid draw range")

	ErrQueueFull  = errors.New("queue is full")
	ErrQueueEmpty = errors.New("queue is empty")

	ErrInvalidConfig = errors.New("invalid configuration")
	ErrUnknown       = errors.New("unknown")
)
