package config

import "errors"

var (
	ErrAddrNotFound        = errors.New("redis address is empty")
	ErrNonPositiveDuration = errors.New("duration must be positive")
)
