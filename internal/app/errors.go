package service

import "errors"

// ErrNotStarted is returned by prediction calls made before Start succeeded.
var ErrNotStarted = errors.New("service not started")
