package service

import "errors"

var (
	ErrSameToken    = errors.New("token in and token out are equal")
	ErrUnknownToken = errors.New("unknown token")
	ErrPairMismatch = errors.New("pair does not hold token in/token out")
)
