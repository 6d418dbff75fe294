package application

import "errors"

var (
	ErrInvalidRange   = errors.New("invalid range")
	ErrInvalidStatus  = errors.New("invalid order status")
	ErrImagesDisabled = errors.New("image storage is not configured")
	ErrEmptyUpdate    = errors.New("nothing to update")
)
