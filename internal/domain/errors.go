package domain

import "errors"

var (
	// ErrDecode is returned when a source image cannot be read
	ErrDecode = errors.New("image decode failed")
	// ErrEmptyDocument is returned when composing zero images
	ErrEmptyDocument = errors.New("document has no pages")
	// ErrIndexOutOfRange is returned by list operations on invalid indices
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrStorage wraps persistence failures
	ErrStorage = errors.New("storage failure")
	// ErrCaptureUnavailable is returned when capturing without a camera stream
	ErrCaptureUnavailable = errors.New("camera not ready")

	ErrInvalidCrop     = errors.New("crop region is empty")
	ErrDuplicateRecord = errors.New("image record already in list")
	ErrSessionClosed   = errors.New("edit session already finished")
)
