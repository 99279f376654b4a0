package search

import "errors"

var (
	// ErrEmptyQuery is returned when a text search is submitted with a blank query.
	ErrEmptyQuery = errors.New("empty search query")
	// ErrNoImage is returned when an image search is submitted without a ready image.
	ErrNoImage = errors.New("no image ready for search")
	// ErrNothingToRemove is returned by RemoveImage when no image is held.
	ErrNothingToRemove = errors.New("no image to remove")
	// ErrImageSearchUnimplemented marks the image search dispatch, which has no backend yet.
	ErrImageSearchUnimplemented = errors.New("image search not implemented")

	// ErrFileTooLarge and ErrInvalidType are intake rejections. They are reported
	// through the Notifier and never returned by AcceptFile.
	ErrFileTooLarge = errors.New("file exceeds maximum size")
	ErrInvalidType  = errors.New("unsupported image type")
)
