package domain

import "errors"

var (
	// ErrNetworkFailure is returned when a storefront page cannot be fetched.
	ErrNetworkFailure = errors.New("network failure")

	// ErrParseFailure is returned when a fetched page cannot be parsed.
	ErrParseFailure = errors.New("parse failure")

	// ErrSnapshotNotFound is returned when no snapshot has been captured yet.
	ErrSnapshotNotFound = errors.New("no snapshot found")

	// ErrUpstreamFailure is returned when the platform catalog feed fails or times out.
	ErrUpstreamFailure = errors.New("platform feed failure")

	// ErrInvalidMapping is returned when the mapping file cannot be read or decoded.
	ErrInvalidMapping = errors.New("invalid mapping file")
)
