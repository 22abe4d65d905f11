package newznab

import "errors"

var (
	// ErrUnavailable indicates the indexer could not serve the request.
	ErrUnavailable = errors.New("indexer unavailable")

	// ErrInvalidAPIKey indicates the indexer rejected the API key.
	ErrInvalidAPIKey = errors.New("invalid indexer api key")

	// ErrUnknownProtocol is returned by ParseProtocol for values other than usenet or torrent.
	ErrUnknownProtocol = errors.New("unknown indexer protocol")

	// ErrUnsupportedItem is returned when a result's item did not come from this package.
	ErrUnsupportedItem = errors.New("item is not a newznab feed item")
)
