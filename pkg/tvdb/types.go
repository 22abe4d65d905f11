// Package tvdb is a minimal TheTVDB v4 client for filling the episode catalog.
package tvdb

import "time"

// Series is the series record TheTVDB returns for an ID.
type Series struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Year   int    `json:"year"`
	Status string `json:"status"`
}

// Episode is one aired or announced episode. Season 0 holds specials.
type Episode struct {
	ID     int64      `json:"id"`
	Season int        `json:"season"`
	Number int        `json:"number"`
	Name   string     `json:"name"`
	Aired  *time.Time `json:"aired,omitempty"`
}

type loginResponse struct {
	Data struct {
		Token string `json:"token"`
	} `json:"data"`
}

type seriesResponse struct {
	Data struct {
		ID     int64  `json:"id"`
		Name   string `json:"name"`
		Status struct {
			Name string `json:"name"`
		} `json:"status"`
		FirstAired string `json:"firstAired"`
	} `json:"data"`
}

type episodesResponse struct {
	Data struct {
		Episodes []struct {
			ID           int64  `json:"id"`
			SeasonNumber int    `json:"seasonNumber"`
			Number       int    `json:"number"`
			Name         string `json:"name"`
			Aired        string `json:"aired"`
		} `json:"episodes"`
	} `json:"data"`
	Links struct {
		Next *string `json:"next"`
	} `json:"links"`
}
