package model

import "time"

// CovidStat is one recorded snapshot of per-country figures. Multiple
// records per country are allowed; the store is append-oriented.
type CovidStat struct {
	ID        int64     `json:"id"`
	Country   string    `json:"country"`
	Cases     int64     `json:"cases"`
	Deaths    int64     `json:"deaths"`
	Recovered int64     `json:"recovered"`
	Active    int64     `json:"active"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// CreateStatRequest is used for creating a new record via the API
type CreateStatRequest struct {
	Country   string `json:"country" binding:"required"`
	Cases     int64  `json:"cases" binding:"min=0"`
	Deaths    int64  `json:"deaths" binding:"min=0"`
	Recovered int64  `json:"recovered" binding:"min=0"`
	Active    int64  `json:"active" binding:"min=0"`
}

// UpdateStatRequest carries a partial update; nil fields keep their
// prior value.
type UpdateStatRequest struct {
	Country   *string `json:"country,omitempty"`
	Cases     *int64  `json:"cases,omitempty" binding:"omitempty,min=0"`
	Deaths    *int64  `json:"deaths,omitempty" binding:"omitempty,min=0"`
	Recovered *int64  `json:"recovered,omitempty" binding:"omitempty,min=0"`
	Active    *int64  `json:"active,omitempty" binding:"omitempty,min=0"`
}

// IngestSummary reports the outcome of one external fetch.
type IngestSummary struct {
	Stored  int `json:"stored"`
	Skipped int `json:"skipped"`
}
