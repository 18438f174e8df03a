package model

// StatsResponse is the body of a successful GET /stats/{arch}.
type StatsResponse struct {
	Architecture string  `json:"architecture"`
	Packages     []Entry `json:"packages"`
}

// ErrorResponse is the body of any non-2xx stats response.
type ErrorResponse struct {
	Error string `json:"error"`
}
