package dto

// Page is the envelope every list endpoint returns.
type Page[T any] struct {
	Count   int64 `json:"count"`
	Results []T   `json:"results"`
}

func NewPage[T any](count int64, results []T) Page[T] {
	if results == nil {
		results = []T{}
	}
	return Page[T]{Count: count, Results: results}
}
