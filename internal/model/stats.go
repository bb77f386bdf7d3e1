package model

// DataRange is the span of an exported history, as ISO-8601 UTC timestamps.
type DataRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Statistics summarises the standard tier of a history.
type Statistics struct {
	Min       int64     `json:"min"`
	Max       int64     `json:"max"`
	Average   int64     `json:"average"`
	Median    int64     `json:"median"`
	DataRange DataRange `json:"dataRange"`
}
