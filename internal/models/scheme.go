package models

type Scheme struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
