package dto

type UnreadCountDTO struct {
	Count int `json:"count"`
}

type MarkedReadDTO struct {
	Updated int64 `json:"updated"`
}
