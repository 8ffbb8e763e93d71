package api

import "github.com/rm-hull/reeded-glass/internal/glass"

type SessionResponse struct {
	Id         string       `json:"id"`
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	Params     glass.Params `json:"params"`
	Generation uint64       `json:"generation"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
