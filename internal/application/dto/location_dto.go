package dto

import "time"

// CreateLocationRequest entrada para crear una ubicación.
type CreateLocationRequest struct {
	Name string `json:"name"`
}

// LocationResponse salida de una ubicación.
type LocationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateBinRequest entrada para crear un bin dentro de una ubicación.
type CreateBinRequest struct {
	LocationID string `json:"locationId"`
	Code       string `json:"code"`
}

// BinResponse salida de un bin.
type BinResponse struct {
	ID         string    `json:"id"`
	LocationID string    `json:"location_id"`
	Code       string    `json:"code"`
	CreatedAt  time.Time `json:"created_at"`
}
