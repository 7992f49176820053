package entity

import "time"

// Location ubicación física (almacén, tienda) que contiene bins.
type Location struct {
	ID        string
	Name      string // único
	CreatedAt time.Time
}

// Bin posición de almacenamiento dentro de una Location.
// Code se guarda en mayúsculas y es único por Location.
type Bin struct {
	ID         string
	LocationID string
	Code       string
	CreatedAt  time.Time
}
