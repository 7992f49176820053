package entity

import "time"

// IdempotencyRecord respuesta exitosa recordada para una Idempotency-Key.
// Body se guarda tal cual se envió para que el replay sea idéntico.
type IdempotencyRecord struct {
	Key        string
	StatusCode int
	Body       []byte
	CreatedAt  time.Time
}
