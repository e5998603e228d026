package domain

import (
	"time"
)

// APICredential guarda o token de acesso de um provedor externo, para que a
// renovação sobreviva a reinícios do processo.
type APICredential struct {
	Provider  string    `json:"provider"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
