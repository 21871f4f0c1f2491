package membro

import "github.com/patotaccc/api-patota/internal/models"

type CriarMembroRequest struct {
	Nome     string  `json:"nome" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Telefone *string `json:"telefone"`
}

// MembroDTO é a linha da lista de membros do admin.
type MembroDTO struct {
	models.Membro
	Admin bool `json:"admin"`
}

type CriarMembroResponse struct {
	Membro         models.Membro `json:"membro"`
	ConviteEnviado bool          `json:"conviteEnviado"`
}
