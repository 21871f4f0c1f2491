package auditoria

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Registro guarda o antes/depois de uma alteração feita por um admin.
type Registro struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	Tabela      string         `gorm:"size:40;not null;index" json:"tabela"`
	Acao        string         `gorm:"size:40;not null" json:"acao"`
	RegistroID  string         `gorm:"size:36;not null;index" json:"registroId"`
	DadosAntes  datatypes.JSON `json:"dadosAntes"`
	DadosDepois datatypes.JSON `json:"dadosDepois"`
	UsuarioID   *string        `gorm:"size:36" json:"usuarioId"`
	CriadoEm    time.Time      `gorm:"autoCreateTime" json:"criadoEm"`
}

func (Registro) TableName() string { return "auditoria" }

func (r *Registro) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
