package models

import (
	"time"

	"gorm.io/gorm"
)

type Membro struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Nome         string    `gorm:"not null" json:"nome"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Telefone     *string   `json:"telefone"`
	Ativo        bool      `gorm:"not null" json:"ativo"`
	CriadoEm     time.Time `gorm:"autoCreateTime" json:"criadoEm"`
	AtualizadoEm time.Time `gorm:"autoUpdateTime" json:"atualizadoEm"`
}

func (Membro) TableName() string { return "membros" }

func (m *Membro) BeforeCreate(*gorm.DB) error {
	novoID(&m.ID)
	return nil
}

// Administrador: a existência da linha já concede o papel.
type Administrador struct {
	ID       string    `gorm:"primaryKey;size:36" json:"id"`
	MembroID string    `gorm:"uniqueIndex;size:36;not null" json:"membroId"`
	CriadoEm time.Time `gorm:"autoCreateTime" json:"criadoEm"`
}

func (Administrador) TableName() string { return "administradores" }

func (a *Administrador) BeforeCreate(*gorm.DB) error {
	novoID(&a.ID)
	return nil
}
