package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RefreshToken guarda só o hash do token entregue no cookie. Todos os tokens
// de um mesmo login compartilham o SessaoID.
type RefreshToken struct {
	ID         string     `gorm:"primaryKey;size:36"`
	MembroID   string     `gorm:"size:36;index;not null"`
	SessaoID   string     `gorm:"size:36;index;not null"`
	Hash       string     `gorm:"uniqueIndex;not null"`
	ExpiraEm   time.Time  `gorm:"index"`
	RevogadoEm *time.Time
	CriadoEm   time.Time `gorm:"autoCreateTime"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }

func (t *RefreshToken) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// LinkMagico: o seletor é público (vai na URL) e o verificador só existe como hash bcrypt.
type LinkMagico struct {
	ID              string `gorm:"primaryKey;size:36"`
	Seletor         string `gorm:"uniqueIndex;not null"`
	VerificadorHash string `gorm:"not null"`
	Email           string `gorm:"index;not null"`
	ExpiraEm        time.Time
	UsadoEm         *time.Time
	CriadoEm        time.Time `gorm:"autoCreateTime"`
}

func (LinkMagico) TableName() string { return "links_magicos" }

func (l *LinkMagico) BeforeCreate(*gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// Modelos lista as tabelas deste pacote para o AutoMigrate.
func Modelos() []any {
	return []any{&RefreshToken{}, &LinkMagico{}}
}
