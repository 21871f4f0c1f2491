// Package models guarda as entidades compartilhadas entre os domínios
// (membros, eventos, cobranças e caixa).
package models

import (
	"github.com/google/uuid"
)

func novoID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// Todos lista os modelos para o AutoMigrate.
func Todos() []any {
	return []any{
		&Membro{}, &Administrador{},
		&Evento{}, &ConfirmacaoEvento{}, &PresencaEvento{}, &Ponto{},
		&Mensalidade{}, &Isencao{}, &Multa{}, &Pagamento{},
		&LancamentoCaixa{},
	}
}
