// Package auditoria grava snapshots JSON das alterações administrativas.
package auditoria

import (
	"encoding/json"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Registrar deve ser chamado com a transação da própria alteração, assim o
// registro some junto se ela for desfeita. antes/depois podem ser nil.
func Registrar(tx *gorm.DB, tabela, acao, registroID string, antes, depois any, usuarioID string) error {
	r := Registro{
		Tabela:     tabela,
		Acao:       acao,
		RegistroID: registroID,
	}
	var err error
	if r.DadosAntes, err = snapshot(antes); err != nil {
		return err
	}
	if r.DadosDepois, err = snapshot(depois); err != nil {
		return err
	}
	if usuarioID != "" {
		r.UsuarioID = &usuarioID
	}
	return errors.Wrap(tx.Create(&r).Error, "gravando auditoria")
}

func snapshot(v any) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "serializando auditoria")
	}
	return datatypes.JSON(b), nil
}

// Listar devolve o histórico de um registro, mais recente primeiro.
func Listar(db *gorm.DB, tabela, registroID string) ([]Registro, error) {
	var rs []Registro
	err := db.Where("tabela = ? AND registro_id = ?", tabela, registroID).
		Order("criado_em desc").Find(&rs).Error
	return rs, err
}
