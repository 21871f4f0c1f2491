package presenca

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/patotaccc/api-patota/internal/models"
)

type Repository interface {
	Linhas(db *gorm.DB, eventoID string) ([]Linha, error)
	BuscarPresenca(db *gorm.DB, eventoID, membroID string) (*models.PresencaEvento, error)
	SalvarPresenca(db *gorm.DB, p *models.PresencaEvento) (*models.PresencaEvento, error)
	MultasDoEvento(db *gorm.DB, eventoID, membroID string, tipo models.TipoMulta) ([]models.Multa, error)
	PontosDoEvento(db *gorm.DB, eventoID, membroID string) ([]models.Ponto, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Linhas(db *gorm.DB, eventoID string) ([]Linha, error) {
	var list []Linha
	err := db.Table("confirmacoes_evento AS c").
		Select("c.membro_id, COALESCE(m.nome, 'Sem nome') AS nome, m.telefone, c.status AS rsvp_status, c.convidados, p.status AS presenca_status").
		Joins("LEFT JOIN membros m ON m.id = c.membro_id").
		Joins("LEFT JOIN presencas_evento p ON p.evento_id = c.evento_id AND p.membro_id = c.membro_id").
		Where("c.evento_id = ?", eventoID).
		Scan(&list).Error
	return list, err
}

// BuscarPresenca devolve nil quando ainda não houve marcação.
func (r *repositoryImpl) BuscarPresenca(db *gorm.DB, eventoID, membroID string) (*models.PresencaEvento, error) {
	var list []models.PresencaEvento
	err := db.Where("evento_id = ? AND membro_id = ?", eventoID, membroID).Limit(1).Find(&list).Error
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return &list[0], nil
}

// SalvarPresenca faz upsert por (evento, membro); remarcar sobrescreve.
func (r *repositoryImpl) SalvarPresenca(db *gorm.DB, p *models.PresencaEvento) (*models.PresencaEvento, error) {
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "evento_id"}, {Name: "membro_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "marcado_por", "marcado_em"}),
	}).Create(p).Error
	if err != nil {
		return nil, errors.Wrap(err, "gravando presença")
	}
	return r.BuscarPresenca(db, p.EventoID, p.MembroID)
}

func (r *repositoryImpl) MultasDoEvento(db *gorm.DB, eventoID, membroID string, tipo models.TipoMulta) ([]models.Multa, error) {
	var list []models.Multa
	err := db.Where("evento_id = ? AND membro_id = ? AND tipo = ?", eventoID, membroID, tipo).
		Order("criado_em asc").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) PontosDoEvento(db *gorm.DB, eventoID, membroID string) ([]models.Ponto, error) {
	var list []models.Ponto
	err := db.Where("evento_id = ? AND membro_id = ?", eventoID, membroID).Find(&list).Error
	return list, err
}
