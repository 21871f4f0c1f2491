package evento

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/patotaccc/api-patota/internal/models"
	"github.com/patotaccc/api-patota/internal/utils"
)

type Repository interface {
	Listar(db *gorm.DB, agora time.Time, futuros bool, limite int) ([]models.Evento, error)
	BuscarPorID(db *gorm.DB, id string) (*models.Evento, error)
	Criar(db *gorm.DB, e *models.Evento) error

	ContarConfirmados(db *gorm.DB, eventoIDs []string) (map[string]int64, error)
	ConfirmacoesDoMembro(db *gorm.DB, membroID string, eventoIDs []string) (map[string]models.ConfirmacaoEvento, error)
	BuscarConfirmacao(db *gorm.DB, eventoID, membroID string) (*models.ConfirmacaoEvento, error)
	SalvarRSVP(db *gorm.DB, eventoID, membroID string, status models.StatusRSVP) (*models.ConfirmacaoEvento, error)
	DefinirConvidados(db *gorm.DB, c *models.ConfirmacaoEvento, quantidade int) error
	BuscarMultaConvidado(db *gorm.DB, eventoID, membroID string) (*models.Multa, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

// Listar traz os eventos a partir de agora (ordem crescente) ou os anteriores
// (mais recente primeiro). limite <= 0 não limita.
func (r *repositoryImpl) Listar(db *gorm.DB, agora time.Time, futuros bool, limite int) ([]models.Evento, error) {
	q := db.Model(&models.Evento{})
	if futuros {
		q = q.Where("data_hora >= ?", agora).Order("data_hora asc")
	} else {
		q = q.Where("data_hora < ?", agora).Order("data_hora desc")
	}
	if limite > 0 {
		q = q.Limit(limite)
	}
	var list []models.Evento
	err := q.Find(&list).Error
	return list, err
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id string) (*models.Evento, error) {
	var e models.Evento
	if err := db.First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(utils.ErrNaoEncontrado, "evento")
		}
		return nil, err
	}
	return &e, nil
}

func (r *repositoryImpl) Criar(db *gorm.DB, e *models.Evento) error {
	return db.Create(e).Error
}

func (r *repositoryImpl) ContarConfirmados(db *gorm.DB, eventoIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(eventoIDs))
	if len(eventoIDs) == 0 {
		return out, nil
	}
	var linhas []struct {
		EventoID string
		Total    int64
	}
	err := db.Model(&models.ConfirmacaoEvento{}).
		Select("evento_id, COUNT(*) AS total").
		Where("evento_id IN ? AND status = ?", eventoIDs, models.RSVPVou).
		Group("evento_id").
		Scan(&linhas).Error
	if err != nil {
		return nil, err
	}
	for _, l := range linhas {
		out[l.EventoID] = l.Total
	}
	return out, nil
}

func (r *repositoryImpl) ConfirmacoesDoMembro(db *gorm.DB, membroID string, eventoIDs []string) (map[string]models.ConfirmacaoEvento, error) {
	out := make(map[string]models.ConfirmacaoEvento, len(eventoIDs))
	if len(eventoIDs) == 0 || membroID == "" {
		return out, nil
	}
	var list []models.ConfirmacaoEvento
	if err := db.Where("membro_id = ? AND evento_id IN ?", membroID, eventoIDs).Find(&list).Error; err != nil {
		return nil, err
	}
	for _, c := range list {
		out[c.EventoID] = c
	}
	return out, nil
}

func (r *repositoryImpl) BuscarConfirmacao(db *gorm.DB, eventoID, membroID string) (*models.ConfirmacaoEvento, error) {
	var c models.ConfirmacaoEvento
	if err := db.First(&c, "evento_id = ? AND membro_id = ?", eventoID, membroID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(utils.ErrNaoEncontrado, "confirmação")
		}
		return nil, err
	}
	return &c, nil
}

// SalvarRSVP faz upsert por (evento, membro): a última resposta vale e os
// convidados já informados são mantidos.
func (r *repositoryImpl) SalvarRSVP(db *gorm.DB, eventoID, membroID string, status models.StatusRSVP) (*models.ConfirmacaoEvento, error) {
	c := models.ConfirmacaoEvento{EventoID: eventoID, MembroID: membroID, Status: status}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "evento_id"}, {Name: "membro_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "atualizado_em"}),
	}).Create(&c).Error
	if err != nil {
		return nil, err
	}
	return r.BuscarConfirmacao(db, eventoID, membroID)
}

func (r *repositoryImpl) DefinirConvidados(db *gorm.DB, c *models.ConfirmacaoEvento, quantidade int) error {
	if err := db.Model(c).Update("convidados", quantidade).Error; err != nil {
		return err
	}
	c.Convidados = quantidade
	return nil
}

// BuscarMultaConvidado devolve nil quando o membro ainda não tem a multa.
func (r *repositoryImpl) BuscarMultaConvidado(db *gorm.DB, eventoID, membroID string) (*models.Multa, error) {
	var list []models.Multa
	err := db.Where("evento_id = ? AND membro_id = ? AND tipo = ?", eventoID, membroID, models.MultaConvidado).
		Limit(1).Find(&list).Error
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return &list[0], nil
}
