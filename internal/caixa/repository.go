package caixa

import (
	"gorm.io/gorm"

	"github.com/patotaccc/api-patota/internal/models"
)

// Repository encapsula as leituras do caixa feitas pelo gorm
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// Ultimos devolve os lançamentos mais recentes com o nome do autor.
func (r *Repository) Ultimos(limite int) ([]LancamentoDTO, error) {
	var lancs []models.LancamentoCaixa
	if err := r.DB.Order("data_lancamento desc").Order("criado_em desc").Limit(limite).Find(&lancs).Error; err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(lancs))
	for _, l := range lancs {
		if l.LancadoPor != nil {
			ids = append(ids, *l.LancadoPor)
		}
	}
	nomes := map[string]string{}
	if len(ids) > 0 {
		var membros []models.Membro
		if err := r.DB.Select("id", "nome").Where("id IN ?", ids).Find(&membros).Error; err != nil {
			return nil, err
		}
		for _, m := range membros {
			nomes[m.ID] = m.Nome
		}
	}

	out := make([]LancamentoDTO, 0, len(lancs))
	for _, l := range lancs {
		autor := "Sistema"
		if l.LancadoPor != nil && nomes[*l.LancadoPor] != "" {
			autor = nomes[*l.LancadoPor]
		}
		out = append(out, LancamentoDTO{LancamentoCaixa: l, Autor: autor})
	}
	return out, nil
}
