package financeiro

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/patotaccc/api-patota/internal/models"
	"github.com/patotaccc/api-patota/internal/utils"
)

type Repository interface {
	MensalidadesDoMembro(db *gorm.DB, membroID string) ([]models.Mensalidade, error)
	MultasDoMembro(db *gorm.DB, membroID string) ([]MultaDTO, error)
	PagamentosDoMembro(db *gorm.DB, membroID string) ([]models.Pagamento, error)
	MultasSemPagamentoConfirmado(db *gorm.DB, membroID string) ([]models.Multa, error)

	BuscarMensalidade(db *gorm.DB, id string) (*models.Mensalidade, error)
	BuscarMulta(db *gorm.DB, id string) (*models.Multa, error)
	BuscarPagamento(db *gorm.DB, id string) (*models.Pagamento, error)
	ExistePagamentoAtivo(db *gorm.DB, mensalidadeID, multaID *string) (bool, error)
	MultaTemPagamento(db *gorm.DB, multaID string) (bool, error)
	CriarPagamento(db *gorm.DB, p *models.Pagamento) error
	MudarStatusPagamento(db *gorm.DB, p *models.Pagamento, de, para models.StatusPagamento, adminID string) error
	PagamentosPendentes(db *gorm.DB) ([]PagamentoPendenteDTO, error)

	MembrosAtivosSemMensalidade(db *gorm.DB, competencia string) ([]models.Membro, error)
	MembrosIsentos(db *gorm.DB, competencia string) (map[string]bool, error)
	CriarMensalidadeSeNaoExiste(db *gorm.DB, m *models.Mensalidade) (bool, error)
	QuitarMensalidade(db *gorm.DB, id string) error
	IsentarMensalidadePendente(db *gorm.DB, membroID, competencia string) (*models.Mensalidade, error)
	RejeitarPagamentosDaMensalidade(db *gorm.DB, mensalidadeID string) (int64, error)
	CriarIsencao(db *gorm.DB, i *models.Isencao) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func naoEncontrado(err error, oque string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrap(utils.ErrNaoEncontrado, oque)
	}
	return err
}

func (r *repositoryImpl) MensalidadesDoMembro(db *gorm.DB, membroID string) ([]models.Mensalidade, error) {
	var list []models.Mensalidade
	err := db.Where("membro_id = ?", membroID).Order("competencia desc").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) MultasDoMembro(db *gorm.DB, membroID string) ([]MultaDTO, error) {
	var multas []models.Multa
	if err := db.Where("membro_id = ?", membroID).Order("criado_em desc").Find(&multas).Error; err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(multas))
	for _, m := range multas {
		if m.EventoID != nil {
			ids = append(ids, *m.EventoID)
		}
	}
	eventos := map[string]models.Evento{}
	if len(ids) > 0 {
		var list []models.Evento
		if err := db.Where("id IN ?", ids).Find(&list).Error; err != nil {
			return nil, err
		}
		for _, e := range list {
			eventos[e.ID] = e
		}
	}

	out := make([]MultaDTO, 0, len(multas))
	for _, m := range multas {
		dto := MultaDTO{Multa: m}
		if m.EventoID != nil {
			if e, ok := eventos[*m.EventoID]; ok {
				tipo, data := e.Tipo, e.DataHora
				dto.EventoTipo, dto.EventoData = &tipo, &data
			}
		}
		out = append(out, dto)
	}
	return out, nil
}

func (r *repositoryImpl) PagamentosDoMembro(db *gorm.DB, membroID string) ([]models.Pagamento, error) {
	var list []models.Pagamento
	err := db.Where("membro_id = ?", membroID).Order("criado_em desc").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) MultasSemPagamentoConfirmado(db *gorm.DB, membroID string) ([]models.Multa, error) {
	confirmadas := db.Model(&models.Pagamento{}).
		Select("multa_id").
		Where("status = ? AND multa_id IS NOT NULL", models.PagamentoConfirmado)

	var list []models.Multa
	err := db.Where("membro_id = ?", membroID).
		Where("id NOT IN (?)", confirmadas).
		Find(&list).Error
	return list, err
}

func (r *repositoryImpl) BuscarMensalidade(db *gorm.DB, id string) (*models.Mensalidade, error) {
	var m models.Mensalidade
	if err := db.First(&m, "id = ?", id).Error; err != nil {
		return nil, naoEncontrado(err, "mensalidade")
	}
	return &m, nil
}

func (r *repositoryImpl) BuscarMulta(db *gorm.DB, id string) (*models.Multa, error) {
	var m models.Multa
	if err := db.First(&m, "id = ?", id).Error; err != nil {
		return nil, naoEncontrado(err, "multa")
	}
	return &m, nil
}

func (r *repositoryImpl) BuscarPagamento(db *gorm.DB, id string) (*models.Pagamento, error) {
	var p models.Pagamento
	if err := db.First(&p, "id = ?", id).Error; err != nil {
		return nil, naoEncontrado(err, "pagamento")
	}
	return &p, nil
}

// ExistePagamentoAtivo diz se já há pagamento PENDENTE ou CONFIRMADO para o item.
func (r *repositoryImpl) ExistePagamentoAtivo(db *gorm.DB, mensalidadeID, multaID *string) (bool, error) {
	q := db.Model(&models.Pagamento{}).
		Where("status IN ?", []models.StatusPagamento{models.PagamentoPendente, models.PagamentoConfirmado})
	switch {
	case mensalidadeID != nil:
		q = q.Where("mensalidade_id = ?", *mensalidadeID)
	case multaID != nil:
		q = q.Where("multa_id = ?", *multaID)
	default:
		return false, nil
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

// MultaTemPagamento diz se algum pagamento, em qualquer status, aponta para a
// multa. Multa nessa situação não pode mais ser alterada nem removida.
func (r *repositoryImpl) MultaTemPagamento(db *gorm.DB, multaID string) (bool, error) {
	var n int64
	err := db.Model(&models.Pagamento{}).Where("multa_id = ?", multaID).Count(&n).Error
	return n > 0, err
}

func (r *repositoryImpl) CriarPagamento(db *gorm.DB, p *models.Pagamento) error {
	return db.Create(p).Error
}

// MudarStatusPagamento só altera se o status atual ainda for `de`.
func (r *repositoryImpl) MudarStatusPagamento(db *gorm.DB, p *models.Pagamento, de, para models.StatusPagamento, adminID string) error {
	campos := map[string]any{"status": para}
	if para == models.PagamentoConfirmado {
		agora := db.NowFunc()
		campos["confirmado_por"] = adminID
		campos["confirmado_em"] = agora
		p.ConfirmadoPor, p.ConfirmadoEm = &adminID, &agora
	}
	res := db.Model(&models.Pagamento{}).
		Where("id = ? AND status = ?", p.ID, de).
		Updates(campos)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.Wrap(utils.ErrTransicaoInvalida, "pagamento não está "+string(de))
	}
	p.Status = para
	return nil
}

func (r *repositoryImpl) PagamentosPendentes(db *gorm.DB) ([]PagamentoPendenteDTO, error) {
	var list []PagamentoPendenteDTO
	err := db.Table("pagamentos AS p").
		Select("p.*, m.nome AS membro_nome, me.competencia AS competencia, mu.tipo AS multa_tipo").
		Joins("JOIN membros m ON m.id = p.membro_id").
		Joins("LEFT JOIN mensalidades me ON me.id = p.mensalidade_id").
		Joins("LEFT JOIN multas mu ON mu.id = p.multa_id").
		Where("p.status = ?", models.PagamentoPendente).
		Order("p.criado_em asc").
		Scan(&list).Error
	return list, err
}

func (r *repositoryImpl) MembrosAtivosSemMensalidade(db *gorm.DB, competencia string) ([]models.Membro, error) {
	comMensalidade := db.Model(&models.Mensalidade{}).Select("membro_id").Where("competencia = ?", competencia)

	var list []models.Membro
	err := db.Where("ativo = ?", true).
		Where("id NOT IN (?)", comMensalidade).
		Order("nome asc").
		Find(&list).Error
	return list, err
}

func (r *repositoryImpl) MembrosIsentos(db *gorm.DB, competencia string) (map[string]bool, error) {
	var ids []string
	if err := db.Model(&models.Isencao{}).Where("competencia = ?", competencia).Pluck("membro_id", &ids).Error; err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// CriarMensalidadeSeNaoExiste respeita o índice único (membro, competência).
func (r *repositoryImpl) CriarMensalidadeSeNaoExiste(db *gorm.DB, m *models.Mensalidade) (bool, error) {
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "membro_id"}, {Name: "competencia"}},
		DoNothing: true,
	}).Create(m)
	return res.RowsAffected > 0, res.Error
}

// QuitarMensalidade só passa de PENDENTE para PAGO.
func (r *repositoryImpl) QuitarMensalidade(db *gorm.DB, id string) error {
	res := db.Model(&models.Mensalidade{}).
		Where("id = ? AND status = ?", id, models.MensalidadePendente).
		Update("status", models.MensalidadePago)
	if res.Error != nil {
		return errors.Wrap(res.Error, "quitando mensalidade")
	}
	if res.RowsAffected == 0 {
		return errors.Wrap(utils.ErrTransicaoInvalida, "mensalidade não está pendente")
	}
	return nil
}

// IsentarMensalidadePendente devolve a mensalidade isentada, ou nil se não
// havia uma PENDENTE na competência.
func (r *repositoryImpl) IsentarMensalidadePendente(db *gorm.DB, membroID, competencia string) (*models.Mensalidade, error) {
	var m models.Mensalidade
	err := db.Where("membro_id = ? AND competencia = ? AND status = ?", membroID, competencia, models.MensalidadePendente).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	res := db.Model(&models.Mensalidade{}).
		Where("id = ? AND status = ?", m.ID, models.MensalidadePendente).
		Updates(map[string]any{"status": models.MensalidadeIsento, "valor": 0})
	if res.Error != nil || res.RowsAffected == 0 {
		return nil, res.Error
	}
	m.Status, m.Valor = models.MensalidadeIsento, 0
	return &m, nil
}

func (r *repositoryImpl) RejeitarPagamentosDaMensalidade(db *gorm.DB, mensalidadeID string) (int64, error) {
	res := db.Model(&models.Pagamento{}).
		Where("mensalidade_id = ? AND status = ?", mensalidadeID, models.PagamentoPendente).
		Update("status", models.PagamentoRejeitado)
	return res.RowsAffected, res.Error
}

func (r *repositoryImpl) CriarIsencao(db *gorm.DB, i *models.Isencao) error {
	return db.Create(i).Error
}
