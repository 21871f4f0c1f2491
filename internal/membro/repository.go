package membro

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/patotaccc/api-patota/internal/models"
	"github.com/patotaccc/api-patota/internal/utils"
)

type Repository interface {
	ListarComAdmin(db *gorm.DB) ([]MembroDTO, error)
	BuscarPorID(db *gorm.DB, id string) (*models.Membro, error)
	BuscarPorEmail(db *gorm.DB, email string) (*models.Membro, error)
	Criar(db *gorm.DB, m *models.Membro) error
	DefinirAtivo(db *gorm.DB, id string, ativo bool) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) ListarComAdmin(db *gorm.DB) ([]MembroDTO, error) {
	var membros []models.Membro
	if err := db.Order("nome asc").Find(&membros).Error; err != nil {
		return nil, err
	}
	var adminIDs []string
	if err := db.Model(&models.Administrador{}).Pluck("membro_id", &adminIDs).Error; err != nil {
		return nil, err
	}
	admins := make(map[string]bool, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = true
	}

	out := make([]MembroDTO, 0, len(membros))
	for _, m := range membros {
		out = append(out, MembroDTO{Membro: m, Admin: admins[m.ID]})
	}
	return out, nil
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id string) (*models.Membro, error) {
	var m models.Membro
	if err := db.First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(utils.ErrNaoEncontrado, "membro")
		}
		return nil, err
	}
	return &m, nil
}

func (r *repositoryImpl) BuscarPorEmail(db *gorm.DB, email string) (*models.Membro, error) {
	var m models.Membro
	if err := db.Where("email = ?", email).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(utils.ErrNaoEncontrado, "membro")
		}
		return nil, err
	}
	return &m, nil
}

func (r *repositoryImpl) Criar(db *gorm.DB, m *models.Membro) error {
	err := db.Create(m).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.Wrap(utils.ErrConflito, "e-mail já cadastrado")
	}
	return err
}

func (r *repositoryImpl) DefinirAtivo(db *gorm.DB, id string, ativo bool) error {
	return db.Model(&models.Membro{}).Where("id = ?", id).Update("ativo", ativo).Error
}
