// Package caixa cuida do livro-caixa da patota: lançamentos manuais do admin
// e entradas automáticas geradas pela confirmação de pagamentos.
package caixa

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/patotaccc/api-patota/internal/models"
	"github.com/patotaccc/api-patota/internal/utils"
)

const ReferenciaPagamento = "PAGAMENTO"

// CategoriaValida confere a categoria contra a direção do lançamento.
func CategoriaValida(tipo models.TipoLancamento, categoria string) bool {
	for _, c := range models.CategoriasCaixa[tipo] {
		if c == categoria {
			return true
		}
	}
	return false
}

// Registrar grava um lançamento usando a transação de quem chama.
func Registrar(tx *gorm.DB, l *models.LancamentoCaixa) error {
	l.Categoria = strings.ToUpper(strings.TrimSpace(l.Categoria))
	if _, ok := models.CategoriasCaixa[l.Tipo]; !ok {
		return utils.NovoErroValidacao("tipo inválido", utils.ErroCampo{Campo: "tipo", Erro: "deve ser ENTRADA ou SAIDA"})
	}
	if !CategoriaValida(l.Tipo, l.Categoria) {
		return utils.NovoErroValidacao("categoria inválida", utils.ErroCampo{
			Campo: "categoria",
			Erro:  "para " + string(l.Tipo) + " use: " + strings.Join(models.CategoriasCaixa[l.Tipo], ", "),
		})
	}
	if l.Valor <= 0 {
		return utils.NovoErroValidacao("valor deve ser maior que zero", utils.ErroCampo{Campo: "valor", Erro: "deve ser maior que zero"})
	}
	if l.DataLancamento.IsZero() {
		l.DataLancamento = time.Now().UTC()
	}
	return errors.Wrap(tx.Create(l).Error, "gravando lançamento")
}
