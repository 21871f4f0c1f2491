package auth

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/patotaccc/api-patota/internal/config"
	"github.com/patotaccc/api-patota/internal/kv"
	"github.com/patotaccc/api-patota/internal/models"
	"github.com/patotaccc/api-patota/internal/notificacao"
	"github.com/patotaccc/api-patota/internal/utils"
)

var (
	errLinkInvalido    = errors.Wrap(utils.ErrNaoAutenticado, "link inválido ou expirado")
	errRefreshInvalido = errors.Wrap(utils.ErrNaoAutenticado, "refresh inválido")
	errMembroInativo   = errors.Wrap(utils.ErrAcessoNegado, "membro inativo")
)

// Tokens é o resultado de um login ou refresh. O refresh em texto puro só
// sai no cookie.
type Tokens struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int           `json:"expires_in"`
	Membro      models.Membro `json:"membro"`
	Admin       bool          `json:"admin"`

	refresh       string
	refreshExpira time.Time
}

type Servico struct {
	DB          *gorm.DB
	Emissor     *Emissor
	Gate        *Gate
	KV          kv.Store
	Remetente   notificacao.Remetente
	Notificador *Notificador

	LinkTTL    time.Duration
	RefreshTTL time.Duration
	LimiteLink int
	JanelaLink time.Duration
	BaseURL    string

	agora func() time.Time
}

func NovoServico(db *gorm.DB, cfg *config.Config, emissor *Emissor, gate *Gate, store kv.Store,
	remetente notificacao.Remetente, notificador *Notificador) *Servico {
	return &Servico{
		DB:          db,
		Emissor:     emissor,
		Gate:        gate,
		KV:          store,
		Remetente:   remetente,
		Notificador: notificador,
		LinkTTL:     cfg.LinkMagicoTTL,
		RefreshTTL:  cfg.RefreshTTL,
		LimiteLink:  cfg.LinkMagicoLimit,
		JanelaLink:  cfg.LinkMagicoJanela,
		BaseURL:     strings.TrimRight(cfg.PublicBaseURL, "/"),
		agora:       func() time.Time { return time.Now().UTC() },
	}
}

func normalizarEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SolicitarLink envia o link mágico. Não diz se o e-mail é de um membro:
// e-mails desconhecidos recebem o link (cadastro no primeiro acesso) e
// membros inativos simplesmente não recebem nada.
func (s *Servico) SolicitarLink(ctx context.Context, email, ip string) error {
	email = normalizarEmail(email)
	log := zerolog.Ctx(ctx)

	for _, chave := range []string{"link:email:" + email, "link:ip:" + ip} {
		ok, n, err := s.KV.AllowRate(ctx, chave, int64(s.LimiteLink), s.JanelaLink)
		if err != nil {
			log.Warn().Err(err).Str("chave", chave).Msg("rate limit indisponível")
			continue
		}
		if !ok {
			log.Info().Str("chave", chave).Int64("tentativas", n).Msg("limite de links excedido")
			return utils.ErrLimiteExcedido
		}
	}

	var m models.Membro
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&m).Error
	switch {
	case err == nil && !m.Ativo:
		return nil
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return errors.Wrap(err, "buscando membro")
	}
	return s.enviarLink(ctx, email, false)
}

// EnviarConvite manda o link de acesso para um membro recém-cadastrado.
func (s *Servico) EnviarConvite(ctx context.Context, email string) error {
	return s.enviarLink(ctx, normalizarEmail(email), true)
}

func (s *Servico) enviarLink(ctx context.Context, email string, convite bool) error {
	seletor, err := utils.GerarToken(12)
	if err != nil {
		return err
	}
	verificador, err := utils.GerarToken(32)
	if err != nil {
		return err
	}
	hash, err := utils.HashSegredo(verificador)
	if err != nil {
		return errors.Wrap(err, "hash do verificador")
	}

	link := LinkMagico{
		Seletor:         seletor,
		VerificadorHash: hash,
		Email:           email,
		ExpiraEm:        s.agora().Add(s.LinkTTL),
	}
	if err := s.DB.WithContext(ctx).Create(&link).Error; err != nil {
		return errors.Wrap(err, "salvando link")
	}

	u := s.BaseURL + "/auth/verificar?token=" + url.QueryEscape(seletor+"."+verificador)
	msg, err := notificacao.MensagemLinkMagico(email, u, s.LinkTTL, convite)
	if err != nil {
		return err
	}
	return errors.Wrap(s.Remetente.Enviar(ctx, msg), "enviando link")
}

// Verificar consome o link (uma única vez) e abre uma sessão nova.
func (s *Servico) Verificar(ctx context.Context, token string) (*Tokens, error) {
	seletor, verificador, ok := strings.Cut(strings.TrimSpace(token), ".")
	if !ok || seletor == "" || verificador == "" {
		return nil, errLinkInvalido
	}

	db := s.DB.WithContext(ctx)
	var link LinkMagico
	if err := db.Where("seletor = ?", seletor).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errLinkInvalido
		}
		return nil, errors.Wrap(err, "buscando link")
	}
	now := s.agora()
	if link.UsadoEm != nil || !now.Before(link.ExpiraEm) {
		return nil, errLinkInvalido
	}
	if !utils.VerificarSegredo(link.VerificadorHash, verificador) {
		return nil, errLinkInvalido
	}

	res := db.Model(&LinkMagico{}).
		Where("id = ? AND usado_em IS NULL", link.ID).
		Update("usado_em", now)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "consumindo link")
	}
	if res.RowsAffected == 0 {
		return nil, errLinkInvalido
	}

	nome, _, _ := strings.Cut(link.Email, "@")
	var m models.Membro
	err := db.Where(models.Membro{Email: link.Email}).
		Attrs(models.Membro{Nome: nome, Ativo: true}).
		FirstOrCreate(&m).Error
	if err != nil {
		return nil, errors.Wrap(err, "carregando membro")
	}
	if !m.Ativo {
		return nil, errMembroInativo
	}

	sessaoID := uuid.NewString()
	s.Notificador.Publicar(ctx, EventoSessao{Tipo: SessaoLogin, SessaoID: sessaoID, MembroID: m.ID})
	return s.emitir(ctx, m, sessaoID)
}

func (s *Servico) emitir(ctx context.Context, m models.Membro, sessaoID string) (*Tokens, error) {
	caps, err := s.Gate.Capacidades(ctx, sessaoID, m.ID)
	if err != nil {
		return nil, err
	}
	access, err := s.Emissor.Gerar(m.ID, sessaoID, caps.Admin)
	if err != nil {
		return nil, errors.Wrap(err, "gerando access token")
	}

	raw, err := utils.GerarToken(32)
	if err != nil {
		return nil, err
	}
	rt := RefreshToken{
		MembroID: m.ID,
		SessaoID: sessaoID,
		Hash:     utils.HashSHA256(raw),
		ExpiraEm: s.agora().Add(s.RefreshTTL),
	}
	if err := s.DB.WithContext(ctx).Create(&rt).Error; err != nil {
		return nil, errors.Wrap(err, "salvando refresh")
	}

	return &Tokens{
		AccessToken:   access,
		TokenType:     "Bearer",
		ExpiresIn:     int(s.Emissor.TTL.Seconds()),
		Membro:        m,
		Admin:         caps.Admin,
		refresh:       raw,
		refreshExpira: rt.ExpiraEm,
	}, nil
}

// Renovar troca o refresh atual por um novo na mesma sessão. Um refresh já
// revogado sendo reapresentado derruba a sessão inteira.
func (s *Servico) Renovar(ctx context.Context, raw string) (*Tokens, error) {
	if raw == "" {
		return nil, errRefreshInvalido
	}
	db := s.DB.WithContext(ctx)

	var cur RefreshToken
	if err := db.Where("hash = ?", utils.HashSHA256(raw)).First(&cur).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errRefreshInvalido
		}
		return nil, errors.Wrap(err, "buscando refresh")
	}

	now := s.agora()
	if cur.RevogadoEm != nil {
		zerolog.Ctx(ctx).Warn().Str("sessao", cur.SessaoID).Msg("refresh reutilizado; revogando sessão")
		_ = s.revogarSessao(ctx, cur.SessaoID, cur.MembroID)
		return nil, errRefreshInvalido
	}
	if !now.Before(cur.ExpiraEm) {
		return nil, errRefreshInvalido
	}

	res := db.Model(&RefreshToken{}).
		Where("id = ? AND revogado_em IS NULL", cur.ID).
		Update("revogado_em", now)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "revogando refresh")
	}
	if res.RowsAffected == 0 {
		return nil, errRefreshInvalido
	}

	var m models.Membro
	if err := db.First(&m, "id = ?", cur.MembroID).Error; err != nil {
		return nil, errors.Wrap(err, "carregando membro")
	}
	if !m.Ativo {
		_ = s.revogarSessao(ctx, cur.SessaoID, m.ID)
		return nil, errMembroInativo
	}

	s.Notificador.Publicar(ctx, EventoSessao{Tipo: SessaoRefresh, SessaoID: cur.SessaoID, MembroID: m.ID})
	return s.emitir(ctx, m, cur.SessaoID)
}

// Encerrar revoga a sessão do refresh informado. Token desconhecido não é erro.
func (s *Servico) Encerrar(ctx context.Context, raw string) error {
	if raw == "" {
		return nil
	}
	var cur RefreshToken
	err := s.DB.WithContext(ctx).Where("hash = ?", utils.HashSHA256(raw)).First(&cur).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "buscando refresh")
	}
	return s.revogarSessao(ctx, cur.SessaoID, cur.MembroID)
}

// RevogarSessoes encerra todas as sessões abertas do membro. Usado quando o
// admin desativa alguém.
func (s *Servico) RevogarSessoes(ctx context.Context, membroID string) error {
	var sessoes []string
	err := s.DB.WithContext(ctx).Model(&RefreshToken{}).
		Where("membro_id = ? AND revogado_em IS NULL", membroID).
		Distinct().Pluck("sessao_id", &sessoes).Error
	if err != nil {
		return errors.Wrap(err, "listando sessões")
	}
	for _, id := range sessoes {
		if err := s.revogarSessao(ctx, id, membroID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Servico) revogarSessao(ctx context.Context, sessaoID, membroID string) error {
	err := s.DB.WithContext(ctx).Model(&RefreshToken{}).
		Where("sessao_id = ? AND revogado_em IS NULL", sessaoID).
		Update("revogado_em", s.agora()).Error
	if err != nil {
		return errors.Wrap(err, "revogando sessão")
	}
	s.Notificador.Publicar(ctx, EventoSessao{Tipo: SessaoLogout, SessaoID: sessaoID, MembroID: membroID})
	return nil
}

// EstadoSessao é a resposta de GET /auth/sessao.
type EstadoSessao struct {
	Autenticado bool           `json:"autenticado"`
	Admin       bool           `json:"admin"`
	Membro      *models.Membro `json:"membro"`
}

// Sessao resolve quem está logado. Sem sessão não é erro: só "não autenticado".
func (s *Servico) Sessao(ctx context.Context, sessaoID, membroID string) (EstadoSessao, error) {
	if membroID == "" {
		return EstadoSessao{}, nil
	}
	var m models.Membro
	err := s.DB.WithContext(ctx).First(&m, "id = ?", membroID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return EstadoSessao{}, nil
	}
	if err != nil {
		return EstadoSessao{}, errors.Wrap(err, "carregando membro")
	}
	caps, err := s.Gate.Capacidades(ctx, sessaoID, membroID)
	if err != nil {
		return EstadoSessao{}, err
	}
	return EstadoSessao{Autenticado: true, Admin: caps.Admin, Membro: &m}, nil
}
