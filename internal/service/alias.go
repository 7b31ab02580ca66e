package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"aliasgate/backend/internal/config"
	"aliasgate/backend/internal/domain"
	"aliasgate/backend/internal/storage"
)

var (
	// ErrAliasTaken 别名已被占用
	ErrAliasTaken = errors.New("alias already taken")
	// ErrAliasShapeInvalid 自定义别名不满足三词形状
	ErrAliasShapeInvalid = errors.New("alias shape invalid")
	// ErrAliasSpaceExhausted 随机分配重试次数耗尽
	ErrAliasSpaceExhausted = errors.New("alias space exhausted")
	// ErrDomainMismatch 待删除地址的域名不是本网关管理的域名
	ErrDomainMismatch = errors.New("domain mismatch")
)

const (
	aliasTokenCount = 3
	aliasSeparator  = "-"

	// maxAllocateAttempts 随机分配的重试上限。
	// 词表规模下撞名概率极低，连续撞满说明空间接近耗尽或存储异常，
	// 与其无界自旋不如明确报错。
	maxAllocateAttempts = 64

	// aliasPageSize 列表接口的固定页大小
	aliasPageSize = 10
)

// AliasService 别名分配、查询与删除的业务逻辑。
type AliasService struct {
	repo storage.AliasRepository
	gen  *Generator
	cfg  *config.GatewayConfig

	// onConflict 每次随机分配撞名时触发，用于指标上报
	onConflict func()
}

// NewAliasService 创建别名服务实例。
func NewAliasService(repo storage.AliasRepository, gen *Generator, cfg *config.GatewayConfig) *AliasService {
	return &AliasService{
		repo: repo,
		gen:  gen,
		cfg:  cfg,
	}
}

// OnConflict 注册撞名回调。
func (s *AliasService) OnConflict(fn func()) {
	s.onConflict = fn
}

// Allocate 分配一个新的随机别名。
// 生成候选后先查存在性，插入时如果和并发请求撞名（唯一键冲突）
// 就换一个候选重试；存储本身出错则立即放弃。
func (s *AliasService) Allocate(hostname *string) (*domain.Alias, error) {
	for attempt := 0; attempt < maxAllocateAttempts; attempt++ {
		candidate := s.gen.Generate(aliasTokenCount, aliasSeparator)

		exists, err := s.repo.AliasExists(candidate, s.cfg.Domain)
		if err != nil {
			return nil, fmt.Errorf("failed to check alias existence: %w", err)
		}
		if exists {
			s.conflict()
			continue
		}

		alias := &domain.Alias{
			ID:        uuid.New().String(),
			Alias:     candidate,
			Domain:    s.cfg.Domain,
			CreatedAt: time.Now().UTC(),
			Active:    true,
			Hostname:  hostname,
		}

		err = s.repo.InsertAlias(alias)
		if err == nil {
			return alias, nil
		}
		if errors.Is(err, storage.ErrAliasExists) {
			// 并发请求先插入了同名候选，换一个再试
			s.conflict()
			continue
		}
		return nil, fmt.Errorf("failed to insert alias: %w", err)
	}

	return nil, ErrAliasSpaceExhausted
}

func (s *AliasService) conflict() {
	if s.onConflict != nil {
		s.onConflict()
	}
}

// CreateCustom 按请求方指定的本地部分创建别名。
// 本地部分统一转小写，必须满足三词形状，已占用时返回 ErrAliasTaken。
func (s *AliasService) CreateCustom(local string) (*domain.Alias, error) {
	local = strings.ToLower(strings.TrimSpace(local))

	if !domain.ValidAliasShape(local) {
		return nil, ErrAliasShapeInvalid
	}

	exists, err := s.repo.AliasExists(local, s.cfg.Domain)
	if err != nil {
		return nil, fmt.Errorf("failed to check alias existence: %w", err)
	}
	if exists {
		return nil, ErrAliasTaken
	}

	alias := &domain.Alias{
		ID:        uuid.New().String(),
		Alias:     local,
		Domain:    s.cfg.Domain,
		CreatedAt: time.Now().UTC(),
		Active:    true,
	}

	err = s.repo.InsertAlias(alias)
	if errors.Is(err, storage.ErrAliasExists) {
		return nil, ErrAliasTaken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert alias: %w", err)
	}

	return alias, nil
}

// List 返回第 page 页的别名（每页固定 10 条，页码从 1 开始）。
func (s *AliasService) List(page int) ([]domain.Alias, error) {
	offset := (page - 1) * aliasPageSize
	if offset < 0 {
		offset = 0
	}

	aliases, err := s.repo.ListAliases(s.cfg.Domain, aliasPageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list aliases: %w", err)
	}
	return aliases, nil
}

// Delete 删除指定地址的别名，幂等。
// 域名必须是本网关的管理域名（不区分大小写），否则返回 ErrDomainMismatch。
func (s *AliasService) Delete(local, domainName string) error {
	if !strings.EqualFold(domainName, s.cfg.Domain) {
		return ErrDomainMismatch
	}

	local = strings.ToLower(local)
	if err := s.repo.DeleteAlias(local, s.cfg.Domain); err != nil {
		return fmt.Errorf("failed to delete alias: %w", err)
	}
	return nil
}
