package service

import (
	"errors"
	"fmt"
	"strings"

	"aliasgate/backend/internal/config"
	"aliasgate/backend/internal/domain"
	"aliasgate/backend/internal/storage"
)

// ErrInvalidRecipient 收件地址不是本网关的有效别名
var ErrInvalidRecipient = errors.New("invalid recipient")

// MailRouter 判定入站邮件的收件地址并解析转发目标。
type MailRouter struct {
	repo storage.AliasRepository
	cfg  *config.GatewayConfig
}

// NewMailRouter 创建邮件路由器。
func NewMailRouter(repo storage.AliasRepository, cfg *config.GatewayConfig) *MailRouter {
	return &MailRouter{
		repo: repo,
		cfg:  cfg,
	}
}

// Route 解析收件地址，返回按配置顺序排列的转发目标。
// 域名不符、形状不符、别名不存在或已停用时返回 ErrInvalidRecipient；
// 存储故障作为临时错误单独上报，不与拒收混淆。
func (r *MailRouter) Route(recipient string) ([]string, error) {
	local, domainName, ok := splitAddress(recipient)
	if !ok {
		return nil, ErrInvalidRecipient
	}

	if !strings.EqualFold(domainName, r.cfg.Domain) {
		return nil, ErrInvalidRecipient
	}
	if !domain.ValidAliasShape(local) {
		return nil, ErrInvalidRecipient
	}

	record, err := r.repo.FindAlias(local, r.cfg.Domain)
	if errors.Is(err, storage.ErrAliasNotFound) {
		return nil, ErrInvalidRecipient
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up alias: %w", err)
	}
	if !record.Active {
		return nil, ErrInvalidRecipient
	}

	targets := make([]string, len(r.cfg.TargetEmails))
	copy(targets, r.cfg.TargetEmails)
	return targets, nil
}

// splitAddress 规范化收件地址并拆出本地部分和域名。
// 接受 "<a@b>" 这样的尖括号包裹形式，统一转小写。
func splitAddress(recipient string) (local, domainName string, ok bool) {
	addr := strings.TrimSpace(recipient)
	addr = strings.TrimPrefix(addr, "<")
	addr = strings.TrimSuffix(addr, ">")
	addr = strings.ToLower(addr)

	local, domainName, found := strings.Cut(addr, "@")
	if !found || local == "" || domainName == "" {
		return "", "", false
	}
	return local, domainName, true
}
