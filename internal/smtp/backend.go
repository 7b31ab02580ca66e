package smtp

import (
	"errors"
	"io"

	gosmtp "github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"aliasgate/backend/internal/monitoring"
	"aliasgate/backend/internal/service"
)

// Forwarder 把一封原始邮件投递给单个目标地址。
type Forwarder interface {
	Forward(from, to string, raw []byte) error
}

// Backend 实现 go-smtp 的 Backend 接口。
//
// 这是一个转发网关而不是投递终点：RCPT 阶段用路由表判定
// 收件地址是否为有效别名，DATA 阶段把原始报文原样转发给
// 配置的全部目标。无效别名在 RCPT 阶段即被 550 拒绝，
// 服务器不会成为开放中继。
type Backend struct {
	router    *service.MailRouter
	forwarder Forwarder
	metrics   *monitoring.Metrics
	log       *zap.Logger

	maxMessageBytes int64
}

// NewBackend 创建 SMTP Backend。
func NewBackend(router *service.MailRouter, forwarder Forwarder, metrics *monitoring.Metrics, log *zap.Logger, maxMessageBytes int64) *Backend {
	if maxMessageBytes <= 0 {
		maxMessageBytes = 25 << 20
	}
	return &Backend{
		router:          router,
		forwarder:       forwarder,
		metrics:         metrics,
		log:             log,
		maxMessageBytes: maxMessageBytes,
	}
}

// NewSession 创建新的 SMTP 会话。
func (b *Backend) NewSession(c *gosmtp.Conn) (gosmtp.Session, error) {
	return &session{backend: b}, nil
}

type session struct {
	backend *Backend

	fromAddress string
	// envelope 每个被接受的收件地址对应一份目标列表
	envelope []delivery
}

type delivery struct {
	recipient string
	targets   []string
}

// Mail 处理 MAIL 命令。
func (s *session) Mail(from string, opts *gosmtp.MailOptions) error {
	s.fromAddress = from
	return nil
}

// Rcpt 处理 RCPT 命令。
// 路由判定失败即拒收；存储故障返回临时错误，让对端稍后重试。
func (s *session) Rcpt(to string, _ *gosmtp.RcptOptions) error {
	targets, err := s.backend.router.Route(to)
	if errors.Is(err, service.ErrInvalidRecipient) {
		s.backend.metrics.MailRejected.Inc()
		return &gosmtp.SMTPError{
			Code:         550,
			EnhancedCode: gosmtp.EnhancedCode{5, 1, 1},
			Message:      "Invalid recipient",
		}
	}
	if err != nil {
		s.backend.log.Error("recipient lookup failed", zap.String("to", to), zap.Error(err))
		return &gosmtp.SMTPError{
			Code:         451,
			EnhancedCode: gosmtp.EnhancedCode{4, 3, 0},
			Message:      "Temporary server error",
		}
	}

	s.envelope = append(s.envelope, delivery{recipient: to, targets: targets})
	return nil
}

// Data 接收邮件内容并转发给全部目标。
func (s *session) Data(r io.Reader) error {
	raw, err := io.ReadAll(io.LimitReader(r, s.backend.maxMessageBytes))
	if err != nil {
		return err
	}

	for _, dlv := range s.envelope {
		for _, target := range dlv.targets {
			if err := s.backend.forwarder.Forward(s.fromAddress, target, raw); err != nil {
				s.backend.log.Error("forward failed",
					zap.String("recipient", dlv.recipient),
					zap.String("target", target),
					zap.Error(err),
				)
				return &gosmtp.SMTPError{
					Code:         451,
					EnhancedCode: gosmtp.EnhancedCode{4, 4, 1},
					Message:      "Forwarding failed",
				}
			}
			s.backend.metrics.MailForwarded.Inc()
		}

		s.backend.log.Info("mail forwarded",
			zap.String("from", s.fromAddress),
			zap.String("recipient", dlv.recipient),
			zap.Int("targets", len(dlv.targets)),
			zap.Int("bytes", len(raw)),
		)
	}

	return nil
}

// Reset 重置会话状态。
func (s *session) Reset() {
	s.fromAddress = ""
	s.envelope = nil
}

// Logout 会话结束。
func (s *session) Logout() error {
	return nil
}
