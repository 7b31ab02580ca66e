package smtp

import (
	"bytes"
	"fmt"

	gosmtp "github.com/emersion/go-smtp"
)

// SMTPForwarder 通过上游 SMTP 服务器转发邮件。
type SMTPForwarder struct {
	addr string
}

// NewSMTPForwarder 创建转发器，addr 为上游服务器的 host:port。
func NewSMTPForwarder(addr string) *SMTPForwarder {
	return &SMTPForwarder{addr: addr}
}

// Forward 把原始报文投递给单个目标，每次投递建立独立连接。
func (f *SMTPForwarder) Forward(from, to string, raw []byte) error {
	err := gosmtp.SendMail(f.addr, nil, from, []string{to}, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to relay to %s via %s: %w", to, f.addr, err)
	}
	return nil
}
