package sender

import (
	"context"

	"github.com/wyfcoding/ecommerce/internal/notification/domain"
	"github.com/wyfcoding/pkg/logging"
)

// LogSender 日志发送器，将通知写入结构化日志。
// 接入真实邮件/短信通道前的默认实现。
type LogSender struct{}

func NewLogSender() domain.Sender {
	return &LogSender{}
}

func (s *LogSender) Send(ctx context.Context, userID, subject, content string) error {
	logging.Info(ctx, "Sending notification",
		"sender", "LogSender",
		"user_id", userID,
		"subject", subject,
		"content_length", len(content),
	)
	return nil
}
