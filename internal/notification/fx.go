package notification

import (
	"github.com/smallbiznis/procura/internal/config"
	"github.com/smallbiznis/procura/internal/providers/email"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newSender(cfg config.Config, log *zap.Logger) email.Sender {
	if cfg.SMTPHost == "" {
		log.Named("notification").Info("smtp not configured, email delivery disabled")
		return email.NewNoop()
	}
	return email.NewSMTP(email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
}

var Module = fx.Module("notification",
	fx.Provide(newSender),
	fx.Provide(NewDispatcher),
)
