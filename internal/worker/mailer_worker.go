package worker

import (
	"github.com/spec-kit/bookly-service/internal/service"
)

// StartMailerWorker registers mail handlers.
func StartMailerWorker(mailService *service.MailService) {
	if mailService == nil {
		return
	}
	mailService.RegisterHandlers()
}
