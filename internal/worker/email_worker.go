package worker

import (
	"github.com/campus-kit/user-service/internal/service"
)

// StartEmailWorker registers email handlers on the event dispatcher.
func StartEmailWorker(emailService *service.EmailService) {
	if emailService == nil {
		return
	}
	emailService.RegisterHandlers()
}
