package notificator

import (
	"context"

	"walkup-counter/internal/common/logger"
	"walkup-counter/internal/connections/rabbitmq"
	"walkup-counter/internal/microservices/notificator/service"
)

func Start(ctx context.Context, rmqClient *rabbitmq.Client, lg *logger.Logger) error {
	return service.NewNotificatorService(rmqClient, lg).Notify(ctx)
}
