package handlers

import "walkup-counter/internal/microservices/order/service"

type Handler struct {
	OrderHandler *OrderHandler
}

func New(s *service.Service, opt Options) *Handler {
	return &Handler{
		OrderHandler: NewOrderHandler(s.OrderService, opt),
	}
}
