package handlers

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"walkup-counter/internal/domain"
	"walkup-counter/internal/microservices/kitchen/queue"
	dto "walkup-counter/internal/microservices/order/domain/dto"
	"walkup-counter/internal/microservices/order/service"
)

var (
	ErrBadRequest     = errors.New("bad request")
	ErrRequestTooLong = errors.New("request too long")
)

// lineBytesPerItem allows a menu name plus generous separating whitespace.
const lineBytesPerItem = 32

type OrderHandler struct {
	service      service.OrderServiceInterface
	maxItems     int
	maxLine      int
	readTimeout  time.Duration
	writeTimeout time.Duration
}

type Options struct {
	MaxItems     int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func NewOrderHandler(s service.OrderServiceInterface, opt Options) *OrderHandler {
	if opt.MaxItems <= 0 {
		opt.MaxItems = domain.MaxItems
	}
	return &OrderHandler{
		service:      s,
		maxItems:     opt.MaxItems,
		maxLine:      opt.MaxItems * lineBytesPerItem,
		readTimeout:  opt.ReadTimeout,
		writeTimeout: opt.WriteTimeout,
	}
}

// Handle reads one order line from conn, has it prepared and writes the
// reply. The returned error says which stage failed; the caller owns conn.
func (oh *OrderHandler) Handle(ctx context.Context, conn net.Conn, customerID int64) error {
	if oh.readTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(oh.readTimeout))
	}
	line, err := bufio.NewReader(io.LimitReader(conn, int64(oh.maxLine)+1)).ReadString('\n')
	if len(line) > oh.maxLine {
		werr := oh.write(conn, dto.Reply{Err: ErrRequestTooLong.Error()})
		return errors.Join(fmt.Errorf("%w: %w", ErrBadRequest, ErrRequestTooLong), werr)
	}
	if err != nil && !(errors.Is(err, io.EOF) && strings.TrimSpace(line) != "") {
		return fmt.Errorf("read request: %w", err)
	}

	items, err := domain.ParseOrder(line, oh.maxItems)
	if err != nil {
		werr := oh.write(conn, dto.Reply{Err: err.Error()})
		return errors.Join(fmt.Errorf("%w: %w", ErrBadRequest, err), werr)
	}

	receipt, err := oh.service.Serve(ctx, customerID, items)
	if err != nil {
		werr := oh.write(conn, dto.Reply{Err: failureText(err)})
		return errors.Join(err, werr)
	}

	return oh.write(conn, dto.Reply{OK: true, CustomerID: customerID, Result: receipt.Result})
}

func (oh *OrderHandler) write(conn net.Conn, r dto.Reply) error {
	if oh.writeTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(oh.writeTimeout))
	}
	if _, err := io.WriteString(conn, r.String()); err != nil {
		return fmt.Errorf("write reply: %w", err)
	}
	return nil
}

// failureText is what the customer sees; internal causes stay in the log.
func failureText(err error) string {
	switch {
	case errors.Is(err, service.ErrTimeout):
		return service.ErrTimeout.Error()
	case errors.Is(err, queue.ErrClosed):
		return "counter closed"
	default:
		return "order failed"
	}
}
