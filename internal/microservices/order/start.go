package order

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"walkup-counter/internal/common/logger"
	"walkup-counter/internal/common/metrics"
	"walkup-counter/internal/microservices/order/admission"
	dto "walkup-counter/internal/microservices/order/domain/dto"
	"walkup-counter/internal/microservices/order/handlers"
)

// SessionCounter tracks open sessions in the process-wide stats.
type SessionCounter interface {
	SessionStarted()
	SessionEnded()
}

// Listener accepts counter connections and runs one session per admitted
// connection.
type Listener struct {
	gate    *admission.Gate
	handler *handlers.Handler
	stats   SessionCounter
	metrics *metrics.Metrics
	lg      *logger.Logger

	nextID atomic.Int64
	wg     sync.WaitGroup

	mu   sync.Mutex
	addr net.Addr
}

func NewListener(gate *admission.Gate, h *handlers.Handler, stats SessionCounter, m *metrics.Metrics, lg *logger.Logger) *Listener {
	if m == nil {
		m = metrics.New(nil)
	}
	if lg == nil {
		lg = logger.Nop()
	}
	return &Listener{gate: gate, handler: h, stats: stats, metrics: m, lg: lg}
}

// Run listens on addr and serves until ctx is done.
func (l *Listener) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return l.Serve(ctx, ln)
}

// Serve accepts on ln until ctx is done, then waits for open sessions to
// finish. Sessions are not cut short by ctx; they end on their own wait
// timeout at the latest.
func (l *Listener) Serve(ctx context.Context, ln net.Listener) error {
	l.mu.Lock()
	l.addr = ln.Addr()
	l.mu.Unlock()
	l.lg.Info("counter_listening", map[string]any{"addr": ln.Addr().String(), "max_sessions": l.gate.Capacity()})

	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	sessCtx := context.WithoutCancel(ctx)
	var err error
	for {
		conn, aerr := ln.Accept()
		if aerr != nil {
			if ctx.Err() == nil && !errors.Is(aerr, net.ErrClosed) {
				err = aerr
			}
			break
		}

		if !l.gate.TryAdmit() {
			l.metrics.SessionsRejected.Inc()
			l.lg.Warn("session_rejected", map[string]any{"remote": conn.RemoteAddr().String()})
			_, _ = io.WriteString(conn, dto.Busy())
			_ = conn.Close()
			continue
		}

		id := l.nextID.Add(1)
		l.wg.Add(1)
		go l.session(sessCtx, conn, id)
	}

	l.wg.Wait()
	return err
}

func (l *Listener) session(ctx context.Context, conn net.Conn, customerID int64) {
	defer l.wg.Done()
	defer l.gate.Release()
	defer conn.Close()

	if l.stats != nil {
		l.stats.SessionStarted()
		defer l.stats.SessionEnded()
	}
	l.metrics.SessionsActive.Inc()
	defer l.metrics.SessionsActive.Dec()

	if err := l.handler.OrderHandler.Handle(ctx, conn, customerID); err != nil {
		stage := "serve"
		if errors.Is(err, handlers.ErrBadRequest) {
			stage = "parse"
		}
		l.metrics.SessionErrors.WithLabelValues(stage).Inc()
		l.lg.Error("session_failed", err, map[string]any{"customer_id": customerID})
		return
	}
	l.lg.Debug("session_done", map[string]any{"customer_id": customerID})
}

// Addr is the bound address once Serve has started.
func (l *Listener) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.addr
}
