package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"portfolio-hub/internal/domain"
)

// AddedEvent devuelve el nombre del evento push de alta para una colección.
func AddedEvent(k domain.Kind) string { return k.Singular() + "Added" }

// UpdatedEvent devuelve el nombre del evento push de actualización.
func UpdatedEvent(k domain.Kind) string { return k.Singular() + "Updated" }

// DeletedEvent devuelve el nombre del evento push de borrado.
func DeletedEvent(k domain.Kind) string { return k.Singular() + "Deleted" }

// Handler procesa el payload de un evento push. Los handlers corren en serie
// sobre la goroutine de lectura del canal, sin awaits internos.
type Handler func(data json.RawMessage)

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Channel mantiene la conexión push con el backend y despacha eventos con
// nombre a los handlers registrados. La reconexión es responsabilidad del
// canal, no de la capa de sincronización: reintenta con backoff exponencial
// y avisa por OnReconnect para que los dueños re-carguen su verdad base.
type Channel struct {
	url    string
	logger *zap.Logger
	dialer *websocket.Dialer

	mu          sync.Mutex
	handlers    map[string]Handler
	onReconnect func()

	cancel context.CancelFunc
	done   chan struct{}
}

func NewChannel(url string, logger *zap.Logger) *Channel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Channel{
		url:      url,
		logger:   logger,
		dialer:   websocket.DefaultDialer,
		handlers: make(map[string]Handler),
	}
}

// On registra el handler para un evento. Reemplaza cualquier handler previo.
func (ch *Channel) On(event string, fn Handler) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.handlers[event] = fn
}

// Off des-registra el handler de un evento.
func (ch *Channel) Off(event string) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	delete(ch.handlers, event)
}

// OnReconnect registra el hook invocado tras restablecer la conexión.
func (ch *Channel) OnReconnect(fn func()) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.onReconnect = fn
}

// Start lanza la goroutine de conexión/lectura. Es no bloqueante.
func (ch *Channel) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	ch.cancel = cancel
	ch.done = make(chan struct{})
	go ch.run(ctx)
}

// Close corta la conexión y espera a que la goroutine de lectura termine.
func (ch *Channel) Close() {
	if ch.cancel == nil {
		return
	}
	ch.cancel()
	<-ch.done
}

func (ch *Channel) run(ctx context.Context) {
	defer close(ch.done)

	attempt := 0
	connectedBefore := false
	for {
		if ctx.Err() != nil {
			return
		}

		conn, _, err := ch.dialer.DialContext(ctx, ch.url, nil)
		if err != nil {
			wait := nextBackoff(attempt)
			attempt++
			ch.logger.Warn("push channel dial failed",
				zap.Error(err),
				zap.Duration("retry_in", wait),
			)
			select {
			case <-ctx.Done():
				return
			case <-timeAfter(wait):
			}
			continue
		}

		attempt = 0
		if connectedBefore {
			ch.logger.Info("push channel reconnected")
			ch.fireReconnect()
		} else {
			ch.logger.Info("push channel connected")
		}
		connectedBefore = true

		ch.readLoop(ctx, conn)
		_ = conn.Close()
	}
}

func (ch *Channel) readLoop(ctx context.Context, conn *websocket.Conn) {
	closer := make(chan struct{})
	defer close(closer)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-closer:
		}
	}()

	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			if ctx.Err() == nil {
				ch.logger.Warn("push channel read failed", zap.Error(err))
			}
			return
		}
		ch.dispatch(f)
	}
}

func (ch *Channel) dispatch(f frame) {
	ch.mu.Lock()
	fn := ch.handlers[f.Event]
	ch.mu.Unlock()
	if fn == nil {
		return
	}
	fn(f.Data)
}

func (ch *Channel) fireReconnect() {
	ch.mu.Lock()
	fn := ch.onReconnect
	ch.mu.Unlock()
	if fn != nil {
		fn()
	}
}
