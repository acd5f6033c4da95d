package store

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"portfolio-hub/internal/api"
	"portfolio-hub/internal/domain"
	"portfolio-hub/internal/notify"
	"portfolio-hub/internal/realtime"
)

// Store mantiene la lista en memoria de una colección de portafolio y la
// reconcilia entre dos fuentes independientes: las respuestas REST de las
// operaciones propias y los eventos push del canal compartido. No hay
// garantía de orden entre ambas; la idempotencia del reducer resuelve el
// empate sin números de secuencia.
//
// Política para eventos que llegan antes del primer Load: se bufferizan y se
// re-aplican sobre el snapshot fresco (buffer-until-loaded). Los eventos ya
// reflejados en el snapshot quedan en no-op por las reglas del reducer.
type Store[E domain.Entity] struct {
	logger   *zap.Logger
	client   *api.Client
	kind     domain.Kind
	notifier notify.Notifier

	mu      sync.Mutex
	list    []E
	loaded  bool
	pending []Event[E]
}

func New[E domain.Entity](logger *zap.Logger, client *api.Client, kind domain.Kind, notifier notify.Notifier) *Store[E] {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.NewDisabledNotifier()
	}
	return &Store[E]{
		logger:   logger,
		client:   client,
		kind:     kind,
		notifier: notifier,
	}
}

func (s *Store[E]) Kind() domain.Kind { return s.kind }

// List devuelve una copia de la lista actual, en orden de inserción.
func (s *Store[E]) List() []E {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]E, len(s.list))
	copy(out, s.list)
	return out
}

// Load reemplaza la lista completa con el resultado del GET de colección y
// drena el buffer de eventos push recibidos antes de completar. Es el único
// camino de recuperación tras una desincronización del canal.
func (s *Store[E]) Load(ctx context.Context) error {
	var fetched []E
	if err := s.client.List(ctx, s.kind, &fetched); err != nil {
		s.notifier.MutationFailed(s.kind, "load", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = Apply(nil, Event[E]{Op: OpReset, List: fetched})
	buffered := s.pending
	s.pending = nil
	s.loaded = true
	for _, ev := range buffered {
		s.list = Apply(s.list, ev)
	}
	if len(buffered) > 0 {
		s.logger.Debug("replayed buffered push events",
			zap.String("kind", string(s.kind)),
			zap.Int("count", len(buffered)),
		)
	}
	return nil
}

// Create hace POST y agrega la entidad devuelta, salvo que el eco push
// "added" ya la haya agregado (supresión de duplicados por ID). Ante un
// fallo la lista no se toca y el error vuelve al caller.
func (s *Store[E]) Create(ctx context.Context, input E) (E, error) {
	var created E
	if err := s.client.Create(ctx, s.kind, input, &created); err != nil {
		s.notifier.MutationFailed(s.kind, "create", err)
		var zero E
		return zero, err
	}
	s.applyLocal(Event[E]{Op: OpAdd, Entity: created})
	return created, nil
}

// Update hace PUT y reemplaza la entrada cuyo ID coincide con la devuelta.
func (s *Store[E]) Update(ctx context.Context, id string, input E) (E, error) {
	var updated E
	if err := s.client.Update(ctx, s.kind, id, input, &updated); err != nil {
		s.notifier.MutationFailed(s.kind, "update", err)
		var zero E
		return zero, err
	}
	s.applyLocal(Event[E]{Op: OpReplace, Entity: updated})
	return updated, nil
}

// Remove hace DELETE y quita la entrada. Idempotente frente al eco push.
func (s *Store[E]) Remove(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, s.kind, id); err != nil {
		s.notifier.MutationFailed(s.kind, "delete", err)
		return err
	}
	s.applyLocal(Event[E]{Op: OpRemove, ID: id})
	return nil
}

// ApplyAdded aplica un evento push de alta. Si el ID ya existe, no-op.
func (s *Store[E]) ApplyAdded(e E) {
	s.applyPush(Event[E]{Op: OpAdd, Entity: e})
}

// ApplyUpdated aplica un evento push de actualización. ID desconocido: no-op.
func (s *Store[E]) ApplyUpdated(e E) {
	s.applyPush(Event[E]{Op: OpReplace, Entity: e})
}

// ApplyRemoved aplica un evento push de borrado. ID desconocido: no-op.
func (s *Store[E]) ApplyRemoved(id string) {
	s.applyPush(Event[E]{Op: OpRemove, ID: id})
}

// Bind registra en el canal los tres handlers push de esta colección.
func (s *Store[E]) Bind(ch *realtime.Channel) {
	ch.On(realtime.AddedEvent(s.kind), func(data json.RawMessage) {
		var e E
		if err := json.Unmarshal(data, &e); err != nil {
			s.logger.Warn("bad push payload", zap.String("kind", string(s.kind)), zap.Error(err))
			return
		}
		s.ApplyAdded(e)
	})
	ch.On(realtime.UpdatedEvent(s.kind), func(data json.RawMessage) {
		var e E
		if err := json.Unmarshal(data, &e); err != nil {
			s.logger.Warn("bad push payload", zap.String("kind", string(s.kind)), zap.Error(err))
			return
		}
		s.ApplyUpdated(e)
	})
	ch.On(realtime.DeletedEvent(s.kind), func(data json.RawMessage) {
		id := decodeDeletedID(data)
		if id == "" {
			s.logger.Warn("bad delete payload", zap.String("kind", string(s.kind)))
			return
		}
		s.ApplyRemoved(id)
	})
}

// Unbind quita los handlers de esta colección del canal.
func (s *Store[E]) Unbind(ch *realtime.Channel) {
	ch.Off(realtime.AddedEvent(s.kind))
	ch.Off(realtime.UpdatedEvent(s.kind))
	ch.Off(realtime.DeletedEvent(s.kind))
}

func (s *Store[E]) applyLocal(ev Event[E]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = Apply(s.list, ev)
}

func (s *Store[E]) applyPush(ev Event[E]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		s.pending = append(s.pending, ev)
		return
	}
	s.list = Apply(s.list, ev)
}

// decodeDeletedID acepta las dos formas del payload de borrado: el ID como
// string JSON o la entidad (o un objeto mínimo) con campo "id".
func decodeDeletedID(data json.RawMessage) string {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		return id
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		return obj.ID
	}
	return ""
}
