package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-hub/internal/api"
	"portfolio-hub/internal/domain"
	"portfolio-hub/internal/session"
)

type recordingNotifier struct {
	mu  sync.Mutex
	ops []string
}

func (n *recordingNotifier) MutationFailed(kind domain.Kind, op string, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ops = append(n.ops, string(kind)+"/"+op)
}

func (n *recordingNotifier) recorded() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.ops...)
}

func newTestStore(t *testing.T, handler http.Handler) (*Store[domain.Project], *recordingNotifier) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	notifier := &recordingNotifier{}
	client := api.NewClient(srv.URL, session.NewMemoryTokenStore(), nil)
	return New[domain.Project](nil, client, domain.KindProjects, notifier), notifier
}

func projectsHandler(t *testing.T, initial []domain.Project, mux *http.ServeMux) {
	t.Helper()
	mux.HandleFunc("GET /projects", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(initial)
	})
}

func TestStore_LoadReplacesList(t *testing.T) {
	mux := http.NewServeMux()
	projectsHandler(t, []domain.Project{{ID: "1", Title: "A"}, {ID: "2", Title: "B"}}, mux)
	s, _ := newTestStore(t, mux)

	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.Load(context.Background()))

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "1", list[0].ID)
	assert.Equal(t, "2", list[1].ID)
}

func TestStore_CreateAppendsReturnedEntity(t *testing.T) {
	mux := http.NewServeMux()
	projectsHandler(t, nil, mux)
	mux.HandleFunc("POST /projects", func(w http.ResponseWriter, r *http.Request) {
		var in domain.Project
		_ = json.NewDecoder(r.Body).Decode(&in)
		in.ID = "5"
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(in)
	})
	s, _ := newTestStore(t, mux)
	require.NoError(t, s.Load(context.Background()))

	created, err := s.Create(context.Background(), domain.Project{Title: "X"})
	require.NoError(t, err)
	assert.Equal(t, "5", created.ID)

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, "X", list[0].Title)
}

func TestStore_CreateSuppressesPushEchoDuplicate(t *testing.T) {
	// El eco push "added" y la respuesta REST del propio create llegan en
	// cualquier orden; la lista final debe tener exactamente una entrada.
	entity := domain.Project{ID: "5", Title: "X"}

	t.Run("push first", func(t *testing.T) {
		release := make(chan struct{})
		mux := http.NewServeMux()
		projectsHandler(t, nil, mux)
		mux.HandleFunc("POST /projects", func(w http.ResponseWriter, r *http.Request) {
			<-release
			_ = json.NewEncoder(w).Encode(entity)
		})
		s, _ := newTestStore(t, mux)
		require.NoError(t, s.Load(context.Background()))

		done := make(chan error, 1)
		go func() {
			_, err := s.Create(context.Background(), domain.Project{Title: "X"})
			done <- err
		}()

		// El eco llega mientras el POST sigue en vuelo.
		s.ApplyAdded(entity)
		close(release)
		require.NoError(t, <-done)

		require.Len(t, s.List(), 1)
	})

	t.Run("rest first", func(t *testing.T) {
		mux := http.NewServeMux()
		projectsHandler(t, nil, mux)
		mux.HandleFunc("POST /projects", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(entity)
		})
		s, _ := newTestStore(t, mux)
		require.NoError(t, s.Load(context.Background()))

		_, err := s.Create(context.Background(), domain.Project{Title: "X"})
		require.NoError(t, err)
		s.ApplyAdded(entity)

		require.Len(t, s.List(), 1)
	})
}

func TestStore_MutationFailureLeavesListUntouched(t *testing.T) {
	mux := http.NewServeMux()
	projectsHandler(t, []domain.Project{{ID: "1", Title: "A"}}, mux)
	mux.HandleFunc("POST /projects", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	s, notifier := newTestStore(t, mux)
	require.NoError(t, s.Load(context.Background()))

	_, err := s.Create(context.Background(), domain.Project{Title: "X"})
	require.Error(t, err)

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, "1", list[0].ID)
	assert.Equal(t, []string{"projects/create"}, notifier.recorded())
}

func TestStore_UpdateReplacesMatchingEntry(t *testing.T) {
	mux := http.NewServeMux()
	projectsHandler(t, []domain.Project{{ID: "1", Title: "A"}, {ID: "2", Title: "B"}}, mux)
	mux.HandleFunc("PUT /projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		var in domain.Project
		_ = json.NewDecoder(r.Body).Decode(&in)
		in.ID = r.PathValue("id")
		_ = json.NewEncoder(w).Encode(in)
	})
	s, _ := newTestStore(t, mux)
	require.NoError(t, s.Load(context.Background()))

	updated, err := s.Update(context.Background(), "2", domain.Project{Title: "B2"})
	require.NoError(t, err)
	assert.Equal(t, "B2", updated.Title)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "B2", list[1].Title)
}

func TestStore_RemoveDeletesMatchingEntry(t *testing.T) {
	mux := http.NewServeMux()
	projectsHandler(t, []domain.Project{{ID: "1"}, {ID: "2"}}, mux)
	mux.HandleFunc("DELETE /projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	s, _ := newTestStore(t, mux)
	require.NoError(t, s.Load(context.Background()))

	require.NoError(t, s.Remove(context.Background(), "1"))

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, "2", list[0].ID)
}

func TestStore_PushDeleteUnknownIDIsNoOp(t *testing.T) {
	mux := http.NewServeMux()
	projectsHandler(t, []domain.Project{{ID: "1", Title: "A"}}, mux)
	s, _ := newTestStore(t, mux)
	require.NoError(t, s.Load(context.Background()))

	s.ApplyRemoved("2")

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, "1", list[0].ID)
}

func TestStore_PushUpdateUnknownIDDoesNotInsert(t *testing.T) {
	mux := http.NewServeMux()
	projectsHandler(t, nil, mux)
	s, _ := newTestStore(t, mux)
	require.NoError(t, s.Load(context.Background()))

	s.ApplyUpdated(domain.Project{ID: "9", Title: "ghost"})

	assert.Empty(t, s.List())
}

func TestStore_BuffersPushEventsUntilLoaded(t *testing.T) {
	mux := http.NewServeMux()
	projectsHandler(t, []domain.Project{{ID: "2", Title: "B"}}, mux)
	s, _ := newTestStore(t, mux)

	// Antes del primer Load los eventos no se aplican: se bufferizan.
	s.ApplyAdded(domain.Project{ID: "1", Title: "A"})
	s.ApplyAdded(domain.Project{ID: "2", Title: "stale"})
	assert.Empty(t, s.List())

	require.NoError(t, s.Load(context.Background()))

	// El snapshot manda; el buffer se re-aplica y los duplicados quedan en no-op.
	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "2", list[0].ID)
	assert.Equal(t, "B", list[0].Title)
	assert.Equal(t, "1", list[1].ID)
}

func TestStore_LoadFailureKeepsLastKnownGood(t *testing.T) {
	fail := false
	mux := http.NewServeMux()
	mux.HandleFunc("GET /projects", func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode([]domain.Project{{ID: "1"}})
	})
	s, notifier := newTestStore(t, mux)
	require.NoError(t, s.Load(context.Background()))

	fail = true
	require.Error(t, s.Load(context.Background()))

	require.Len(t, s.List(), 1)
	assert.Equal(t, []string{"projects/load"}, notifier.recorded())
}

func TestDecodeDeletedID(t *testing.T) {
	assert.Equal(t, "5", decodeDeletedID(json.RawMessage(`"5"`)))
	assert.Equal(t, "5", decodeDeletedID(json.RawMessage(`{"id":"5","title":"X"}`)))
	assert.Equal(t, "", decodeDeletedID(json.RawMessage(`12{`)))
}
