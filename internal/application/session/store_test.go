package session_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/instock-client/internal/application/session"
	"github.com/jhoicas/instock-client/internal/domain/entity"
	"github.com/jhoicas/instock-client/pkg/logger"
)

// fakeStorage persistencia en memoria para observar Save/Clear.
type fakeStorage struct {
	mu      sync.Mutex
	token   string
	user    *entity.User
	loadErr error
	saves   int
	clears  int
}

func (f *fakeStorage) Load() (string, *entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, f.user, f.loadErr
}

func (f *fakeStorage) Save(token string, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
	f.user = user
	f.saves++
	return nil
}

func (f *fakeStorage) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	f.user = nil
	f.clears++
	return nil
}

func testUser() *entity.User {
	return &entity.User{ID: "u-1", Name: "Sofía", Matricula: "1000", Nivel: entity.NivelSupervisor}
}

// El store arranca con la sesión persistida si existe.
func TestStore_CargaSesionPersistida(t *testing.T) {
	storage := &fakeStorage{token: "tok-abc", user: testUser()}
	st := session.NewStore(storage, logger.Nop())

	snap := st.Snapshot()
	assert.True(t, snap.Active())
	assert.Equal(t, "tok-abc", st.Token())
	require.NotNil(t, st.User())
	assert.Equal(t, "Sofía", st.User().Name)
}

// Un error de lectura no impide arrancar: se parte sin sesión.
func TestStore_ErrorDeLecturaArrancaVacio(t *testing.T) {
	storage := &fakeStorage{loadErr: errors.New("disco dañado")}
	st := session.NewStore(storage, logger.Nop())

	assert.False(t, st.Snapshot().Active())
	assert.Empty(t, st.Token())
}

// Cada mutación notifica a los suscriptores con el nuevo estado y persiste.
func TestStore_NotificaYSuscribe(t *testing.T) {
	storage := &fakeStorage{}
	st := session.NewStore(storage, logger.Nop())

	var mu sync.Mutex
	var seen []session.Session
	unsubscribe := st.Subscribe(func(s session.Session) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, s)
	})

	st.SetToken("tok-abc")
	st.SetUser(testUser())

	mu.Lock()
	require.Len(t, seen, 2)
	assert.Equal(t, "tok-abc", seen[0].Token)
	assert.Nil(t, seen[0].User)
	require.NotNil(t, seen[1].User)
	assert.Equal(t, "Sofía", seen[1].User.Name)
	mu.Unlock()

	storage.mu.Lock()
	assert.Equal(t, 2, storage.saves, "cada mutación debe persistirse")
	storage.mu.Unlock()

	// Desuscripto: más mutaciones no llegan.
	unsubscribe()
	st.SetToken("tok-nuevo")
	mu.Lock()
	assert.Len(t, seen, 2, "tras desuscribirse no deben llegar más estados")
	mu.Unlock()
}

// Clear borra token y usuario, limpia la persistencia y notifica el estado
// vacío (logout, 401 o timeout de inactividad).
func TestStore_ClearNotificaEstadoVacio(t *testing.T) {
	storage := &fakeStorage{token: "tok-abc", user: testUser()}
	st := session.NewStore(storage, logger.Nop())

	var mu sync.Mutex
	var last session.Session
	var notified bool
	st.Subscribe(func(s session.Session) {
		mu.Lock()
		defer mu.Unlock()
		last = s
		notified = true
	})

	st.Clear()

	assert.False(t, st.Snapshot().Active())
	assert.Nil(t, st.User())
	mu.Lock()
	assert.True(t, notified)
	assert.False(t, last.Active())
	mu.Unlock()
	storage.mu.Lock()
	assert.Equal(t, 1, storage.clears)
	storage.mu.Unlock()
}

// Sin storage el store funciona solo en memoria.
func TestStore_SinStorage(t *testing.T) {
	st := session.NewStore(nil, logger.Nop())
	st.SetToken("tok-abc")
	assert.Equal(t, "tok-abc", st.Token())
	st.Clear()
	assert.Empty(t, st.Token())
}
