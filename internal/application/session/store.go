// Package session mantiene el estado de sesión del cliente (token + snapshot
// de usuario) con suscriptores que se notifican en cada cambio. Reemplaza al
// singleton global del front-end original: el store se inyecta explícitamente
// a cada pantalla.
package session

import (
	"sync"

	"github.com/jhoicas/instock-client/internal/domain/entity"
	"github.com/jhoicas/instock-client/pkg/logger"
)

// Session estado vigente: token opaco (vacío = sin sesión) y usuario.
type Session struct {
	Token string
	User  *entity.User
}

// Active true si hay un token de sesión.
func (s Session) Active() bool {
	return s.Token != ""
}

// Storage puerto de persistencia (implementado por localstore).
type Storage interface {
	Load() (token string, user *entity.User, err error)
	Save(token string, user *entity.User) error
	Clear() error
}

// Store estado de sesión compartido entre pantallas. Seguro para uso
// concurrente; las notificaciones a suscriptores se emiten fuera del lock.
type Store struct {
	mu      sync.Mutex
	cur     Session
	storage Storage
	subs    map[int]func(Session)
	nextID  int
	log     *logger.Logger
}

// NewStore construye el store y carga la sesión persistida si existe.
// storage puede ser nil (sesión solo en memoria, útil en tests).
func NewStore(storage Storage, log *logger.Logger) *Store {
	st := &Store{
		storage: storage,
		subs:    make(map[int]func(Session)),
		log:     log,
	}
	if storage != nil {
		token, user, err := storage.Load()
		if err != nil {
			log.Warn().Err(err).Msg("no se pudo leer la sesión persistida")
		} else {
			st.cur = Session{Token: token, User: user}
		}
	}
	return st
}

// Token devuelve el token vigente (implementa rest.TokenSource).
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur.Token
}

// Snapshot devuelve una copia del estado vigente.
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// User devuelve el snapshot de usuario vigente (puede ser nil).
func (s *Store) User() *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur.User
}

// SetToken fija el token tras un login exitoso.
func (s *Store) SetToken(token string) {
	s.mutate(func(cur *Session) { cur.Token = token })
}

// SetUser actualiza el snapshot de usuario (tras GET /api/auth/user).
func (s *Store) SetUser(user *entity.User) {
	s.mutate(func(cur *Session) { cur.User = user })
}

// Clear borra token y usuario: logout, 401 o timeout de inactividad.
func (s *Store) Clear() {
	s.mu.Lock()
	s.cur = Session{}
	if s.storage != nil {
		if err := s.storage.Clear(); err != nil {
			s.log.Warn().Err(err).Msg("no se pudo limpiar la sesión persistida")
		}
	}
	snapshot := s.cur
	fns := s.subscribersLocked()
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}

// Subscribe registra un callback que recibe cada nuevo estado; devuelve la
// función para desuscribirse (las pantallas la llaman al desmontarse).
func (s *Store) Subscribe(fn func(Session)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) mutate(apply func(*Session)) {
	s.mu.Lock()
	apply(&s.cur)
	if s.storage != nil {
		if err := s.storage.Save(s.cur.Token, s.cur.User); err != nil {
			s.log.Warn().Err(err).Msg("no se pudo persistir la sesión")
		}
	}
	snapshot := s.cur
	fns := s.subscribersLocked()
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}

// subscribersLocked copia los callbacks vigentes; se invoca con s.mu tomado.
func (s *Store) subscribersLocked() []func(Session) {
	fns := make([]func(Session), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	return fns
}
