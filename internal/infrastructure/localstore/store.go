// Package localstore persiste el estado durable del cliente: token y último
// snapshot de usuario, bajo claves fijas en un archivo JSON (el análogo del
// localStorage del navegador). Se lee al arrancar y se limpia en logout o 401.
package localstore

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/jhoicas/instock-client/internal/application/dto"
	"github.com/jhoicas/instock-client/internal/domain/entity"
)

// fileState contenido del archivo de sesión.
type fileState struct {
	Token string            `json:"token"`
	User  *dto.UserResponse `json:"user,omitempty"`
}

// Store persistencia de sesión basada en archivo.
type Store struct {
	mu   sync.Mutex
	path string
}

// New construye el store. path vacío usa ~/.instock/session.json.
func New(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".instock", "session.json")
	}
	return &Store{path: path}, nil
}

// Load lee token y usuario persistidos. Archivo inexistente no es error:
// simplemente no hay sesión previa.
func (s *Store) Load() (string, *entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, nil
		}
		return "", nil, err
	}
	var state fileState
	if err := json.Unmarshal(raw, &state); err != nil {
		// Archivo corrupto: lo tratamos como sesión ausente.
		return "", nil, nil
	}
	var user *entity.User
	if state.User != nil {
		user = state.User.ToEntity()
	}
	return state.Token, user, nil
}

// Save escribe token y usuario de forma atómica (archivo temporal + rename).
func (s *Store) Save(token string, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := fileState{Token: token}
	if user != nil {
		resp := dto.FromUser(user)
		state.User = &resp
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Clear elimina el estado persistido.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
