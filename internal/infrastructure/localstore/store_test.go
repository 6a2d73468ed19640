package localstore_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/instock-client/internal/domain/entity"
	"github.com/jhoicas/instock-client/internal/infrastructure/localstore"
)

func tempStore(t *testing.T) (*localstore.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	st, err := localstore.New(path)
	require.NoError(t, err)
	return st, path
}

// Save seguido de Load devuelve el mismo token y usuario.
func TestStore_GuardaYRecupera(t *testing.T) {
	st, _ := tempStore(t)
	user := &entity.User{
		ID:        "u-1",
		Name:      "Sofía",
		Matricula: "1000",
		Nivel:     entity.NivelSupervisor,
		LastLogin: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, st.Save("tok-abc", user))

	token, loaded, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", token)
	require.NotNil(t, loaded)
	assert.Equal(t, "Sofía", loaded.Name)
	assert.Equal(t, "1000", loaded.Matricula)
	assert.Equal(t, entity.NivelSupervisor, loaded.Nivel)
}

// Archivo inexistente no es error: simplemente no hay sesión previa.
func TestStore_ArchivoInexistenteEsSesionVacia(t *testing.T) {
	st, _ := tempStore(t)

	token, user, err := st.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, user)
}

// Archivo corrupto se trata como sesión ausente, no como fallo.
func TestStore_ArchivoCorruptoEsSesionVacia(t *testing.T) {
	st, path := tempStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte("{no es json"), 0o600))

	token, user, err := st.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, user)
}

// Save sin usuario persiste solo el token.
func TestStore_GuardaSoloToken(t *testing.T) {
	st, _ := tempStore(t)
	require.NoError(t, st.Save("tok-abc", nil))

	token, user, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", token)
	assert.Nil(t, user)
}

// Clear elimina el archivo; limpiar dos veces no falla.
func TestStore_ClearEliminaArchivo(t *testing.T) {
	st, path := tempStore(t)
	require.NoError(t, st.Save("tok-abc", nil))

	require.NoError(t, st.Clear())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "el archivo debe desaparecer")

	require.NoError(t, st.Clear(), "limpiar sin archivo no es error")
}
