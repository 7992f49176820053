package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/stock-ledger-api/pkg/jwt"
)

func TestGenerateParse_IdaYVuelta(t *testing.T) {
	id := pkgjwt.Identity{UserID: "u-1", Email: "ana@ourhouse.com", Name: "Ana", Role: "Manager"}

	token, err := pkgjwt.Generate("secreto", id, "stock-ledger-api", 60)
	require.NoError(t, err)

	got, err := pkgjwt.Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := pkgjwt.Generate("secreto", pkgjwt.Identity{UserID: "u-1", Role: "Worker"}, "x", 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secreto", token)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	token, err := pkgjwt.Generate("secreto", pkgjwt.Identity{UserID: "u-1", Role: "Worker"}, "x", -5)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("secreto", token)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", pkgjwt.Identity{UserID: "u-1"}, "x", 60)
	assert.Error(t, err)
}
