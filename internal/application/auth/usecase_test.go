package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/pkg/config"
	"github.com/jhoicas/stock-ledger-api/pkg/jwt"
)

const testSecret = "auth-usecase-test-secret"

type memUsers struct {
	byEmail map[string]*entity.User
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	key := strings.ToLower(u.Email)
	if _, ok := m.byEmail[key]; ok {
		return domain.ErrEmailAlreadyExists
	}
	u.ID = "user-" + key
	m.byEmail[key] = u
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return m.byEmail[strings.ToLower(email)], nil
}

func (m *memUsers) ManagerEmails(context.Context) ([]string, error) { return nil, nil }

func newUseCase() (*AuthUseCase, *memUsers) {
	users := &memUsers{byEmail: make(map[string]*entity.User)}
	uc := NewAuthUseCase(users,
		JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "test"},
		config.AuthConfig{AdminSecret: "admincode", ManagerSecret: "managercode"},
	)
	return uc, users
}

func TestRegisterUser_WorkerSinCodigo(t *testing.T) {
	uc, users := newUseCase()

	out, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		Email: " ana@ourhouse.test ", Password: "secret1", Name: "Ana", Role: entity.RoleWorker,
	})

	require.NoError(t, err)
	assert.Equal(t, "ana@ourhouse.test", out.User.Email)
	assert.Equal(t, entity.RoleWorker, out.User.Role)
	assert.NotEqual(t, "secret1", users.byEmail["ana@ourhouse.test"].PasswordHash)

	id, err := jwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, id.UserID)
	assert.Equal(t, "Ana", id.Name)
	assert.Equal(t, entity.RoleWorker, id.Role)
}

func TestRegisterUser_CodigoSecreto(t *testing.T) {
	cases := []struct {
		name string
		role string
		code string
		err  error
	}{
		{"admin con código correcto", entity.RoleAdmin, "admincode", nil},
		{"admin con código de manager", entity.RoleAdmin, "managercode", domain.ErrForbidden},
		{"manager sin código", entity.RoleManager, "", domain.ErrForbidden},
		{"manager con código correcto", entity.RoleManager, "managercode", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc, _ := newUseCase()
			_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
				Email: "x@ourhouse.test", Password: "pw", Name: "X", Role: tc.role, SecretCode: tc.code,
			})
			if tc.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestRegisterUser_Validacion(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "a@b.c", Password: "pw", Role: entity.RoleWorker})
	var valErr *domain.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "Missing field", valErr.Message)

	_, err = uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "a@b.c", Password: "pw", Name: "A", Role: "Owner"})
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "Invalid role", valErr.Message)
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	uc, _ := newUseCase()
	in := dto.RegisterRequest{Email: "dup@ourhouse.test", Password: "pw", Name: "D", Role: entity.RoleWorker}

	_, err := uc.RegisterUser(context.Background(), in)
	require.NoError(t, err)
	_, err = uc.RegisterUser(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		Email: "luis@ourhouse.test", Password: "correct", Name: "Luis", Role: entity.RoleWorker,
	})
	require.NoError(t, err)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: "luis@ourhouse.test", Password: "correct"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "Luis", out.User.Name)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "luis@ourhouse.test", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@ourhouse.test", Password: "correct"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "luis@ourhouse.test"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
