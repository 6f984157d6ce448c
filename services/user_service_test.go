package services_test

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/ShehanaHewage/TheCloset/models"
	"github.com/ShehanaHewage/TheCloset/services"
)

const testSecret = "test-secret"

// --- Mock Repository ---

type mockUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *models.User) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	copied := *user
	copied.ID = id
	m.users[id] = &copied
	return id, nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *user
	return &copied, nil
}

func (m *mockUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockUserRepo) Find(_ context.Context, _, _ int) ([]models.User, int64, error) {
	result := []models.User{}
	for _, user := range m.users {
		result = append(result, *user)
	}
	return result, int64(len(result)), nil
}

func (m *mockUserRepo) Update(_ context.Context, id primitive.ObjectID, updates bson.M) (int64, error) {
	user, ok := m.users[id]
	if !ok {
		return 0, nil
	}
	if v, ok := updates["firstName"].(string); ok {
		user.FirstName = v
	}
	if v, ok := updates["lastName"].(string); ok {
		user.LastName = v
	}
	if v, ok := updates["address"].(string); ok {
		user.Address = v
	}
	if v, ok := updates["mobile"].(string); ok {
		user.Mobile = v
	}
	if v, ok := updates["password"].(string); ok {
		user.Password = v
	}
	if v, ok := updates["type"].(string); ok {
		user.Type = v
	}
	return 1, nil
}

func (m *mockUserRepo) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	if _, ok := m.users[id]; !ok {
		return 0, nil
	}
	delete(m.users, id)
	return 1, nil
}

// --- Helpers ---

func newTestUserService(repo *mockUserRepo) services.UserService {
	logger, _ := zap.NewDevelopment()
	return services.NewUserService(repo, services.NewTokenService(testSecret), logger)
}

func registerRequest(username string) *models.RegisterRequest {
	return &models.RegisterRequest{
		FirstName: "Nadia",
		LastName:  "Perera",
		Address:   "12 Main St, Colombo",
		Mobile:    "0771234567",
		Username:  username,
		Password:  "s3cret-pass",
	}
}

// --- Tests ---

func TestRegister(t *testing.T) {
	t.Run("Success - stores hash, not plaintext", func(t *testing.T) {
		repo := newMockUserRepo()
		svc := newTestUserService(repo)

		user, svcErr := svc.Register(context.Background(), registerRequest("nadia"))

		require.Nil(t, svcErr)
		assert.Equal(t, models.UserTypeRegular, user.Type)
		assert.NotEmpty(t, user.Password)
		assert.NotEqual(t, "s3cret-pass", user.Password)

		stored, err := repo.FindByUsername(context.Background(), "nadia")
		require.NoError(t, err)
		assert.NotEqual(t, "s3cret-pass", stored.Password)
	})

	t.Run("Failure - duplicate username - 400", func(t *testing.T) {
		svc := newTestUserService(newMockUserRepo())

		_, svcErr := svc.Register(context.Background(), registerRequest("nadia"))
		require.Nil(t, svcErr)

		_, svcErr = svc.Register(context.Background(), registerRequest("nadia"))
		require.NotNil(t, svcErr)
		assert.Equal(t, 400, svcErr.StatusCode)
		assert.Equal(t, "Username already exists", svcErr.Message)
	})

	t.Run("Failure - missing fields - 400", func(t *testing.T) {
		svc := newTestUserService(newMockUserRepo())

		req := registerRequest("nadia")
		req.Password = ""
		_, svcErr := svc.Register(context.Background(), req)

		require.NotNil(t, svcErr)
		assert.Equal(t, 400, svcErr.StatusCode)
	})
}

func TestLogin(t *testing.T) {
	t.Run("Success - returns signed token with claims", func(t *testing.T) {
		svc := newTestUserService(newMockUserRepo())
		registered, svcErr := svc.Register(context.Background(), registerRequest("nadia"))
		require.Nil(t, svcErr)

		resp, svcErr := svc.Login(context.Background(), &models.LoginRequest{Username: "nadia", Password: "s3cret-pass"})

		require.Nil(t, svcErr)
		require.NotEmpty(t, resp.Token)
		assert.Equal(t, registered.ID, resp.User.ID)

		token, err := jwt.Parse(resp.Token, func(*jwt.Token) (interface{}, error) {
			return []byte(testSecret), nil
		})
		require.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, registered.ID.Hex(), claims["id"])
		assert.Equal(t, "nadia", claims["username"])
		assert.Equal(t, models.UserTypeRegular, claims["type"])
	})

	t.Run("Failure - wrong password - 401", func(t *testing.T) {
		svc := newTestUserService(newMockUserRepo())
		_, svcErr := svc.Register(context.Background(), registerRequest("nadia"))
		require.Nil(t, svcErr)

		_, svcErr = svc.Login(context.Background(), &models.LoginRequest{Username: "nadia", Password: "wrong"})

		require.NotNil(t, svcErr)
		assert.Equal(t, 401, svcErr.StatusCode)
		assert.Equal(t, "Invalid credentials", svcErr.Message)
	})

	t.Run("Failure - unknown username - 401", func(t *testing.T) {
		svc := newTestUserService(newMockUserRepo())

		_, svcErr := svc.Login(context.Background(), &models.LoginRequest{Username: "ghost", Password: "whatever"})

		require.NotNil(t, svcErr)
		assert.Equal(t, 401, svcErr.StatusCode)
		assert.Equal(t, "Invalid credentials", svcErr.Message)
	})
}

func TestChangePassword(t *testing.T) {
	t.Run("Success - new password logs in, old one does not", func(t *testing.T) {
		svc := newTestUserService(newMockUserRepo())
		registered, svcErr := svc.Register(context.Background(), registerRequest("nadia"))
		require.Nil(t, svcErr)

		svcErr = svc.ChangePassword(context.Background(), registered.ID.Hex(), &models.ChangePasswordRequest{
			CurrentPassword: "s3cret-pass",
			NewPassword:     "n3w-pass",
		})
		require.Nil(t, svcErr)

		_, svcErr = svc.Login(context.Background(), &models.LoginRequest{Username: "nadia", Password: "n3w-pass"})
		assert.Nil(t, svcErr)

		_, svcErr = svc.Login(context.Background(), &models.LoginRequest{Username: "nadia", Password: "s3cret-pass"})
		require.NotNil(t, svcErr)
		assert.Equal(t, 401, svcErr.StatusCode)
	})

	t.Run("Failure - wrong current password - 401", func(t *testing.T) {
		svc := newTestUserService(newMockUserRepo())
		registered, svcErr := svc.Register(context.Background(), registerRequest("nadia"))
		require.Nil(t, svcErr)

		svcErr = svc.ChangePassword(context.Background(), registered.ID.Hex(), &models.ChangePasswordRequest{
			CurrentPassword: "wrong",
			NewPassword:     "n3w-pass",
		})

		require.NotNil(t, svcErr)
		assert.Equal(t, 401, svcErr.StatusCode)
	})
}

func TestAdminUpdateUser(t *testing.T) {
	t.Run("Success - promotes to admin", func(t *testing.T) {
		svc := newTestUserService(newMockUserRepo())
		registered, svcErr := svc.Register(context.Background(), registerRequest("nadia"))
		require.Nil(t, svcErr)

		adminType := models.UserTypeAdmin
		updated, svcErr := svc.UpdateUser(context.Background(), registered.ID.Hex(), &models.AdminUpdateUserRequest{Type: &adminType})

		require.Nil(t, svcErr)
		assert.Equal(t, models.UserTypeAdmin, updated.Type)
	})

	t.Run("Failure - invalid type - 400", func(t *testing.T) {
		svc := newTestUserService(newMockUserRepo())
		registered, svcErr := svc.Register(context.Background(), registerRequest("nadia"))
		require.Nil(t, svcErr)

		badType := "superuser"
		_, svcErr = svc.UpdateUser(context.Background(), registered.ID.Hex(), &models.AdminUpdateUserRequest{Type: &badType})

		require.NotNil(t, svcErr)
		assert.Equal(t, 400, svcErr.StatusCode)
	})

	t.Run("Failure - invalid id - 400", func(t *testing.T) {
		svc := newTestUserService(newMockUserRepo())

		_, svcErr := svc.GetUser(context.Background(), "not-an-id")

		require.NotNil(t, svcErr)
		assert.Equal(t, 400, svcErr.StatusCode)
		assert.Equal(t, "Invalid user ID format", svcErr.Message)
	})
}
