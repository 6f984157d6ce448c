package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ShehanaHewage/TheCloset/models"
	"github.com/ShehanaHewage/TheCloset/repository"
)

// UserService defines the account business logic.
type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, *ServiceError)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, *ServiceError)
	GetProfile(ctx context.Context, userID string) (*models.User, *ServiceError)
	UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.User, *ServiceError)
	ChangePassword(ctx context.Context, userID string, req *models.ChangePasswordRequest) *ServiceError
	ListUsers(ctx context.Context, page, limit int) ([]models.User, int64, *ServiceError)
	GetUser(ctx context.Context, id string) (*models.User, *ServiceError)
	UpdateUser(ctx context.Context, id string, req *models.AdminUpdateUserRequest) (*models.User, *ServiceError)
	DeleteUser(ctx context.Context, id string) *ServiceError
}

type userServiceImpl struct {
	repo   repository.UserRepository
	tokens *TokenService
	logger *zap.Logger
}

// NewUserService creates a UserService.
func NewUserService(repo repository.UserRepository, tokens *TokenService, logger *zap.Logger) UserService {
	return &userServiceImpl{repo: repo, tokens: tokens, logger: logger}
}

func (s *userServiceImpl) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, *ServiceError) {
	if req.FirstName == "" || req.LastName == "" || req.Username == "" || req.Password == "" {
		return nil, NewServiceError(400, "Missing required fields")
	}

	if _, err := s.repo.FindByUsername(ctx, req.Username); err == nil {
		return nil, NewServiceError(400, "Username already exists")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		s.logger.Error("Failed to check username", zap.Error(err))
		return nil, NewServiceError(500, "Failed to register user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, NewServiceError(500, "Failed to register user")
	}

	user := &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Address:   req.Address,
		Mobile:    req.Mobile,
		Username:  req.Username,
		Password:  string(hash),
		Type:      models.UserTypeRegular,
		CreatedAt: nowUTC(),
		UpdatedAt: nowUTC(),
	}

	id, err := s.repo.Create(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, NewServiceError(400, "Username already exists")
		}
		s.logger.Error("Failed to insert user", zap.Error(err))
		return nil, NewServiceError(500, "Failed to register user")
	}
	user.ID = id

	s.logger.Info("User registered", zap.String("username", user.Username))
	return user, nil
}

func (s *userServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, *ServiceError) {
	if req.Username == "" || req.Password == "" {
		return nil, NewServiceError(400, "Username and password are required")
	}

	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewServiceError(401, "Invalid credentials")
		}
		s.logger.Error("Failed to look up user", zap.Error(err))
		return nil, NewServiceError(500, "Failed to log in")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, NewServiceError(401, "Invalid credentials")
	}

	token, err := s.tokens.Generate(user.ID.Hex(), user.Username, user.Type)
	if err != nil {
		s.logger.Error("Failed to sign token", zap.Error(err))
		return nil, NewServiceError(500, "Failed to log in")
	}

	return &models.LoginResponse{Token: token, User: user}, nil
}

func (s *userServiceImpl) GetProfile(ctx context.Context, userID string) (*models.User, *ServiceError) {
	return s.findUser(ctx, userID)
}

func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.User, *ServiceError) {
	id, svcErr := parseUserID(userID)
	if svcErr != nil {
		return nil, svcErr
	}

	updates := bson.M{}
	if req.FirstName != nil {
		updates["firstName"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["lastName"] = *req.LastName
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Mobile != nil {
		updates["mobile"] = *req.Mobile
	}

	matched, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		s.logger.Error("Failed to update profile", zap.Error(err))
		return nil, NewServiceError(500, "Failed to update profile")
	}
	if matched == 0 {
		return nil, NewServiceError(404, "User not found")
	}

	return s.findUser(ctx, userID)
}

func (s *userServiceImpl) ChangePassword(ctx context.Context, userID string, req *models.ChangePasswordRequest) *ServiceError {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return NewServiceError(400, "Current password and new password are required")
	}

	user, svcErr := s.findUser(ctx, userID)
	if svcErr != nil {
		return svcErr
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return NewServiceError(401, "Current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return NewServiceError(500, "Failed to change password")
	}

	if _, err := s.repo.Update(ctx, user.ID, bson.M{"password": string(hash)}); err != nil {
		s.logger.Error("Failed to change password", zap.Error(err))
		return NewServiceError(500, "Failed to change password")
	}
	return nil
}

func (s *userServiceImpl) ListUsers(ctx context.Context, page, limit int) ([]models.User, int64, *ServiceError) {
	users, total, err := s.repo.Find(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, 0, NewServiceError(500, "Failed to retrieve users")
	}
	return users, total, nil
}

func (s *userServiceImpl) GetUser(ctx context.Context, id string) (*models.User, *ServiceError) {
	return s.findUser(ctx, id)
}

func (s *userServiceImpl) UpdateUser(ctx context.Context, id string, req *models.AdminUpdateUserRequest) (*models.User, *ServiceError) {
	oid, svcErr := parseUserID(id)
	if svcErr != nil {
		return nil, svcErr
	}

	updates := bson.M{}
	if req.FirstName != nil {
		updates["firstName"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["lastName"] = *req.LastName
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Mobile != nil {
		updates["mobile"] = *req.Mobile
	}
	if req.Type != nil {
		if *req.Type != models.UserTypeRegular && *req.Type != models.UserTypeAdmin {
			return nil, NewServiceError(400, "Invalid user type")
		}
		updates["type"] = *req.Type
	}

	matched, err := s.repo.Update(ctx, oid, updates)
	if err != nil {
		s.logger.Error("Failed to update user", zap.Error(err))
		return nil, NewServiceError(500, "Failed to update user")
	}
	if matched == 0 {
		return nil, NewServiceError(404, "User not found")
	}

	return s.findUser(ctx, id)
}

func (s *userServiceImpl) DeleteUser(ctx context.Context, id string) *ServiceError {
	oid, svcErr := parseUserID(id)
	if svcErr != nil {
		return svcErr
	}

	deleted, err := s.repo.Delete(ctx, oid)
	if err != nil {
		s.logger.Error("Failed to delete user", zap.Error(err))
		return NewServiceError(500, "Failed to delete user")
	}
	if deleted == 0 {
		return NewServiceError(404, "User not found")
	}

	s.logger.Info("User deleted", zap.String("id", id))
	return nil
}

func (s *userServiceImpl) findUser(ctx context.Context, id string) (*models.User, *ServiceError) {
	oid, svcErr := parseUserID(id)
	if svcErr != nil {
		return nil, svcErr
	}

	user, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewServiceError(404, "User not found")
		}
		s.logger.Error("Failed to look up user", zap.Error(err))
		return nil, NewServiceError(500, "Failed to retrieve user")
	}
	return user, nil
}

func parseUserID(id string) (primitive.ObjectID, *ServiceError) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, NewServiceError(400, "Invalid user ID format")
	}
	return oid, nil
}
