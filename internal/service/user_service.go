package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/scholarhub-api/internal/models"
	appErrors "github.com/noah-isme/scholarhub-api/pkg/errors"
)

const (
	msgUserExists        = "User already exists"
	msgUserCreated       = "User created"
	msgDefaultRole       = "User not found, returning default role."
	msgUserNotFound      = "User not found."
	msgInvalidUserID     = "Invalid user ID format."
	msgInvalidRole       = "Invalid role. Must be user, moderator, or admin."
	msgEmailRequired     = "Email parameter is required."
	msgInvalidProfile    = "Invalid profile payload."
	msgInvalidUserCreate = "A valid email is required."
)

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	RoleByEmail(ctx context.Context, email string) (models.UserRole, error)
	InsertIfAbsent(ctx context.Context, user *models.User) (bool, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	UpdateProfile(ctx context.Context, email string, req models.UpdateProfileRequest) (*models.User, error)
	UpdateRole(ctx context.Context, id string, role models.UserRole) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

// UserService handles account workflows and role resolution.
type UserService struct {
	repo      userRepository
	audit     auditRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, audit auditRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// ResolveRole returns the stored role for email. found is false when no
// user record exists; callers must not assume any role in that case.
func (s *UserService) ResolveRole(ctx context.Context, email string) (role models.UserRole, found bool, err error) {
	role, err = s.repo.RoleByEmail(ctx, normaliseEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, appErrors.Internal(err, "Failed to resolve user role.")
	}
	return role, true, nil
}

// RoleByEmail is the public lookup: unknown emails report the default role.
func (s *UserService) RoleByEmail(ctx context.Context, email string) (*models.RoleLookup, error) {
	email = normaliseEmail(email)
	if email == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, msgEmailRequired)
	}
	role, found, err := s.ResolveRole(ctx, email)
	if err != nil {
		return nil, err
	}
	if !found {
		return &models.RoleLookup{Email: email, Role: models.RoleUser, Message: msgDefaultRole}, nil
	}
	return &models.RoleLookup{Email: email, Role: role}, nil
}

// Upsert creates the user on first sign-in. Existing records are returned
// untouched with a nil InsertedID. A client supplied role is never honoured.
func (s *UserService) Upsert(ctx context.Context, req models.CreateUserRequest) (*models.UpsertUserResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, msgInvalidUserCreate)
	}
	if req.Role != "" && req.Role != string(models.RoleUser) {
		s.logger.Warn("ignoring client supplied role on sign-up", zap.String("email", req.Email), zap.String("role", req.Role))
	}

	user := &models.User{
		Email:    normaliseEmail(req.Email),
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
		Role:     models.RoleUser,
	}
	inserted, err := s.repo.InsertIfAbsent(ctx, user)
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to save user.")
	}
	if !inserted {
		return &models.UpsertUserResult{Message: msgUserExists, InsertedID: nil}, nil
	}
	id := user.ID
	return &models.UpsertUserResult{Message: msgUserCreated, InsertedID: &id}, nil
}

// Profile returns the account for email.
func (s *UserService) Profile(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.FindByEmail(ctx, normaliseEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, msgUserNotFound)
		}
		return nil, appErrors.Internal(err, "Failed to load profile.")
	}
	return user, nil
}

// UpdateProfile applies self-service changes to name, address, phone and photo.
func (s *UserService) UpdateProfile(ctx context.Context, email string, req models.UpdateProfileRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, msgInvalidProfile)
	}
	if req.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "No profile fields to update.")
	}
	user, err := s.repo.UpdateProfile(ctx, normaliseEmail(email), req)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, msgUserNotFound)
		}
		return nil, appErrors.Internal(err, "Failed to update profile.")
	}
	return user, nil
}

// List returns paginated users and pagination metadata.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "Failed to fetch users.")
	}
	return users, newPagination(filter.Page, filter.PageSize, total), nil
}

// UpdateRole changes a user's stored role. The change applies to the very
// next request of that user since roles are never read from tokens.
func (s *UserService) UpdateRole(ctx context.Context, id string, req models.UpdateRoleRequest, meta models.RequestMeta) (*models.User, error) {
	userID, err := parseID(id, msgInvalidUserID)
	if err != nil {
		return nil, err
	}
	role, ok := models.ParseRole(req.Role)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, msgInvalidRole)
	}

	existing, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, msgUserNotFound)
		}
		return nil, appErrors.Internal(err, "Failed to load user.")
	}

	updated, err := s.repo.UpdateRole(ctx, userID, role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, msgUserNotFound)
		}
		return nil, appErrors.Internal(err, "Failed to update user role.")
	}

	recordAudit(ctx, s.audit, s.logger, meta, models.AuditEntry{
		Action:     models.AuditActionRoleChange,
		Resource:   models.AuditResourceUser,
		ResourceID: userID,
		Old:        map[string]interface{}{"email": existing.Email, "role": existing.Role},
		New:        map[string]interface{}{"email": updated.Email, "role": updated.Role},
	})
	s.logger.Info("user role changed",
		zap.String("user_id", userID),
		zap.String("from", string(existing.Role)),
		zap.String("to", string(updated.Role)),
		zap.String("actor", meta.ActorEmail),
	)
	return updated, nil
}

// Delete removes a user permanently.
func (s *UserService) Delete(ctx context.Context, id string, meta models.RequestMeta) error {
	userID, err := parseID(id, msgInvalidUserID)
	if err != nil {
		return err
	}
	existing, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, msgUserNotFound)
		}
		return appErrors.Internal(err, "Failed to load user.")
	}
	if err := s.repo.Delete(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, msgUserNotFound)
		}
		return appErrors.Internal(err, "Failed to delete user.")
	}

	recordAudit(ctx, s.audit, s.logger, meta, models.AuditEntry{
		Action:     models.AuditActionUserDelete,
		Resource:   models.AuditResourceUser,
		ResourceID: userID,
		Old:        map[string]interface{}{"email": existing.Email, "role": existing.Role},
	})
	return nil
}
