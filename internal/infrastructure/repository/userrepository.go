package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tdesk-io/tdesk/internal/domain/user"
	"github.com/tdesk-io/tdesk/internal/infrastructure/persistence/mappers"
	"github.com/tdesk-io/tdesk/internal/infrastructure/persistence/models"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/db"
)

// UserRepository implements the user.Repository interface.
type UserRepository struct {
	db     *gorm.DB
	mapper mappers.UserMapper
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		db:     db,
		mapper: mappers.NewUserMapper(),
	}
}

// Create creates a new user.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	model := r.mapper.ToModel(u)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if db.IsDuplicateKey(err) {
			return user.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", db.Classify(err))
	}
	return u.SetID(model.ID)
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.first(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *UserRepository) first(ctx context.Context, cond string, arg interface{}) (*user.User, error) {
	var model models.UserModel
	if err := db.GetTxFromContext(ctx, r.db).Where(cond, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", db.Classify(err))
	}
	return r.mapper.ToDomain(&model)
}

// Exists checks if a user exists by ID.
func (r *UserRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return r.exists(ctx, "id = ?", id)
}

// ExistsByEmail checks if a user exists by email.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *UserRepository) exists(ctx context.Context, cond string, arg interface{}) (bool, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.UserModel{}).Where(cond, arg).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", db.Classify(err))
	}
	return count > 0, nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id uint, role authorization.UserRole) error {
	return r.update(ctx, id, map[string]interface{}{"role": role.String()})
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	return r.update(ctx, id, map[string]interface{}{"password_hash": hash})
}

func (r *UserRepository) update(ctx context.Context, id uint, values map[string]interface{}) error {
	values["updated_at"] = time.Now().UTC()
	result := db.GetTxFromContext(ctx, r.db).Model(&models.UserModel{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", db.Classify(result.Error))
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// Delete removes a user. Callers check for owned tickets first.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	result := db.GetTxFromContext(ctx, r.db).Where("id = ?", id).Delete(&models.UserModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", db.Classify(result.Error))
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// List returns users newest first, filtered by role and a name or email search.
func (r *UserRepository) List(ctx context.Context, filter user.ListFilter) ([]*user.User, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.UserModel{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role.String())
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + s + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", like, like)
	}

	var list []models.UserModel
	if err := query.Scopes(db.Newest("created_at")).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", db.Classify(err))
	}
	return r.mapper.ToDomainList(list)
}

func (r *UserRepository) ListAgents(ctx context.Context) ([]*user.User, error) {
	var list []models.UserModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("role IN ?", []string{authorization.RoleAdmin.String(), authorization.RoleSupport.String()}).
		Order("name ASC").
		Order("id ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", db.Classify(err))
	}
	return r.mapper.ToDomainList(list)
}

var _ user.Repository = (*UserRepository)(nil)
