package mappers

import (
	"github.com/tdesk-io/tdesk/internal/domain/user"
	"github.com/tdesk-io/tdesk/internal/infrastructure/persistence/models"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/mapper"
)

// UserMapper handles the conversion between user domain entities and persistence models.
type UserMapper interface {
	ToModel(u *user.User) *models.UserModel
	ToDomain(model *models.UserModel) (*user.User, error)
	ToDomainList(list []models.UserModel) ([]*user.User, error)
	ResetToModel(r *user.PasswordReset) *models.PasswordResetModel
	ResetToDomain(model *models.PasswordResetModel) *user.PasswordReset
}

type UserMapperImpl struct{}

func NewUserMapper() UserMapper {
	return &UserMapperImpl{}
}

func (m *UserMapperImpl) ToModel(u *user.User) *models.UserModel {
	return &models.UserModel{
		ID:           u.ID(),
		Name:         u.Name(),
		Email:        u.Email(),
		PasswordHash: u.PasswordHash(),
		Role:         u.Role().String(),
		CreatedAt:    u.CreatedAt(),
		UpdatedAt:    u.UpdatedAt(),
	}
}

func (m *UserMapperImpl) ToDomain(model *models.UserModel) (*user.User, error) {
	return user.ReconstructUser(
		model.ID,
		model.Name,
		model.Email,
		model.PasswordHash,
		authorization.UserRole(model.Role),
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *UserMapperImpl) ToDomainList(list []models.UserModel) ([]*user.User, error) {
	return mapper.MapSliceWithError(list, func(model models.UserModel) (*user.User, error) {
		return m.ToDomain(&model)
	})
}

func (m *UserMapperImpl) ResetToModel(r *user.PasswordReset) *models.PasswordResetModel {
	return &models.PasswordResetModel{
		ID:        r.ID,
		UserID:    r.UserID,
		Selector:  r.Selector,
		TokenHash: r.TokenHash,
		ExpiresAt: r.ExpiresAt,
		UsedAt:    r.UsedAt,
		CreatedAt: r.CreatedAt,
	}
}

func (m *UserMapperImpl) ResetToDomain(model *models.PasswordResetModel) *user.PasswordReset {
	return &user.PasswordReset{
		ID:        model.ID,
		UserID:    model.UserID,
		Selector:  model.Selector,
		TokenHash: model.TokenHash,
		ExpiresAt: model.ExpiresAt,
		UsedAt:    model.UsedAt,
		CreatedAt: model.CreatedAt,
	}
}
