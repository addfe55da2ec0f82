package services

import (
	"lapgalaxy/internal/models"
	"lapgalaxy/internal/repositories"
)

// UserService handles administrative user management.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// GetAllUsers retrieves all users.
func (s *UserService) GetAllUsers() ([]models.User, error) {
	return s.userRepo.GetAll()
}

// GetUserByID retrieves a single user by ID.
func (s *UserService) GetUserByID(id string) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// DeleteUser removes a user by ID.
func (s *UserService) DeleteUser(id string) error {
	return s.userRepo.Delete(id)
}

// ToggleUserActiveStatus flips a user's active flag. ADMIN accounts are
// always active: a deactivation attempt against one is silently overridden
// back to active on save.
func (s *UserService) ToggleUserActiveStatus(id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	user.Active = !user.Active
	if user.Role == models.RoleAdmin {
		user.Active = true
	}
	if err := s.userRepo.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}
