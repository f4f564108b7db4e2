package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Lagare24/cris-bel-water/internal/model"
	"github.com/Lagare24/cris-bel-water/internal/repository"
	"github.com/Lagare24/cris-bel-water/pkg/database"
	"github.com/Lagare24/cris-bel-water/pkg/validator"
)

const walkInProtected = "Cannot delete Walk-in Customer. This is a default system client."

type CreateClientRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Phone   string `json:"phone" validate:"required,max=50"`
	Address string `json:"address" validate:"max=500"`
}

type UpdateClientRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=255"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,max=50"`
	Address  *string `json:"address" validate:"omitempty,max=500"`
	IsActive *bool   `json:"isActive"`
}

type BulkDeleteRequest struct {
	IDs []uint `json:"ids"`
}

type BulkDeleteResult struct {
	Message       string `json:"message"`
	DeletedCount  int64  `json:"deletedCount"`
	SkippedWalkIn bool   `json:"skippedWalkIn"`
	SkippedCount  int    `json:"skippedCount"`
}

type ClientService interface {
	ListClients(ctx context.Context, includeInactive bool) ([]model.Client, error)
	GetClient(ctx context.Context, id uint) (*model.Client, error)
	CreateClient(ctx context.Context, req *CreateClientRequest) (*model.Client, error)
	UpdateClient(ctx context.Context, id uint, req *UpdateClientRequest) (*model.Client, error)
	DeleteClient(ctx context.Context, id uint) error
	BulkDelete(ctx context.Context, ids []uint) (*BulkDeleteResult, error)
}

type clientService struct {
	clientRepo repository.ClientRepository
}

func NewClientService(cRepo repository.ClientRepository) ClientService {
	return &clientService{clientRepo: cRepo}
}

func (s *clientService) ListClients(ctx context.Context, includeInactive bool) ([]model.Client, error) {
	return s.clientRepo.FindAll(ctx, includeInactive)
}

func (s *clientService) GetClient(ctx context.Context, id uint) (*model.Client, error) {
	client, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !client.IsActive {
		return nil, NotFoundError("Client with ID %d not found", id)
	}
	return client, nil
}

func (s *clientService) find(ctx context.Context, id uint) (*model.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, NotFoundError("Client with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to load client %d: %w", id, err)
	}
	return client, nil
}

func (s *clientService) CreateClient(ctx context.Context, req *CreateClientRequest) (*model.Client, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Address = strings.TrimSpace(req.Address)

	if errs := validator.Messages(req); len(errs) > 0 {
		return nil, ValidationError("Validation failed", errs...)
	}
	if err := s.ensureEmailFree(ctx, req.Email, 0); err != nil {
		return nil, err
	}

	client := &model.Client{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		IsActive: true,
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ConflictError("Email already exists")
		}
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

func (s *clientService) UpdateClient(ctx context.Context, id uint, req *UpdateClientRequest) (*model.Client, error) {
	if req.Name == nil && req.Email == nil && req.Phone == nil && req.Address == nil && req.IsActive == nil {
		return nil, ValidationError("At least one field must be provided for update")
	}
	trimPtr(req.Name)
	trimPtr(req.Email)
	trimPtr(req.Phone)
	trimPtr(req.Address)

	var errs []string
	if req.Name != nil && *req.Name == "" {
		errs = append(errs, "Name cannot be empty")
	}
	if req.Email != nil && *req.Email == "" {
		errs = append(errs, "Email cannot be empty")
	}
	if req.Phone != nil && *req.Phone == "" {
		errs = append(errs, "Phone cannot be empty")
	}
	errs = append(errs, validator.Messages(req)...)
	if len(errs) > 0 {
		return nil, ValidationError("Validation failed", errs...)
	}

	client, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.IsActive != nil && !*req.IsActive && client.IsWalkIn() {
		return nil, ValidationError(walkInProtected)
	}

	if req.Email != nil && *req.Email != client.Email {
		if err := s.ensureEmailFree(ctx, *req.Email, client.ID); err != nil {
			return nil, err
		}
		client.Email = *req.Email
	}
	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if req.IsActive != nil {
		client.IsActive = *req.IsActive
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ConflictError("Email already exists")
		}
		return nil, fmt.Errorf("failed to update client %d: %w", id, err)
	}
	return client, nil
}

func (s *clientService) ensureEmailFree(ctx context.Context, email string, excludeID uint) error {
	taken, err := s.clientRepo.EmailTaken(ctx, email, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return ConflictError("Email already exists")
	}
	return nil
}

// DeleteClient deactivates the client; the walk-in client is refused.
func (s *clientService) DeleteClient(ctx context.Context, id uint) error {
	if id == model.WalkInClientID {
		return ValidationError(walkInProtected)
	}
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if _, err := s.clientRepo.Deactivate(ctx, []uint{id}); err != nil {
		return fmt.Errorf("failed to deactivate client %d: %w", id, err)
	}
	return nil
}

// BulkDelete deactivates every listed client except the walk-in client, which is skipped and reported.
func (s *clientService) BulkDelete(ctx context.Context, ids []uint) (*BulkDeleteResult, error) {
	if len(ids) == 0 {
		return nil, ValidationError("No client IDs provided")
	}

	skippedWalkIn := false
	seen := make(map[uint]struct{}, len(ids))
	targets := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == model.WalkInClientID {
			skippedWalkIn = true
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		targets = append(targets, id)
	}
	if len(targets) == 0 {
		return nil, ValidationError(walkInProtected)
	}

	found, err := s.clientRepo.FindByIDs(ctx, targets)
	if err != nil {
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}
	if len(found) == 0 {
		return nil, NotFoundError("No clients found with the provided IDs")
	}

	foundIDs := make([]uint, 0, len(found))
	for _, c := range found {
		foundIDs = append(foundIDs, c.ID)
	}
	deleted, err := s.clientRepo.Deactivate(ctx, foundIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to deactivate clients: %w", err)
	}

	result := &BulkDeleteResult{
		DeletedCount:  deleted,
		SkippedWalkIn: skippedWalkIn,
		Message:       fmt.Sprintf("%d client(s) deactivated successfully.", len(found)),
	}
	if skippedWalkIn {
		result.SkippedCount = 1
		result.Message += " Walk-in Customer was skipped (cannot be deleted)."
	}
	return result, nil
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
