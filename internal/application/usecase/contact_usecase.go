package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ContactUseCase casos de uso CRUD para contrapartes.
type ContactUseCase struct {
	contacts repository.ContactRepository
}

// NewContactUseCase construye el caso de uso.
func NewContactUseCase(contacts repository.ContactRepository) *ContactUseCase {
	return &ContactUseCase{contacts: contacts}
}

// Create crea una contraparte nueva.
func (uc *ContactUseCase) Create(ctx context.Context, in dto.CreateContactRequest) (*dto.ContactResponse, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	if !in.IsSupplier && !in.IsCustomer {
		return nil, fmt.Errorf("%w: la contraparte debe ser proveedor, cliente o ambos", domain.ErrInvalidInput)
	}
	c := &entity.Contact{
		ID:         uuid.New().String(),
		Name:       in.Name,
		Address:    in.Address,
		Phone:      in.Phone,
		Email:      in.Email,
		IsSupplier: in.IsSupplier,
		IsCustomer: in.IsCustomer,
		Notes:      in.Notes,
		CreatedAt:  time.Now(),
	}
	if err := uc.contacts.Create(ctx, c); err != nil {
		return nil, err
	}
	return toContactResponse(c), nil
}

// GetByID obtiene una contraparte por ID.
func (uc *ContactUseCase) GetByID(ctx context.Context, id string) (*dto.ContactResponse, error) {
	c, err := uc.contacts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	return toContactResponse(c), nil
}

// Update actualiza una contraparte.
func (uc *ContactUseCase) Update(ctx context.Context, id string, in dto.UpdateContactRequest) (*dto.ContactResponse, error) {
	c, err := uc.contacts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Address != nil {
		c.Address = *in.Address
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.IsSupplier != nil {
		c.IsSupplier = *in.IsSupplier
	}
	if in.IsCustomer != nil {
		c.IsCustomer = *in.IsCustomer
	}
	if in.Notes != nil {
		c.Notes = *in.Notes
	}
	if in.Disabled != nil {
		c.Disabled = *in.Disabled
	}
	if !c.IsSupplier && !c.IsCustomer {
		return nil, fmt.Errorf("%w: la contraparte debe ser proveedor, cliente o ambos", domain.ErrInvalidInput)
	}
	if err := uc.contacts.Update(ctx, c); err != nil {
		return nil, err
	}
	return toContactResponse(c), nil
}

// List lista contrapartes.
func (uc *ContactUseCase) List(ctx context.Context, includeDisabled bool) ([]dto.ContactResponse, error) {
	list, err := uc.contacts.List(ctx, includeDisabled)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ContactResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toContactResponse(c))
	}
	return out, nil
}

func toContactResponse(c *entity.Contact) *dto.ContactResponse {
	if c == nil {
		return nil
	}
	return &dto.ContactResponse{
		ID:         c.ID,
		Name:       c.Name,
		Address:    c.Address,
		Phone:      c.Phone,
		Email:      c.Email,
		IsSupplier: c.IsSupplier,
		IsCustomer: c.IsCustomer,
		Notes:      c.Notes,
		Disabled:   c.Disabled,
		CreatedAt:  c.CreatedAt,
	}
}
