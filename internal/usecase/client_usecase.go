package usecase

import (
	"context"
	"time"

	"github.com/iho/loanledger/internal/domain"
)

// ClientUseCase handles borrower onboarding.
type ClientUseCase struct {
	clientRepo ClientRepository
	idGen      IDGenerator
}

// NewClientUseCase creates a new ClientUseCase.
func NewClientUseCase(clientRepo ClientRepository, idGen IDGenerator) *ClientUseCase {
	return &ClientUseCase{clientRepo: clientRepo, idGen: idGen}
}

// CreateClientInput represents input for onboarding a client.
type CreateClientInput struct {
	Name     string
	Document string
	Phone    string
}

// CreateClient registers a new client.
func (uc *ClientUseCase) CreateClient(ctx context.Context, input CreateClientInput) (*domain.Client, error) {
	now := time.Now().UTC()
	client := &domain.Client{
		ID:        uc.idGen.Generate(),
		Name:      input.Name,
		Document:  input.Document,
		Phone:     input.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := client.Validate(); err != nil {
		return nil, err
	}

	if err := uc.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	return client, nil
}

// GetClient retrieves a client by ID.
func (uc *ClientUseCase) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	return uc.clientRepo.GetByID(ctx, id)
}

// ListClients lists clients with pagination.
func (uc *ClientUseCase) ListClients(ctx context.Context, limit, offset int) ([]*domain.Client, error) {
	limit, offset = clampPage(limit, offset)

	return uc.clientRepo.List(ctx, limit, offset)
}
