package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientService_CreateAndGet(t *testing.T) {
	_, newUOW := seededFactory(t)
	ctx := context.Background()
	clients := NewClientService(newUOW)

	created, err := clients.CreateClient(ctx, CreateClientRequest{
		CompanyName: "Transportes Norte Ltda",
		TradeName:   "TransNorte",
		TaxID:       "12345678000190",
		Email:       "contato@transnorte.example.com",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.IsActive)
	require.NotNil(t, created.TradeName)
	assert.Equal(t, "TransNorte", *created.TradeName)

	fetched, err := clients.GetClient(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)

	_, err = clients.GetClient(ctx, "00000000-0000-0000-0000-000000000001")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientService_DuplicateTaxIDMessage(t *testing.T) {
	_, newUOW := seededFactory(t)
	ctx := context.Background()
	clients := NewClientService(newUOW)

	mustCreateClientVia(t, clients, "12345678000191")

	_, err := clients.CreateClient(ctx, CreateClientRequest{
		CompanyName: "Outra Empresa",
		TaxID:       "12345678000191",
	})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Messages, taxIDTakenMessage("12345678000191"))
}

func TestClientService_ListFiltersAndPages(t *testing.T) {
	_, newUOW := seededFactory(t)
	ctx := context.Background()
	clients := NewClientService(newUOW)

	alpha := mustCreateClientVia(t, clients, "12345678000192")
	_, err := clients.CreateClient(ctx, CreateClientRequest{
		CompanyName: "Beta Logistica",
		TaxID:       "12345678000193",
	})
	require.NoError(t, err)
	require.NoError(t, clients.DeactivateClient(ctx, alpha.ID))

	active, total, err := clients.ListClients(ctx, ClientFilter{ActiveOnly: true, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, active, 1)
	assert.Equal(t, "Beta Logistica", active[0].CompanyName)

	matched, total, err := clients.ListClients(ctx, ClientFilter{Search: "beta", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, matched, 1)
	assert.Equal(t, "Beta Logistica", matched[0].CompanyName)
}

func TestClientService_DeleteRestrictedFailsFast(t *testing.T) {
	_, newUOW := seededFactory(t)
	ctx := context.Background()
	clients := NewClientService(newUOW)
	costCenters := NewCostCenterService(newUOW)

	client := mustCreateClientVia(t, clients, "12345678000194")
	mustCreateCostCenterVia(t, costCenters, client.ID, "CC-01")

	err := clients.DeleteClient(ctx, client.ID)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	// Still there: the refusal happened before any write.
	_, err = clients.GetClient(ctx, client.ID)
	require.NoError(t, err)
}

func TestClientService_DeleteWithoutDependents(t *testing.T) {
	_, newUOW := seededFactory(t)
	ctx := context.Background()
	clients := NewClientService(newUOW)

	client := mustCreateClientVia(t, clients, "12345678000195")
	require.NoError(t, clients.DeleteClient(ctx, client.ID))

	_, err := clients.GetClient(ctx, client.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
