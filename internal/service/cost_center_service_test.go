package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCostCenterService_CreateValidatesOwnership(t *testing.T) {
	_, newUOW := seededFactory(t)
	ctx := context.Background()
	clients := NewClientService(newUOW)
	costCenters := NewCostCenterService(newUOW)

	clientA := mustCreateClientVia(t, clients, "22333444000155")
	clientB := mustCreateClientVia(t, clients, "22333444000156")
	parent := mustCreateCostCenterVia(t, costCenters, clientA.ID, "ROOT")

	// Parent under a different client is rejected.
	_, err := costCenters.CreateCostCenter(ctx, CreateCostCenterRequest{
		ClientID:           clientB.ID,
		Code:               "X",
		Name:               "Cruzado",
		ParentCostCenterID: parent.ID,
	})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Messages, "Parent cost center must belong to the same client.")

	child, err := costCenters.CreateCostCenter(ctx, CreateCostCenterRequest{
		ClientID:           clientA.ID,
		Code:               "CHILD",
		Name:               "Filho",
		ParentCostCenterID: parent.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, child.ParentCostCenterID)
	assert.Equal(t, parent.ID, *child.ParentCostCenterID)
}

func TestCostCenterService_CodeUniquePerClient(t *testing.T) {
	_, newUOW := seededFactory(t)
	ctx := context.Background()
	clients := NewClientService(newUOW)
	costCenters := NewCostCenterService(newUOW)

	clientA := mustCreateClientVia(t, clients, "22333444000157")
	clientB := mustCreateClientVia(t, clients, "22333444000158")
	mustCreateCostCenterVia(t, costCenters, clientA.ID, "FIN")

	_, err := costCenters.CreateCostCenter(ctx, CreateCostCenterRequest{
		ClientID: clientA.ID,
		Code:     "FIN",
		Name:     "Duplicado",
	})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Messages, codeTakenMessage("FIN"))

	// The same code under another client is fine.
	_, err = costCenters.CreateCostCenter(ctx, CreateCostCenterRequest{
		ClientID: clientB.ID,
		Code:     "FIN",
		Name:     "Financeiro B",
	})
	require.NoError(t, err)
}

func TestCostCenterService_Hierarchy(t *testing.T) {
	_, newUOW := seededFactory(t)
	ctx := context.Background()
	clients := NewClientService(newUOW)
	costCenters := NewCostCenterService(newUOW)

	client := mustCreateClientVia(t, clients, "22333444000159")
	root := mustCreateCostCenterVia(t, costCenters, client.ID, "ROOT")
	child, err := costCenters.CreateCostCenter(ctx, CreateCostCenterRequest{
		ClientID:           client.ID,
		Code:               "SUB",
		Name:               "Sub",
		ParentCostCenterID: root.ID,
	})
	require.NoError(t, err)

	tree, err := costCenters.GetHierarchy(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, root.ID, tree[0].ID)
	assert.Equal(t, child.ID, tree[1].ID)

	listed, err := costCenters.ListByClient(ctx, client.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestCostCenterService_DeleteRestrictedByChildren(t *testing.T) {
	_, newUOW := seededFactory(t)
	ctx := context.Background()
	clients := NewClientService(newUOW)
	costCenters := NewCostCenterService(newUOW)

	client := mustCreateClientVia(t, clients, "22333444000160")
	root := mustCreateCostCenterVia(t, costCenters, client.ID, "ROOT")
	child, err := costCenters.CreateCostCenter(ctx, CreateCostCenterRequest{
		ClientID:           client.ID,
		Code:               "SUB",
		Name:               "Sub",
		ParentCostCenterID: root.ID,
	})
	require.NoError(t, err)

	err = costCenters.DeleteCostCenter(ctx, root.ID)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Messages, "Cost center cannot be deleted while child cost centers exist.")

	// Leaves delete fine, and contacts go with them.
	persons := NewResponsiblePersonService(newUOW)
	_, err = persons.CreatePerson(ctx, CreateResponsiblePersonRequest{
		CostCenterID: child.ID,
		Name:         "Contato",
		Email:        "contato@example.com",
	})
	require.NoError(t, err)

	require.NoError(t, costCenters.DeleteCostCenter(ctx, child.ID))
	listed, err := persons.ListByCostCenter(ctx, child.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}
