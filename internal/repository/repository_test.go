package repository

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetByIDMissIsNotAnError(t *testing.T) {
	db := openTestDB(t)

	client, err := NewUnitOfWork(db).Clients().GetByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestRepository_ExistsAndCount(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	mustCreateClient(t, db, "90000000000101")
	mustCreateClient(t, db, "90000000000102")

	clients := NewUnitOfWork(db).Clients()

	count, err := clients.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	exists, err := clients.Exists(ctx, Eq("tax_id", "90000000000101"))
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = clients.Exists(ctx, Eq("tax_id", "00000000000000"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestClientRepository_GetByTaxID(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	created := mustCreateClient(t, db, "90000000000103")

	clients := NewUnitOfWork(db).Clients()
	found, err := clients.GetByTaxID(ctx, "90000000000103")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	missing, err := clients.GetByTaxID(ctx, "12121212121212")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDeleteClient_CascadesToResponsiblePersons(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	client := mustCreateClient(t, db, "90000000000104")

	uow := NewUnitOfWork(db)
	uow.ResponsiblePersons().Add(&model.ResponsiblePerson{
		ClientID: &client.ID,
		Name:     "Maria Silva",
		Email:    "maria@example.com",
		IsActive: true,
	})
	_, err := uow.SaveChanges(ctx)
	require.NoError(t, err)

	uow2 := NewUnitOfWork(db)
	uow2.Clients().Remove(client)
	_, err = uow2.SaveChanges(ctx)
	require.NoError(t, err)

	remaining, err := uow2.ResponsiblePersons().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, remaining, "contacts must be removed with their owning client")
}

func TestDeleteClient_RestrictedByCostCenters(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	client := mustCreateClient(t, db, "90000000000105")
	mustCreateCostCenter(t, db, client, "CC-01", nil)

	uow := NewUnitOfWork(db)
	uow.Clients().Remove(client)
	_, err := uow.SaveChanges(ctx)

	var constraintErr *ConstraintViolationError
	require.ErrorAs(t, err, &constraintErr, "the store must refuse while cost centers reference the client")
}

func TestDeleteInvoice_CascadesToHistory(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	client := mustCreateClient(t, db, "90000000000106")
	costCenter := mustCreateCostCenter(t, db, client, "CC-01", nil)
	statuses := mustSeedStatuses(t, db)
	invoice := mustCreateInvoice(t, db, client, costCenter, statuses[model.StatusReceived].ID, "NF-1", testDueDate())

	uow := NewUnitOfWork(db)
	uow.InvoiceHistories().Add(&model.InvoiceHistory{
		InvoiceID:    invoice.ID,
		FromStatusID: statuses[model.StatusReceived].ID,
		ToStatusID:   statuses[model.StatusProcessing].ID,
		ChangedAt:    testDueDate(),
	})
	_, err := uow.SaveChanges(ctx)
	require.NoError(t, err)

	uow2 := NewUnitOfWork(db)
	uow2.Invoices().Remove(invoice)
	_, err = uow2.SaveChanges(ctx)
	require.NoError(t, err)

	remaining, err := uow2.InvoiceHistories().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, remaining)

	// The statuses the history referenced survive the cascade.
	statusCount, err := uow2.InvoiceStatuses().Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5, statusCount)
}

func TestResponsiblePersonRepository_ScopedQueries(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	client := mustCreateClient(t, db, "90000000000107")
	costCenter := mustCreateCostCenter(t, db, client, "CC-01", nil)

	uow := NewUnitOfWork(db)
	uow.ResponsiblePersons().Add(&model.ResponsiblePerson{
		ClientID:         &client.ID,
		Name:             "Ana",
		Email:            "ana@example.com",
		IsActive:         true,
		IsPrimaryContact: true,
	})
	uow.ResponsiblePersons().Add(&model.ResponsiblePerson{
		ClientID: &client.ID,
		Name:     "Bruno",
		Email:    "bruno@example.com",
		IsActive: false,
	})
	uow.ResponsiblePersons().Add(&model.ResponsiblePerson{
		CostCenterID: &costCenter.ID,
		Name:         "Carla",
		Email:        "carla@example.com",
		IsActive:     true,
	})
	_, err := uow.SaveChanges(ctx)
	require.NoError(t, err)

	persons := NewUnitOfWork(db).ResponsiblePersons()

	byClient, err := persons.GetByClient(ctx, client.ID)
	require.NoError(t, err)
	require.Len(t, byClient, 2)
	assert.Equal(t, "Ana", byClient[0].Name, "primary contact sorts first")

	activeOnly, err := persons.GetActiveByClient(ctx, client.ID)
	require.NoError(t, err)
	require.Len(t, activeOnly, 1)
	assert.Equal(t, "Ana", activeOnly[0].Name)

	byCostCenter, err := persons.GetByCostCenter(ctx, costCenter.ID)
	require.NoError(t, err)
	require.Len(t, byCostCenter, 1)
	assert.Equal(t, "Carla", byCostCenter[0].Name)

	primary, err := persons.GetPrimaryContact(ctx, model.ClientScope(client.ID))
	require.NoError(t, err)
	require.NotNil(t, primary)
	assert.Equal(t, "Ana", primary.Name)

	hasPrimary, err := persons.HasPrimaryContact(ctx, model.CostCenterScope(costCenter.ID), nil)
	require.NoError(t, err)
	assert.False(t, hasPrimary)

	taken, err := persons.EmailExists(ctx, "ana@example.com", model.ClientScope(client.ID), nil)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = persons.EmailExists(ctx, "ana@example.com", model.ClientScope(client.ID), &byClient[0].ID)
	require.NoError(t, err)
	assert.False(t, taken, "a row must not collide with itself")
}

func TestPrimaryContactIndex_BacksTheInvariant(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	client := mustCreateClient(t, db, "90000000000108")

	uow := NewUnitOfWork(db)
	uow.ResponsiblePersons().Add(&model.ResponsiblePerson{
		ClientID:         &client.ID,
		Name:             "First",
		Email:            "first@example.com",
		IsActive:         true,
		IsPrimaryContact: true,
	})
	_, err := uow.SaveChanges(ctx)
	require.NoError(t, err)

	uow2 := NewUnitOfWork(db)
	uow2.ResponsiblePersons().Add(&model.ResponsiblePerson{
		ClientID:         &client.ID,
		Name:             "Second",
		Email:            "second@example.com",
		IsActive:         true,
		IsPrimaryContact: true,
	})
	_, err = uow2.SaveChanges(ctx)

	var constraintErr *ConstraintViolationError
	require.ErrorAs(t, err, &constraintErr, "the partial unique index must reject a second primary contact")
}

func TestCostCenterRepository_Hierarchy(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	client := mustCreateClient(t, db, "90000000000109")
	root := mustCreateCostCenter(t, db, client, "ROOT", nil)
	childA := mustCreateCostCenter(t, db, client, "A", root)
	childB := mustCreateCostCenter(t, db, client, "B", root)
	grandchild := mustCreateCostCenter(t, db, client, "A1", childA)

	costCenters := NewUnitOfWork(db).CostCenters()

	tree, err := costCenters.GetHierarchy(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, tree, 4)
	assert.Equal(t, root.ID, tree[0].ID, "traversal starts at the root")

	position := make(map[uuid.UUID]int, len(tree))
	for i, node := range tree {
		position[node.ID] = i
	}
	assert.Less(t, position[childA.ID], position[grandchild.ID], "parents precede their children")
	assert.Contains(t, position, childB.ID)

	hasChildren, err := costCenters.HasChildren(ctx, root.ID)
	require.NoError(t, err)
	assert.True(t, hasChildren)

	hasChildren, err = costCenters.HasChildren(ctx, grandchild.ID)
	require.NoError(t, err)
	assert.False(t, hasChildren)
}

func TestCostCenterRepository_HierarchyCycleGuard(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	client := mustCreateClient(t, db, "90000000000110")
	root := mustCreateCostCenter(t, db, client, "ROOT", nil)
	child := mustCreateCostCenter(t, db, client, "CHILD", root)

	// Corrupt the tree into a cycle directly at the store level.
	require.NoError(t, db.Model(root).Update("parent_cost_center_id", child.ID).Error)

	tree, err := NewUnitOfWork(db).CostCenters().GetHierarchy(ctx, root.ID)
	require.NoError(t, err, "a corrupted parent chain must not hang the traversal")
	assert.Len(t, tree, 2)
}

func TestCostCenterRepository_GetByCodeIsPerClient(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	clientA := mustCreateClient(t, db, "90000000000111")
	clientB := mustCreateClient(t, db, "90000000000112")
	created := mustCreateCostCenter(t, db, clientA, "SHARED", nil)
	mustCreateCostCenter(t, db, clientB, "SHARED", nil)

	costCenters := NewUnitOfWork(db).CostCenters()
	found, err := costCenters.GetByCode(ctx, clientA.ID, "SHARED")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
}

func testDueDate() time.Time {
	return time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC)
}
