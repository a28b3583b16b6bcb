package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restopos/restopos/internal/apperror"
	"github.com/restopos/restopos/internal/db/dbtest"
	"github.com/restopos/restopos/internal/db/models"
)

func TestPageRequestNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		in       PageRequest
		expected PageRequest
		offset   int
	}{
		{"zero values", PageRequest{}, PageRequest{Page: 1, Size: DefaultPageSize}, 0},
		{"negative page", PageRequest{Page: -3, Size: 10}, PageRequest{Page: 1, Size: 10}, 0},
		{"size above max", PageRequest{Page: 2, Size: 1000}, PageRequest{Page: 2, Size: MaxPageSize}, MaxPageSize},
		{"third page", PageRequest{Page: 3, Size: 10}, PageRequest{Page: 3, Size: 10}, 20},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.in.Normalize())
			assert.Equal(t, tc.offset, tc.in.Offset())
		})
	}
}

func TestNewPage(t *testing.T) {
	p := NewPage[int](nil, PageRequest{Page: 1, Size: 10}, 21)
	assert.NotNil(t, p.Items)
	assert.Equal(t, 3, p.TotalPages)

	p = NewPage([]int{}, PageRequest{}, 0)
	assert.Equal(t, 0, p.TotalPages)

	m := MapPage(NewPage([]int{1, 2}, PageRequest{Size: 2}, 4), func(in []int) []string {
		out := make([]string, len(in))
		for i, v := range in {
			out[i] = fmt.Sprint(v)
		}

		return out
	})
	assert.Equal(t, []string{"1", "2"}, m.Items)
	assert.Equal(t, 2, m.TotalPages)
}

func TestRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	roles := NewRoles(dbtest.Open(t))

	role := &models.Role{Name: "admin", Description: "administrators"}
	require.NoError(t, roles.Create(ctx, role))
	require.NotZero(t, role.ID)

	found, err := roles.FindByID(ctx, role.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin", found.Name)

	found.Description = "changed"
	require.NoError(t, roles.Save(ctx, found))

	found, err = roles.FindByName(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "changed", found.Description)

	exists, err := roles.ExistsByName(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = roles.ExistsByName(ctx, "ADMIN")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, roles.Delete(ctx, role.ID))

	_, err = roles.FindByID(ctx, role.ID)
	require.ErrorIs(t, err, apperror.ErrNotFound)

	err = roles.Delete(ctx, role.ID)
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestRepositoryDuplicateIsConflict(t *testing.T) {
	ctx := context.Background()
	roles := NewRoles(dbtest.Open(t))

	require.NoError(t, roles.Create(ctx, &models.Role{Name: "admin"}))

	err := roles.Create(ctx, &models.Role{Name: "admin"})
	require.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestRepositoryNilDB(t *testing.T) {
	var r *Repository[models.Role]

	_, err := r.FindByID(context.Background(), 1)
	require.ErrorIs(t, err, ErrDBNil)

	_, err = New[models.Role](nil, "role").FindAll(context.Background(), PageRequest{})
	require.ErrorIs(t, err, ErrDBNil)
}

func TestRepositoryPaging(t *testing.T) {
	ctx := context.Background()
	categories := NewCategories(dbtest.Open(t))

	for i := 1; i <= 7; i++ {
		require.NoError(t, categories.Create(ctx, &models.Category{
			Name:        fmt.Sprintf("Category %d", i),
			Description: "desc",
			IsActive:    true,
		}))
	}

	page, err := categories.FindAll(ctx, PageRequest{Page: 2, Size: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(7), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "Category 4", page.Items[0].Name)

	page, err = categories.FindAll(ctx, PageRequest{Page: 3, Size: 3})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	page, err = categories.FindAll(ctx, PageRequest{Page: 9, Size: 3})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
}

func TestFindByContaining(t *testing.T) {
	ctx := context.Background()
	gdb := dbtest.Open(t)
	categories := NewCategories(gdb)

	for _, c := range []models.Category{
		{Name: "Beverages", Description: "Hot and cold drinks"},
		{Name: "Desserts", Description: "Sweet 100% homemade"},
		{Name: "Hot Dishes", Description: "Kitchen"},
	} {
		require.NoError(t, categories.Create(ctx, &c))
	}

	testCases := []struct {
		name     string
		search   func(string) (Page[models.Category], error)
		term     string
		expected []string
	}{
		{"name ignores case", byName(ctx, categories), "BEV", []string{"Beverages"}},
		{"name matches inside", byName(ctx, categories), "ss", []string{"Desserts"}},
		{"name empty matches all", byName(ctx, categories), "", []string{"Beverages", "Desserts", "Hot Dishes"}},
		{"description", byDescription(ctx, categories), "hot", []string{"Beverages"}},
		{"percent is literal", byDescription(ctx, categories), "100%", []string{"Desserts"}},
		{"underscore is literal", byName(ctx, categories), "_", []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			page, err := tc.search(tc.term)
			require.NoError(t, err)

			names := []string{}
			for _, c := range page.Items {
				names = append(names, c.Name)
			}

			assert.Equal(t, tc.expected, names)
		})
	}
}

func byName(ctx context.Context, r *Categories) func(string) (Page[models.Category], error) {
	return func(s string) (Page[models.Category], error) {
		return r.FindByNameContaining(ctx, s, PageRequest{})
	}
}

func byDescription(ctx context.Context, r *Categories) func(string) (Page[models.Category], error) {
	return func(s string) (Page[models.Category], error) {
		return r.FindByDescriptionContaining(ctx, s, PageRequest{})
	}
}

func seedUser(t *testing.T, users *Users, username string) *models.User {
	t.Helper()

	u := &models.User{
		EmployeeID: "EMP-" + username,
		Username:   username,
		Password:   "digest",
		FirstName:  "First " + username,
		LastName:   "Last",
		IsActive:   true,
		Enabled:    true,
	}
	require.NoError(t, users.Create(context.Background(), u))

	return u
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	set := NewSet(dbtest.Open(t))

	alice := seedUser(t, set.Users, "alice")
	seedUser(t, set.Users, "bob")

	exists, err := set.Users.ExistsByEmployeeID(ctx, "EMP-alice")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = set.Users.ExistsByUsername(ctx, "carol")
	require.NoError(t, err)
	assert.False(t, exists)

	page, err := set.Users.FindByNameContaining(ctx, "ALI", PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, alice.ID, page.Items[0].ID)

	page, err = set.Users.FindByNameContaining(ctx, "last", PageRequest{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	tok := "ABCDE12345"
	alice.RecuperationToken = &tok
	require.NoError(t, set.Users.Save(ctx, alice))

	found, err := set.Users.FindByRecuperationToken(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Username)

	_, err = set.Users.FindByUsername(ctx, "carol")
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestJoinTable(t *testing.T) {
	ctx := context.Background()
	set := NewSet(dbtest.Open(t))

	alice := seedUser(t, set.Users, "alice")

	admin := &models.Role{Name: "ADMIN"}
	waiter := &models.Role{Name: "WAITER"}
	require.NoError(t, set.Roles.Create(ctx, admin))
	require.NoError(t, set.Roles.Create(ctx, waiter))

	join := set.Users.Roles()

	row, err := join.Assign(ctx, models.UserRoleKey{UserID: alice.ID, RoleID: waiter.ID})
	require.NoError(t, err)
	assert.False(t, row.AssignedAt.IsZero())

	_, err = join.Assign(ctx, models.UserRoleKey{UserID: alice.ID, RoleID: admin.ID})
	require.NoError(t, err)

	_, err = join.Assign(ctx, models.UserRoleKey{UserID: alice.ID, RoleID: admin.ID})
	require.ErrorIs(t, err, apperror.ErrConflict)

	ok, err := join.Exists(ctx, models.UserRoleKey{UserID: alice.ID, RoleID: admin.ID})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = join.Exists(ctx, models.UserRoleKey{UserID: admin.ID, RoleID: alice.ID + 100})
	require.NoError(t, err)
	assert.False(t, ok)

	ids, err := join.RightsOf(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{admin.ID, waiter.ID}, ids)

	ids, err = join.LeftsOf(ctx, waiter.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{alice.ID}, ids)

	keys, err := join.Keys(ctx, alice.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.UserRoleKey{
		{UserID: alice.ID, RoleID: admin.ID},
		{UserID: alice.ID, RoleID: waiter.ID},
	}, keys)

	require.NoError(t, set.Users.LoadRoles(ctx, alice))
	require.Len(t, alice.Roles, 2)
	assert.Equal(t, "ADMIN", alice.Roles[0].Name)

	require.NoError(t, join.Revoke(ctx, models.UserRoleKey{UserID: alice.ID, RoleID: admin.ID}))

	err = join.Revoke(ctx, models.UserRoleKey{UserID: alice.ID, RoleID: admin.ID})
	require.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = join.Assign(ctx, models.UserRoleKey{UserID: alice.ID, RoleID: 999})
	require.Error(t, err, "foreign keys are enforced")
}

func TestJoinRowsCascade(t *testing.T) {
	ctx := context.Background()
	set := NewSet(dbtest.Open(t))

	role := &models.Role{Name: "CASHIER"}
	require.NoError(t, set.Roles.Create(ctx, role))

	perm := &models.Permission{Name: "orders.read", Resource: "orders", Action: "read"}
	require.NoError(t, set.Permissions.Create(ctx, perm))

	_, err := set.Roles.Permissions().Assign(ctx, models.RolePermissionKey{RoleID: role.ID, PermissionID: perm.ID})
	require.NoError(t, err)

	require.NoError(t, set.Roles.LoadPermissions(ctx, role))
	require.Len(t, role.Permissions, 1)

	require.NoError(t, set.Permissions.Delete(ctx, perm.ID))

	ids, err := set.Roles.Permissions().RightsOf(ctx, role.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestPermissionsFindByNames(t *testing.T) {
	ctx := context.Background()
	perms := NewPermissions(dbtest.Open(t))

	for _, n := range []string{"orders.read", "orders.create", "catalog.read"} {
		p := models.Permission{Name: n}
		p.SplitName()
		require.NoError(t, perms.Create(ctx, &p))
	}

	found, err := perms.FindByNames(ctx, []string{"catalog.read", "orders.read", "unknown"})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "orders.read", found[0].Name)

	page, err := perms.FindByNameContaining(ctx, "ORDERS", PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	set := NewSet(dbtest.Open(t))
	now := time.Now().UTC()

	alice := seedUser(t, set.Users, "alice")

	newSession := func(id string, active bool, refresh time.Time) {
		require.NoError(t, set.Sessions.Create(ctx, &models.Session{
			ID:                    id,
			UserID:                alice.ID,
			AccessTokenHash:       "a",
			RefreshTokenHash:      "r",
			AccessTokenExpiresAt:  now,
			RefreshTokenExpiresAt: refresh,
			IsActive:              active,
			LastActivityAt:        now,
		}))
	}

	newSession("s-active", true, now.Add(time.Hour))
	newSession("s-stale", true, now.Add(-time.Hour))
	newSession("s-pending", false, now.Add(time.Hour))

	active, err := set.Sessions.FindActiveByUser(ctx, alice.ID, now)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "s-active", active[0].ID)

	later := now.Add(time.Minute)
	require.NoError(t, set.Sessions.Touch(ctx, "s-active", later))

	s, err := set.Sessions.FindByID(ctx, "s-active", "User")
	require.NoError(t, err)
	assert.WithinDuration(t, later, s.LastActivityAt, time.Second)
	require.NotNil(t, s.User)
	assert.Equal(t, "alice", s.User.Username)

	n, err := set.Sessions.RevokeAllForUser(ctx, alice.ID, later)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = set.Sessions.RevokeAllForUser(ctx, alice.ID, later)
	require.NoError(t, err)
	assert.Zero(t, n)

	page, err := set.Sessions.FindByUser(ctx, alice.ID, PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)

	for _, s := range page.Items {
		assert.Equal(t, models.SessionRevoked, s.State(now))
	}
}

func TestProductsLoadCategory(t *testing.T) {
	ctx := context.Background()
	set := NewSet(dbtest.Open(t))

	bev := &models.Category{Name: "Beverages", Description: "drinks", IsActive: true}
	require.NoError(t, set.Categories.Create(ctx, bev))

	require.NoError(t, set.Products.Create(ctx, &models.Product{
		CategoryID: &bev.ID, Name: "Latte", Price: 4.5, IsActive: true,
	}))
	require.NoError(t, set.Products.Create(ctx, &models.Product{Name: "Water", Price: 1, IsActive: true}))

	latte, err := set.Products.FindByName(ctx, "Latte")
	require.NoError(t, err)
	require.NotNil(t, latte.Category)
	assert.Equal(t, "Beverages", latte.Category.Name)

	water, err := set.Products.FindByName(ctx, "Water")
	require.NoError(t, err)
	assert.Nil(t, water.Category)

	page, err := set.Products.FindByCategory(ctx, bev.ID, PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Latte", page.Items[0].Name)

	// deleting the category keeps the product uncategorized
	require.NoError(t, set.Categories.Delete(ctx, bev.ID))

	latte, err = set.Products.FindByName(ctx, "Latte")
	require.NoError(t, err)
	assert.Nil(t, latte.CategoryID)
	assert.Nil(t, latte.Category)
}

func TestTables(t *testing.T) {
	ctx := context.Background()
	tables := NewTables(dbtest.Open(t))

	for i, st := range []models.TableStatus{models.TableAvailable, models.TableOccupied, models.TableAvailable} {
		require.NoError(t, tables.Create(ctx, &models.Table{
			TableNumber: i + 1, Capacity: 4, IsActive: true, Status: st,
		}))
	}

	exists, err := tables.ExistsByTableNumber(ctx, 2)
	require.NoError(t, err)
	assert.True(t, exists)

	tbl, err := tables.FindByTableNumber(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, models.TableAvailable, tbl.Status)

	page, err := tables.FindByStatus(ctx, models.TableAvailable, PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
}

func TestOrderGraph(t *testing.T) {
	ctx := context.Background()
	set := NewSet(dbtest.Open(t))

	alice := seedUser(t, set.Users, "alice")
	status := &models.Status{Name: models.StatusPending, Description: "new"}
	require.NoError(t, set.Statuses.Create(ctx, status))

	product := &models.Product{Name: "Latte", Price: 4.5, IsActive: true}
	require.NoError(t, set.Products.Create(ctx, product))

	order := &models.Order{UserID: alice.ID, StatusID: status.ID, IsTakeaway: true, Notes: "No SUGAR please"}
	require.NoError(t, set.Orders.Create(ctx, order))

	for _, qty := range []int{1, 2} {
		require.NoError(t, set.Orders.Items().Create(ctx, &models.OrderItem{
			OrderID: order.ID, ProductID: product.ID, Quantity: qty, UnitPrice: 4.5, Subtotal: 4.5 * float64(qty),
		}))
	}

	graph, err := set.Orders.FindGraph(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, graph.User)
	require.NotNil(t, graph.Status)
	assert.Nil(t, graph.Table)
	require.Len(t, graph.Items, 2)
	require.NotNil(t, graph.Items[0].Product)
	assert.Equal(t, "Latte", graph.Items[0].Product.Name)

	total, err := set.Orders.SumItems(ctx, order.ID)
	require.NoError(t, err)
	assert.InDelta(t, 13.5, total, 0.001)

	item, err := set.Orders.FindItem(ctx, order.ID, graph.Items[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)

	_, err = set.Orders.FindItem(ctx, order.ID+1, graph.Items[1].ID)
	require.ErrorIs(t, err, apperror.ErrNotFound)

	page, err := set.Orders.FindByNotesContaining(ctx, "sugar", PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	page, err = set.Orders.FindByStatus(ctx, status.ID, PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.NotNil(t, page.Items[0].Status)

	page, err = set.Orders.FindByUser(ctx, alice.ID+1, PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	page, err = set.Orders.FindFiltered(ctx, OrderFilter{UserID: alice.ID, StatusID: status.ID, Notes: "sugar"}, PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.NotNil(t, page.Items[0].User)

	page, err = set.Orders.FindFiltered(ctx, OrderFilter{UserID: alice.ID, Notes: "salt"}, PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	used, err := set.Orders.ExistsByStatus(ctx, status.ID)
	require.NoError(t, err)
	assert.True(t, used)
}

func TestSetTransaction(t *testing.T) {
	ctx := context.Background()
	set := NewSet(dbtest.Open(t))
	errRollback := errors.New("rollback")

	err := set.Transaction(ctx, func(tx *Set) error {
		require.NoError(t, tx.Statuses.Create(ctx, &models.Status{Name: "PENDING", Description: "new"}))
		return errRollback
	})
	require.ErrorIs(t, err, errRollback)

	exists, err := set.Statuses.ExistsByName(ctx, "PENDING")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, set.Transaction(ctx, func(tx *Set) error {
		return tx.Statuses.Create(ctx, &models.Status{Name: "PENDING", Description: "new"})
	}))

	st, err := set.Statuses.FindByName(ctx, "PENDING")
	require.NoError(t, err)
	assert.Equal(t, "new", st.Description)
}
