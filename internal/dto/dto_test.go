package dto

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restopos/restopos/internal/apperror"
	"github.com/restopos/restopos/internal/db/models"
)

func TestCategoryRoundTrip(t *testing.T) {
	req := CategoryRequest{Name: "Beverages", Description: "Cold and hot drinks", IsActive: true}

	entity := NewCategory.Map(&req)
	assert.Zero(t, entity.ID)
	assert.True(t, entity.CreatedAt.IsZero())

	resp := CategoryToResponse.Map(entity)
	assert.Equal(t, req.Name, resp.Name)
	assert.Equal(t, req.Description, resp.Description)
	assert.Equal(t, req.IsActive, resp.IsActive)
}

func TestRoleRoundTrip(t *testing.T) {
	req := RoleCreateRequest{Name: "WAITER", Description: "serves tables", PermissionIDs: []uint64{1, 2}}

	resp := RoleToResponse.Map(NewRole.Map(&req))
	assert.Equal(t, "WAITER", resp.Name)
	assert.Equal(t, "serves tables", resp.Description)
	assert.Nil(t, resp.Permissions)
}

func TestUserProjectionHidesSecrets(t *testing.T) {
	tok := "ABCDEFGHIJ"
	u := models.User{
		ID:                1,
		Username:          "jdoe",
		Password:          "digest",
		RecuperationToken: &tok,
		Roles:             []models.Role{{ID: 3, Name: "ADMIN"}},
	}

	resp := UserToResponse.Map(&u)
	assert.Equal(t, "jdoe", resp.Username)
	assert.Equal(t, []RoleSummary{{ID: 3, Name: "ADMIN"}}, resp.Roles)

	entity := NewUser.Map(&UserCreateRequest{Username: "jdoe", Password: "plain-text"})
	assert.Empty(t, entity.Password, "password is hashed by the service, never copied")
}

func TestProductWithoutCategory(t *testing.T) {
	p := models.Product{ID: 7, Name: "Water", Price: 1.2}

	resp := ProductToResponse.Map(&p)
	require.NotNil(t, resp)
	assert.Nil(t, resp.Category)
	assert.InDelta(t, 1.2, resp.Price, 0.0001)
}

func TestProductWithCategory(t *testing.T) {
	p := models.Product{
		Name:     "Latte",
		Price:    4.50,
		IsActive: true,
		Category: &models.Category{ID: 2, Name: "Beverages"},
	}

	resp := ProductToResponse.Map(&p)
	require.NotNil(t, resp.Category)
	assert.Equal(t, "Beverages", resp.Category.Name)
	assert.InDelta(t, 4.50, resp.Price, 0.0001)
}

func TestOrderGraph(t *testing.T) {
	tableID := uint64(4)
	o := models.Order{
		ID:      10,
		User:    &models.User{ID: 1, Username: "waiter"},
		TableID: &tableID,
		Table:   &models.Table{ID: 4, TableNumber: 12, Status: models.TableOccupied},
		Status:  &models.Status{ID: 1, Name: models.StatusPending},
		Items: []models.OrderItem{
			{ID: 1, Quantity: 2, UnitPrice: 4.5, Subtotal: 9, Product: &models.Product{ID: 3, Name: "Latte", Price: 4.5}},
			{ID: 2, Quantity: 1, UnitPrice: 3, Subtotal: 3},
		},
		TotalAmount: 12,
	}

	resp := OrderToResponse.Map(&o)
	assert.Equal(t, "waiter", resp.User.Username)
	assert.Equal(t, 12, resp.Table.TableNumber)
	assert.Equal(t, "OCCUPIED", resp.Table.Status)
	assert.Equal(t, models.StatusPending, resp.Status.Name)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Latte", resp.Items[0].Product.Name)
	assert.Nil(t, resp.Items[1].Product)

	assert.Nil(t, OrderToResponse.Map(nil))
}

func TestToSessionResponse(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s := models.Session{
		ID:                    "0b8f",
		UserID:                1,
		AccessTokenHash:       "hash",
		AccessTokenPreview:    "eyJhbGci...",
		RefreshTokenExpiresAt: now.Add(-time.Minute),
		IsActive:              true,
	}

	resp := ToSessionResponse(&s, now)
	assert.True(t, resp.IsActive)
	assert.True(t, resp.IsExpired, "expiry wins over the stored flag")
	assert.Equal(t, string(models.SessionExpired), resp.State)
	assert.Equal(t, "eyJhbGci...", resp.AccessTokenPreview)

	assert.Nil(t, ToSessionResponse(nil, now))

	all := ToSessionResponses([]models.Session{s}, now.Add(-time.Hour))
	require.Len(t, all, 1)
	assert.False(t, all[0].IsExpired)
	assert.Equal(t, string(models.SessionActive), all[0].State)
}

func TestUpdateProjectionKeepsIdentity(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	u := models.User{ID: 5, Username: "jdoe", FirstName: "John", CreatedAt: created, Enabled: true}

	UserUpdate.Into(&UserUpdateRequest{FirstName: "Jane", LastName: "Doe", IsActive: true}, &u)

	assert.Equal(t, uint64(5), u.ID)
	assert.Equal(t, "jdoe", u.Username)
	assert.Equal(t, "Jane", u.FirstName)
	assert.Equal(t, created, u.CreatedAt)
	assert.True(t, u.Enabled)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name       string
		req        any
		wantFields []string
	}{
		{name: "valid role", req: RoleCreateRequest{Name: "ADMIN"}},
		{name: "short role name", req: RoleCreateRequest{Name: "ab"}, wantFields: []string{"name"}},
		{name: "long role name", req: RoleUpdateRequest{Name: string(make([]byte, 51))}, wantFields: []string{"name"}},
		{
			name:       "category missing fields",
			req:        CategoryRequest{},
			wantFields: []string{"name", "description"},
		},
		{name: "negative price", req: ProductRequest{Name: "Latte", Price: -1}, wantFields: []string{"price"}},
		{name: "unknown table status", req: TableRequest{TableNumber: 1, Capacity: 4, Status: "BROKEN"}, wantFields: []string{"status"}},
		{name: "order item quantity", req: OrderCreateRequest{Items: []OrderItemRequest{{ProductID: 1}}}, wantFields: []string{"quantity"}},
		{name: "reset token length", req: ResetPasswordRequest{Token: "ABC", NewPassword: "long-enough"}, wantFields: []string{"token"}},
		{name: "permission name", req: PermissionCreateRequest{Name: "orders"}, wantFields: []string{"name"}},
		{name: "valid user", req: UserCreateRequest{
			EmployeeID: "EMP-1", Username: "jdoe", Password: "password1", FirstName: "John", LastName: "Doe",
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.req)
			if len(tc.wantFields) == 0 {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, apperror.ErrValidation)

			var verr *apperror.ValidationError
			require.True(t, errors.As(err, &verr))

			fields := make([]string, 0, len(verr.Fields))
			for _, f := range verr.Fields {
				fields = append(fields, f.Field)
			}

			assert.ElementsMatch(t, tc.wantFields, fields)
		})
	}
}

func TestValidateHidesPassword(t *testing.T) {
	err := Validate(UserCreateRequest{EmployeeID: "E", Username: "jdoe", Password: "short", FirstName: "J", LastName: "D"})

	var verr *apperror.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "password", verr.Fields[0].Field)
	assert.Nil(t, verr.Fields[0].Value)
}
