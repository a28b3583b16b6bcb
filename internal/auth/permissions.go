package auth

// Permission constants define the available permissions in the system.
// Names follow resource.action; the part before the last dot is the resource.
const (
	// PermUsersManage allows managing user accounts, their roles and sessions.
	PermUsersManage = "users.manage"
	// PermRolesManage allows managing roles and permissions.
	PermRolesManage = "roles.manage"
	// PermSessionsManage allows listing and revoking sessions of other users.
	PermSessionsManage = "sessions.manage"

	// PermCatalogRead allows viewing categories and products.
	PermCatalogRead = "catalog.read"
	// PermCatalogManage allows editing categories and products.
	PermCatalogManage = "catalog.manage"

	// PermOrdersCreate allows opening orders and adding items.
	PermOrdersCreate = "orders.create"
	// PermOrdersRead allows viewing orders.
	PermOrdersRead = "orders.read"
	// PermOrdersUpdate allows advancing orders and editing their items.
	PermOrdersUpdate = "orders.update"
	// PermOrdersCancel allows canceling orders.
	PermOrdersCancel = "orders.cancel"
	// PermStatusesManage allows editing order statuses.
	PermStatusesManage = "statuses.manage"

	// PermTablesRead allows viewing tables.
	PermTablesRead = "tables.read"
	// PermTablesManage allows editing tables.
	PermTablesManage = "tables.manage"
)

// Built-in role names.
const (
	RoleAdmin   = "ADMIN"
	RoleWaiter  = "WAITER"
	RoleCashier = "CASHIER"
)

// AllPermissions lists every permission with its description.
func AllPermissions() map[string]string {
	return map[string]string{
		PermUsersManage:    "Manage user accounts",
		PermRolesManage:    "Manage roles and permissions",
		PermSessionsManage: "Manage login sessions",
		PermCatalogRead:    "View the product catalog",
		PermCatalogManage:  "Edit the product catalog",
		PermOrdersCreate:   "Open orders",
		PermOrdersRead:     "View orders",
		PermOrdersUpdate:   "Advance orders and edit items",
		PermOrdersCancel:   "Cancel orders",
		PermStatusesManage: "Edit order statuses",
		PermTablesRead:     "View tables",
		PermTablesManage:   "Edit tables",
	}
}

// DefaultRole is a built-in role and the permissions it is seeded with.
type DefaultRole struct {
	Name        string
	Description string
	Permissions []string
}

// DefaultRoles are created by the seed. ADMIN gets every permission.
func DefaultRoles() []DefaultRole {
	admin := make([]string, 0, len(AllPermissions()))
	for name := range AllPermissions() {
		admin = append(admin, name)
	}

	return []DefaultRole{
		{Name: RoleAdmin, Description: "Full access", Permissions: admin},
		{
			Name:        RoleWaiter,
			Description: "Takes orders at the tables",
			Permissions: []string{
				PermCatalogRead, PermTablesRead,
				PermOrdersCreate, PermOrdersRead, PermOrdersUpdate,
			},
		},
		{
			Name:        RoleCashier,
			Description: "Settles and cancels orders",
			Permissions: []string{
				PermCatalogRead, PermTablesRead,
				PermOrdersRead, PermOrdersUpdate, PermOrdersCancel,
			},
		},
	}
}
