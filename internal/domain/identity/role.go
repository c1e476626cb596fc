package identity

// Role is the coarse role stored on a user
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleWorker  Role = "worker"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// IsElevated reports whether the role may run workshop operations
func (r Role) IsElevated() bool {
	return r == RoleAdmin || r == RoleManager
}

// Capability names a single permitted operation
type Capability string

const (
	CapOrderCreate     Capability = "order:create"
	CapOrderRead       Capability = "order:read"
	CapOrderList       Capability = "order:list"
	CapOrderTransition Capability = "order:transition"
	CapStockRead       Capability = "stock:read"
	CapStockWrite      Capability = "stock:write"
	CapPeriodCreate    Capability = "payroll:period:create"
	CapPeriodLock      Capability = "payroll:period:lock"
	CapPayrollSave     Capability = "payroll:save"
	CapPayrollRead     Capability = "payroll:read"
	CapInvoiceRead     Capability = "invoice:read"
	CapInvoiceWrite    Capability = "invoice:write"
	CapCustomerRead    Capability = "customer:read"
	CapCustomerWrite   Capability = "customer:write"
	CapUserManage      Capability = "user:manage"
)

var managerCapabilities = []Capability{
	CapOrderCreate, CapOrderRead, CapOrderList, CapOrderTransition,
	CapStockRead, CapStockWrite,
	CapPayrollSave, CapPayrollRead,
	CapInvoiceRead, CapInvoiceWrite,
	CapCustomerRead, CapCustomerWrite,
}

var roleCapabilities = map[Role][]Capability{
	RoleAdmin:   append(append([]Capability{}, managerCapabilities...), CapPeriodCreate, CapPeriodLock, CapUserManage),
	RoleManager: managerCapabilities,
	RoleWorker:  {CapOrderRead},
}

// Capabilities returns the capability names granted to the role
func (r Role) Capabilities() []string {
	caps := roleCapabilities[r]
	out := make([]string, len(caps))
	for i, c := range caps {
		out[i] = string(c)
	}
	return out
}

// Can reports whether the role holds the capability
func (r Role) Can(c Capability) bool {
	for _, have := range roleCapabilities[r] {
		if have == c {
			return true
		}
	}
	return false
}
