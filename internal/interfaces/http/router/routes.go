package router

import (
	"github.com/bewloop/quark-system/internal/domain/identity"
	"github.com/bewloop/quark-system/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the API handlers wired by the server
type Handlers struct {
	Auth     *handler.AuthHandler
	Orders   *handler.OrderHandler
	Payroll  *handler.PayrollHandler
	Stock    *handler.StockHandler
	Customer *handler.CustomerHandler
	Invoices *handler.InvoiceHandler
	Users    *handler.UserHandler
	System   *handler.SystemHandler
}

// PublicRoutes are reachable without a token
func PublicRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("public", "")
	g.POST("/auth/login", h.Auth.Login)
	g.GET("/system/info", h.System.GetSystemInfo)
	return g
}

// DomainRoutes returns the protected route groups with their capabilities.
// idempotent wraps create endpoints that allocate document numbers.
func DomainRoutes(h Handlers, idempotent gin.HandlerFunc) []*DomainGroup {
	auth := NewDomainGroup("auth", "/auth")
	auth.POST("/logout", h.Auth.Logout).Authorize()

	orders := NewDomainGroup("orders", "/orders")
	orders.POST("", idempotent, h.Orders.Create).Authorize(identity.CapOrderCreate)
	orders.GET("", h.Orders.List).Authorize(identity.CapOrderList)
	orders.GET("/:id", h.Orders.Get).Authorize(identity.CapOrderRead)
	orders.PUT("/:id/production-status", h.Orders.ChangeStatus).Authorize(identity.CapOrderTransition)

	payroll := NewDomainGroup("payroll", "/payroll")
	payroll.POST("/period", h.Payroll.CreatePeriod).Authorize(identity.CapPeriodCreate)
	payroll.PUT("/lock/:id", h.Payroll.Lock).Authorize(identity.CapPeriodLock)
	payroll.PUT("/unlock/:id", h.Payroll.Unlock).Authorize(identity.CapPeriodLock)
	payroll.POST("/save", h.Payroll.Save).Authorize(identity.CapPayrollSave)
	payroll.GET("/periods", h.Payroll.ListPeriods).Authorize(identity.CapPayrollRead)
	payroll.GET("/periods/:id/items", h.Payroll.ListItems).Authorize(identity.CapPayrollRead)
	payroll.GET("/periods/:id/lock-events", h.Payroll.ListLockEvents).Authorize(identity.CapPayrollRead)

	stock := NewDomainGroup("stock", "/stock")
	stock.GET("", h.Stock.List).Authorize(identity.CapStockRead)
	stock.POST("", h.Stock.Intake).Authorize(identity.CapStockWrite)
	stock.GET("/:id", h.Stock.Get).Authorize(identity.CapStockRead)
	stock.PUT("/:id/take-out", h.Stock.TakeOut).Authorize(identity.CapStockWrite)

	customers := NewDomainGroup("customers", "/customers")
	customers.GET("", h.Customer.List).Authorize(identity.CapCustomerRead)
	customers.POST("", h.Customer.Create).Authorize(identity.CapCustomerWrite)
	customers.GET("/:id", h.Customer.Get).Authorize(identity.CapCustomerRead)
	customers.PUT("/:id", h.Customer.Update).Authorize(identity.CapCustomerWrite)
	customers.DELETE("/:id", h.Customer.Delete).Authorize(identity.CapCustomerWrite)

	invoices := NewDomainGroup("invoices", "/invoices")
	invoices.POST("", idempotent, h.Invoices.Create).Authorize(identity.CapInvoiceWrite)
	invoices.GET("", h.Invoices.List).Authorize(identity.CapInvoiceRead)
	invoices.GET("/next-number/:docType", h.Invoices.NextNumber).Authorize(identity.CapInvoiceRead)
	invoices.GET("/:id", h.Invoices.Get).Authorize(identity.CapInvoiceRead)
	invoices.GET("/:id/pdf", h.Invoices.PDF).Authorize(identity.CapInvoiceRead)

	users := NewDomainGroup("users", "/users")
	users.GET("", h.Users.List).Authorize(identity.CapUserManage)
	users.POST("", h.Users.Create).Authorize(identity.CapUserManage)
	users.GET("/:id", h.Users.Get).Authorize(identity.CapUserManage)
	users.PUT("/:id", h.Users.Update).Authorize(identity.CapUserManage)
	users.DELETE("/:id", h.Users.Delete).Authorize(identity.CapUserManage)

	return []*DomainGroup{auth, orders, payroll, stock, customers, invoices, users}
}
