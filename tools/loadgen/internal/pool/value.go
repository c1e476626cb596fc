// Package pool keeps identifiers harvested from API responses so later
// requests in a load run can target resources that actually exist.
package pool

import (
	"sync/atomic"
	"time"
)

// SemanticType classifies a pooled value
type SemanticType string

const (
	// SemanticTypeOrderID is an order id together with its known stage
	SemanticTypeOrderID SemanticType = "order.id"
	// SemanticTypePeriodID is an open payroll period id
	SemanticTypePeriodID SemanticType = "payroll.period_id"
	// SemanticTypeWorkerID is a user id that payroll items can be saved for
	SemanticTypeWorkerID SemanticType = "identity.worker_id"
	// SemanticTypeCustomerID is a customer id invoices can be issued to
	SemanticTypeCustomerID SemanticType = "partner.customer_id"
)

// Value is one pooled identifier. Value is treated as immutable.
type Value struct {
	Value        any
	SemanticType SemanticType
	CreatedAt    time.Time
	// ExpiresAt is zero for values that never expire
	ExpiresAt time.Time

	accessCount atomic.Int64
}

// NewValue creates a Value; a zero ttl never expires
func NewValue(value any, semanticType SemanticType, ttl time.Duration) *Value {
	now := time.Now()
	v := &Value{Value: value, SemanticType: semanticType, CreatedAt: now}
	if ttl > 0 {
		v.ExpiresAt = now.Add(ttl)
	}
	return v
}

// IsExpired reports whether the value's ttl has elapsed
func (v *Value) IsExpired() bool {
	return !v.ExpiresAt.IsZero() && time.Now().After(v.ExpiresAt)
}

// Touch records an access
func (v *Value) Touch() {
	v.accessCount.Add(1)
}

// AccessCount returns how often the value was handed out
func (v *Value) AccessCount() int64 {
	return v.accessCount.Load()
}
