package billing

/* ---------- PLAN ---------- */

type PlanResponse struct {
	Plan             *PlanDTO          `json:"plan"`
	Degraded         bool              `json:"degraded"`
	FetchedAt        *string           `json:"fetched_at"`
	IsActive         bool              `json:"is_active"`
	IsCancelled      bool              `json:"is_cancelled"`
	HasPendingChange bool              `json:"has_pending_change"`
	PendingChange    *PendingChangeDTO `json:"pending_change"`
	Error            *ErrorDTO         `json:"error,omitempty"`
}

type PlanDTO struct {
	Tier                      string   `json:"tier"`
	Status                    string   `json:"status"`
	Price                     float64  `json:"price"`
	Currency                  string   `json:"currency"`
	BillingCycle              string   `json:"billing_cycle"`
	RenewalDate               *string  `json:"renewal_date"`
	CancellationDate          *string  `json:"cancellation_date"`
	CancellationEffectiveDate *string  `json:"cancellation_effective_date"`
	PaymentMethodMask         string   `json:"payment_method_mask"`
	Features                  []string `json:"features"`
}

type PendingChangeDTO struct {
	Kind        string  `json:"kind"` // cancellation | tier_change
	Tier        *string `json:"tier,omitempty"`
	EffectiveAt *string `json:"effective_at"`
	Description string  `json:"description"`
}

type ErrorDTO struct {
	Code    string `json:"code"`
	Title   string `json:"title"`
	Details string `json:"details"`
}

/* ---------- MUTATIONS ---------- */

type CancelResponse struct {
	EffectiveDate *string      `json:"effective_date"`
	Immediate     bool         `json:"immediate"`
	Plan          PlanResponse `json:"plan"`
}

/* ---------- EVENTS ---------- */

type EventDTO struct {
	ID          string  `json:"id"`
	Operation   string  `json:"operation"`
	Type        string  `json:"type"`
	Kind        *string `json:"kind"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	CreatedAt   string  `json:"created_at"`
}
