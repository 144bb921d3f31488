package models

import "time"

// Vehicle statuses.
const (
	VehicleFree         = "Free"
	VehicleAssigned     = "Assigned"
	VehicleMaintenance  = "Maintenance"
	VehicleOutOfService = "OutOfService"
)

// Driver statuses.
const (
	DriverAvailable = "Available"
	DriverOnMission = "OnMission"
	DriverResting   = "Resting"
	DriverSickLeave = "SickLeave"
)

// Mission lifecycle: Planned -> InProgress -> Completed | Cancelled.
const (
	MissionPlanned    = "Planned"
	MissionInProgress = "InProgress"
	MissionCompleted  = "Completed"
	MissionCancelled  = "Cancelled"
)

// Cash ledger entry directions.
const (
	CashInflow  = "Inflow"
	CashOutflow = "Outflow"
)

// Cash ledger source types. SourceID is a weak reference to the row that
// produced the entry; Manual entries carry no source id.
const (
	SourceMission = "Mission"
	SourcePayment = "Payment"
	SourceExpense = "Expense"
	SourceManual  = "Manual"
)

// Refund lifecycle: Pending -> UnderReview -> Approved | Rejected,
// Approved -> Refunded.
const (
	RefundPending     = "Pending"
	RefundUnderReview = "UnderReview"
	RefundApproved    = "Approved"
	RefundRejected    = "Rejected"
	RefundRefunded    = "Refunded"
)

// Payment methods.
const (
	MethodCash        = "cash"
	MethodBank        = "bank"
	MethodMobileMoney = "mobile_money"
)

type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Vehicle struct {
	ID               string     `db:"id" json:"id"`
	Plate            string     `db:"plate" json:"plate"`
	Brand            string     `db:"brand" json:"brand"`
	Model            string     `db:"model" json:"model"`
	Category         string     `db:"category" json:"category"`
	Mileage          int64      `db:"mileage" json:"mileage"`
	Status           string     `db:"status" json:"status"`
	NextRevisionDate *time.Time `db:"next_revision_date" json:"next_revision_date,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

type Driver struct {
	ID            string    `db:"id" json:"id"`
	FirstName     string    `db:"first_name" json:"first_name"`
	LastName      string    `db:"last_name" json:"last_name"`
	Phone         string    `db:"phone" json:"phone"`
	Email         string    `db:"email" json:"email"`
	ContractType  string    `db:"contract_type" json:"contract_type"`
	LicenseExpiry time.Time `db:"license_expiry" json:"license_expiry"`
	Status        string    `db:"status" json:"status"`
	HiredAt       time.Time `db:"hired_at" json:"hired_at"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Mission is the central transactional entity. PaidAmount and BalanceDue are
// cached projections of the payment rows; they are re-derived from payments
// inside the same transaction on every mutation, never incremented in place.
type Mission struct {
	ID             string     `db:"id" json:"id"`
	VehicleID      string     `db:"vehicle_id" json:"vehicle_id"`
	DriverID       string     `db:"driver_id" json:"driver_id"`
	ClientName     string     `db:"client_name" json:"client_name"`
	Origin         string     `db:"origin" json:"origin"`
	Destination    string     `db:"destination" json:"destination"`
	ScheduledStart time.Time  `db:"scheduled_start" json:"scheduled_start"`
	ScheduledEnd   time.Time  `db:"scheduled_end" json:"scheduled_end"`
	ActualStart    *time.Time `db:"actual_start" json:"actual_start,omitempty"`
	ActualEnd      *time.Time `db:"actual_end" json:"actual_end,omitempty"`
	Status         string     `db:"status" json:"status"`
	ServiceType    string     `db:"service_type" json:"service_type"`
	Currency       string     `db:"currency" json:"currency"`
	TotalAmount    int64      `db:"total_amount" json:"total_amount"`
	PaidAmount     int64      `db:"paid_amount" json:"paid_amount"`
	BalanceDue     int64      `db:"balance_due" json:"balance_due"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// Payment rows are append-only. Every payment has exactly one matching
// Inflow cash entry, written in the same transaction.
type Payment struct {
	ID        string    `db:"id" json:"id"`
	MissionID string    `db:"mission_id" json:"mission_id"`
	Amount    int64     `db:"amount" json:"amount"`
	Currency  string    `db:"currency" json:"currency"`
	Method    string    `db:"method" json:"method"`
	PaidAt    time.Time `db:"paid_at" json:"paid_at"`
	Notes     string    `db:"notes" json:"notes"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Expense struct {
	ID            string    `db:"id" json:"id"`
	VehicleID     *string   `db:"vehicle_id" json:"vehicle_id,omitempty"`
	DriverID      *string   `db:"driver_id" json:"driver_id,omitempty"`
	MaintenanceID *string   `db:"maintenance_id" json:"maintenance_id,omitempty"`
	Category      string    `db:"category" json:"category"`
	Amount        int64     `db:"amount" json:"amount"`
	Currency      string    `db:"currency" json:"currency"`
	Description   string    `db:"description" json:"description"`
	SpentAt       time.Time `db:"spent_at" json:"spent_at"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// CashEntry is append-only and immutable once created. Cash on hand per
// currency is always the signed sum of these rows, never a stored counter.
type CashEntry struct {
	ID          string    `db:"id" json:"id"`
	Direction   string    `db:"direction" json:"direction"`
	Amount      int64     `db:"amount" json:"amount"`
	Currency    string    `db:"currency" json:"currency"`
	SourceType  string    `db:"source_type" json:"source_type"`
	SourceID    *string   `db:"source_id" json:"source_id,omitempty"`
	Description string    `db:"description" json:"description"`
	EntryAt     time.Time `db:"entry_at" json:"entry_at"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Refund status transitions never touch the cash ledger; payouts are
// reconciled manually as a Manual cash entry if and when they happen.
type Refund struct {
	ID          string     `db:"id" json:"id"`
	MissionID   *string    `db:"mission_id" json:"mission_id,omitempty"`
	ClientName  string     `db:"client_name" json:"client_name"`
	Amount      int64      `db:"amount" json:"amount"`
	Currency    string     `db:"currency" json:"currency"`
	Reason      string     `db:"reason" json:"reason"`
	Status      string     `db:"status" json:"status"`
	RequestedAt time.Time  `db:"requested_at" json:"requested_at"`
	ProcessedAt *time.Time `db:"processed_at" json:"processed_at,omitempty"`
	Notes       string     `db:"notes" json:"notes"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

type Tariff struct {
	ID              string    `db:"id" json:"id"`
	VehicleCategory string    `db:"vehicle_category" json:"vehicle_category"`
	ServiceType     string    `db:"service_type" json:"service_type"`
	BasePrice       int64     `db:"base_price" json:"base_price"`
	Currency        string    `db:"currency" json:"currency"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

type AuditLog struct {
	ID          string    `db:"id" json:"id"`
	ActorUserID *string   `db:"actor_user_id" json:"actor_user_id,omitempty"`
	Action      string    `db:"action" json:"action"`
	EntityType  string    `db:"entity_type" json:"entity_type"`
	EntityID    string    `db:"entity_id" json:"entity_id"`
	Data        string    `db:"data" json:"data"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type Document struct {
	ID         string     `db:"id" json:"id"`
	Name       string     `db:"name" json:"name"`
	DocType    string     `db:"doc_type" json:"doc_type"`
	FileURL    string     `db:"file_url" json:"file_url"`
	EntityType string     `db:"entity_type" json:"entity_type"`
	EntityID   string     `db:"entity_id" json:"entity_id"`
	ExpiresAt  *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	Notes      string     `db:"notes" json:"notes"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}
