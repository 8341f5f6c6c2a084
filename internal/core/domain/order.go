package domain

import (
	"errors"
	"time"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrTerminalStatus    = errors.New("order status is terminal")
	ErrUnknownStatus     = errors.New("unknown order status")
	ErrStatusConflict    = errors.New("order status changed concurrently")
	ErrForbidden         = errors.New("access forbidden")
	ErrValidation        = errors.New("validation failed")
)

// OrderItem is one line item of an order. Items are owned exclusively by
// their order: the whole set is replaced on re-submission.
type OrderItem struct {
	ProductName    string   `json:"product_name" bson:"product_name"`
	ProsthesisType string   `json:"prosthesis_type" bson:"prosthesis_type"`
	Material       string   `json:"material" bson:"material"`
	Color          string   `json:"color" bson:"color"`
	SelectedTeeth  []string `json:"selected_teeth" bson:"selected_teeth"`
	Quantity       int      `json:"quantity" bson:"quantity"`
	Observations   string   `json:"observations,omitempty" bson:"observations,omitempty"`
}

// Attachment records a reference into external object storage, keyed under
// the order's id. The bytes themselves never pass through this service.
type Attachment struct {
	FileName   string    `json:"file_name" bson:"file_name"`
	StorageKey string    `json:"storage_key" bson:"storage_key"`
	UploadedBy string    `json:"uploaded_by" bson:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at" bson:"uploaded_at"`
}

// Order is the core aggregate: one prosthesis work request from a dentist
// for a patient, tracked through the production pipeline.
//
// The stored Status is a cache of the last status-changing audit entry; the
// audit log is the authoritative history. Both are written in the same
// transaction.
type Order struct {
	ID        string `json:"id" bson:"_id,omitempty"`
	DentistID string `json:"dentist_id" bson:"dentist_id"`
	PatientID string `json:"patient_id" bson:"patient_id"`
	// BranchID and ClinicID are denormalised from the requesting dentist's
	// membership at creation time so scoped list queries stay single-hop.
	BranchID string `json:"branch_id,omitempty" bson:"branch_id,omitempty"`
	ClinicID string `json:"clinic_id,omitempty" bson:"clinic_id,omitempty"`

	Items []OrderItem `json:"items" bson:"items"`
	// Legacy records created before order items carried a single inline
	// prosthesis description.
	ProsthesisType string `json:"prosthesis_type,omitempty" bson:"prosthesis_type,omitempty"`
	Material       string `json:"material,omitempty" bson:"material,omitempty"`
	Color          string `json:"color,omitempty" bson:"color,omitempty"`

	Priority        string       `json:"priority" bson:"priority"`
	Deadline        time.Time    `json:"deadline,omitempty" bson:"deadline,omitempty"`
	DeliveryAddress string       `json:"delivery_address,omitempty" bson:"delivery_address,omitempty"`
	Observations    string       `json:"observations,omitempty" bson:"observations,omitempty"`
	Attachments     []Attachment `json:"attachments,omitempty" bson:"attachments,omitempty"`

	Status         OrderStatus `json:"status" bson:"status"`
	IdempotencyKey string      `json:"idempotency_key,omitempty" bson:"idempotency_key,omitempty"`
	CreatedAt      time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" bson:"updated_at"`
}
