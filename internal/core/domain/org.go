package domain

import (
	"errors"
	"time"
)

var (
	ErrBranchNotFound  = errors.New("branch not found")
	ErrClinicNotFound  = errors.New("clinic not found")
	ErrPatientNotFound = errors.New("patient not found")
)

// Branch (filial/matriz) is the top organizational container.
type Branch struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	City      string    `json:"city,omitempty" bson:"city,omitempty"`
	IsMatriz  bool      `json:"is_matriz" bson:"is_matriz"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Clinic belongs to at most one branch. Branch membership is fixed at
// creation; moving a clinic across branches is not supported.
type Clinic struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	BranchID  string    `json:"branch_id" bson:"branch_id"`
	Name      string    `json:"name" bson:"name"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Address   string    `json:"address,omitempty" bson:"address,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Patient belongs to a clinic and is owned by the dentist who registered it.
type Patient struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	DentistID string    `json:"dentist_id" bson:"dentist_id"`
	ClinicID  string    `json:"clinic_id,omitempty" bson:"clinic_id,omitempty"`
	BranchID  string    `json:"branch_id,omitempty" bson:"branch_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	BirthDate time.Time `json:"birth_date,omitempty" bson:"birth_date,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Product is a catalog entry for a prosthesis product the lab offers.
type Product struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	Category  string    `json:"category,omitempty" bson:"category,omitempty"`
	Materials []string  `json:"materials,omitempty" bson:"materials,omitempty"`
	Active    bool      `json:"active" bson:"active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// ShadeColor is a catalog entry for a tooth shade (e.g. Vita A2).
type ShadeColor struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Code      string    `json:"code" bson:"code"`
	Scale     string    `json:"scale,omitempty" bson:"scale,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
