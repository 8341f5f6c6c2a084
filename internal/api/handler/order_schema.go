package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type orderItemRequest struct {
	ProductName    string   `json:"product_name"    validate:"required"`
	ProsthesisType string   `json:"prosthesis_type" validate:"required"`
	Material       string   `json:"material"        validate:"required"`
	Color          string   `json:"color"           validate:"required"`
	SelectedTeeth  []string `json:"selected_teeth"  validate:"required,min=1"`
	Quantity       int      `json:"quantity"        validate:"required,min=1"`
	Observations   string   `json:"observations"`
}

type createOrderRequest struct {
	PatientID       string             `json:"patient_id" validate:"required"`
	Items           []orderItemRequest `json:"items"      validate:"required,min=1,dive"`
	Priority        string             `json:"priority"   validate:"required,oneof=normal urgente"`
	Deadline        time.Time          `json:"deadline"`
	DeliveryAddress string             `json:"delivery_address"`
	Observations    string             `json:"observations"`
}

type orderLinks struct {
	Self     string `json:"self"`
	Timeline string `json:"timeline"`
}

type createOrderResponse struct {
	OrderID   string     `json:"order_id"`
	Status    string     `json:"status"`
	CreatedAt string     `json:"created_at"`
	Links     orderLinks `json:"_links"`
}

type orderItemResponse struct {
	ProductName    string   `json:"product_name"`
	ProsthesisType string   `json:"prosthesis_type"`
	Material       string   `json:"material"`
	Color          string   `json:"color"`
	SelectedTeeth  []string `json:"selected_teeth"`
	Quantity       int      `json:"quantity"`
	Observations   string   `json:"observations,omitempty"`
}

type attachmentResponse struct {
	FileName   string    `json:"file_name"`
	StorageKey string    `json:"storage_key"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type orderResponse struct {
	OrderID         string               `json:"order_id"`
	DentistID       string               `json:"dentist_id"`
	PatientID       string               `json:"patient_id"`
	Items           []orderItemResponse  `json:"items"`
	Priority        string               `json:"priority"`
	Deadline        *time.Time           `json:"deadline,omitempty"`
	DeliveryAddress string               `json:"delivery_address,omitempty"`
	Observations    string               `json:"observations,omitempty"`
	Attachments     []attachmentResponse `json:"attachments,omitempty"`
	Status          string               `json:"status"`
	StatusLabel     string               `json:"status_label"`
	StatusColor     string               `json:"status_color"`
	Stage           string               `json:"stage"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
	Links           orderLinks           `json:"_links"`
}

type listOrdersResponse struct {
	Items      []orderResponse `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

type advanceOrderRequest struct {
	// ExpectedStatus is the status the caller last observed. Optional, but
	// recommended: it turns stale retries into 409s instead of silent
	// double advances.
	ExpectedStatus string `json:"expected_status"`
}

type transitionResponse struct {
	OrderID string `json:"order_id"`
	From    string `json:"from"`
	To      string `json:"to"`
}

type addAttachmentRequest struct {
	FileName   string `json:"file_name"   validate:"required"`
	StorageKey string `json:"storage_key" validate:"required"`
}

type dashboardResponse struct {
	Total     int64            `json:"total"`
	Delivered int64            `json:"delivered"`
	Cancelled int64            `json:"cancelled"`
	ByStatus  map[string]int64 `json:"by_status,omitempty"`
}

type timelineEventResponse struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Status    string    `json:"status"`
	Label     string    `json:"label"`
	Color     string    `json:"color"`
	ActorName string    `json:"actor_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
