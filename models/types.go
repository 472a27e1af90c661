// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// AttendingYes is the attend_gala answer counted as attending
const AttendingYes = "Yes"

// DefaultCarNumberPlate is stored when no plate is given
const DefaultCarNumberPlate = "N/A"

// Request types

// RegistrationRequest is the public registration form and the admin edit body
type RegistrationRequest struct {
	FullName       string `json:"full_name"`
	KitNumber      string `json:"kit_number"`
	Email          string `json:"email"`
	WhatsAppNumber string `json:"whatsapp_number"`
	CarNumberPlate string `json:"car_number_plate"`
	House          string `json:"house"`
	Profession     string `json:"profession"`
	PostalAddress  string `json:"postal_address"`
	AttendGala     string `json:"attend_gala"`
	Morale         string `json:"morale"`
	ExcitedForGala string `json:"excited_for_gala"`
	PhotoURL       string `json:"photo_url"`
}

// Clients send the kit number either as a JSON string or a JSON number
type CheckKitRequest struct {
	KitNumber FlexString `json:"kit_number"`
}

type LoginRequest struct {
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// IsOpen is a pointer so a missing field can be told apart from false
type SetRegistrationStatusRequest struct {
	IsOpen *bool `json:"isOpen"`
}

// Response types

type RegisterResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id"`
}

type CheckKitResponse struct {
	Available bool   `json:"available"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

type RegistrationStatusResponse struct {
	IsOpen bool   `json:"isOpen"`
	Error  string `json:"error,omitempty"`
}

type SetRegistrationStatusResponse struct {
	Success bool   `json:"success"`
	IsOpen  bool   `json:"isOpen"`
	Message string `json:"message"`
}

type LoginResponse struct {
	Success   bool      `json:"success"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type RegistrationListResponse struct {
	Data       []RegistrationView `json:"data"`
	Count      int                `json:"count"`
	Total      int                `json:"total"`
	Attending  int                `json:"attending"`
	Page       int                `json:"page"`
	PerPage    int                `json:"per_page"`
	TotalPages int                `json:"total_pages"`
	Timestamp  time.Time          `json:"timestamp"`
}

type DeleteRegistrationResponse struct {
	Success bool         `json:"success"`
	Deleted Registration `json:"deleted"`
}

type PhotoUploadResponse struct {
	PhotoURL string `json:"photo_url"`
	Key      string `json:"key"`
}

// Domain types

type Registration struct {
	ID             string    `json:"id" db:"id"`
	FullName       string    `json:"full_name" db:"full_name"`
	KitNumber      string    `json:"kit_number" db:"kit_number"`
	Email          string    `json:"email" db:"email"`
	WhatsAppNumber string    `json:"whatsapp_number" db:"whatsapp_number"`
	CarNumberPlate string    `json:"car_number_plate" db:"car_number_plate"`
	House          string    `json:"house" db:"house"`
	Profession     string    `json:"profession" db:"profession"`
	PostalAddress  string    `json:"postal_address" db:"postal_address"`
	AttendGala     string    `json:"attend_gala" db:"attend_gala"`
	Morale         string    `json:"morale" db:"morale"`
	ExcitedForGala string    `json:"excited_for_gala" db:"excited_for_gala"`
	PhotoURL       string    `json:"photo_url" db:"photo_url"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// RegistrationView is a registration as shown in the admin list
type RegistrationView struct {
	Registration
	RegisteredAgo string `json:"registered_ago"`
}

// FlexString decodes from a JSON string or number.
// null and absent both decode to "".
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
