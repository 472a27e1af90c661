// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - RegistrationRequest: the registration form (also used for admin edits)
  - CheckKitRequest: kit_number as a string or number
  - LoginRequest: password
  - ChangePasswordRequest: currentPassword, newPassword
  - SetRegistrationStatusRequest: isOpen

# Response Types

  - RegisterResponse: success, message, id
  - CheckKitResponse: available, message
  - RegistrationStatusResponse: isOpen
  - LoginResponse: token, expires_at
  - RegistrationListResponse: one page of registrations plus counts
  - DeleteRegistrationResponse: the deleted row
  - PhotoUploadResponse: photo_url, key
  - ErrorResponse: error, message

# Domain Types

  - Registration: one attendee, keyed by a unique kit number
  - RegistrationView: Registration plus a human-readable age

Field names follow the stored column names so the same struct scans
rows (db tags) and serializes responses (json tags).
*/
package models
