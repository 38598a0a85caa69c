package dto

import (
	"time"

	"github.com/soerenkp/ecosync/internal/models"
)

// CreateAgreementRequest defines the data needed to register a new agreement.
// The grant token is validated against the remote API before anything is
// stored. Name is optional; it defaults to the remote company name.
type CreateAgreementRequest struct {
	Name       string `json:"name"`
	GrantToken string `json:"grantToken" binding:"required"`
}

// UpdateAgreementRequest defines the mutable fields of an agreement.
// Pointers distinguish "not provided" from zero values.
type UpdateAgreementRequest struct {
	Name       *string `json:"name"`
	GrantToken *string `json:"grantToken"`
	IsActive   *bool   `json:"isActive"`
}

// AgreementResponse is the public view of an agreement. The grant token is
// never echoed back.
type AgreementResponse struct {
	AgreementID     string    `json:"agreementID"`
	Name            string    `json:"name"`
	AgreementNumber int       `json:"agreementNumber"`
	CompanyName     string    `json:"companyName"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	LastUpdatedAt   time.Time `json:"lastUpdatedAt"`
}

// ToAgreementResponse converts a models.Agreement to its response DTO.
func ToAgreementResponse(a *models.Agreement) AgreementResponse {
	return AgreementResponse{
		AgreementID:     a.AgreementID,
		Name:            a.Name,
		AgreementNumber: a.AgreementNumber,
		CompanyName:     a.CompanyName,
		IsActive:        a.IsActive,
		CreatedAt:       a.CreatedAt,
		LastUpdatedAt:   a.LastUpdatedAt,
	}
}

// ToListAgreementResponse converts a slice of agreements.
func ToListAgreementResponse(agreements []models.Agreement) []AgreementResponse {
	res := make([]AgreementResponse, len(agreements))
	for i := range agreements {
		res[i] = ToAgreementResponse(&agreements[i])
	}
	return res
}
