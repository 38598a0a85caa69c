package models

// Agreement is one tenant credential set for the remote accounting API.
//
// AgreementNumber is assigned by the remote system and is authoritative only
// once confirmed by a live /self call; until then it is zero. The stored
// name/number are self-healed on every sync pass when the remote reports
// different values.
type Agreement struct {
	AgreementID     string `db:"agreement_id"` // surrogate UUID
	Name            string `db:"name"`
	AgreementNumber int    `db:"agreement_number"` // 0 until confirmed
	GrantToken      string `db:"grant_token"`
	CompanyName     string `db:"company_name"`
	IsActive        bool   `db:"is_active"`
	AuditFields
}
