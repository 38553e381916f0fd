package panel

import "errors"

// Sentinel errors for the panel package. Every message is prefixed with
// "panel: " for consistent grepping; callers match with errors.Is.
var (
	// ErrEmptyPool indicates a Pool was constructed with zero respondents.
	ErrEmptyPool = errors.New("panel: respondent pool is empty")

	// ErrDuplicateRespondent indicates two respondents share an ID.
	ErrDuplicateRespondent = errors.New("panel: duplicate respondent ID")

	// ErrInvalidQuota indicates a quota with Min > Max or a negative bound.
	ErrInvalidQuota = errors.New("panel: invalid quota bounds")

	// ErrInvalidPanelSize indicates k is not a positive integer.
	ErrInvalidPanelSize = errors.New("panel: panel size k must be positive")

	// ErrUnknownRespondent indicates a panel or weight map referenced an ID
	// absent from the Pool.
	ErrUnknownRespondent = errors.New("panel: unknown respondent ID")

	// ErrWrongPanelSize indicates a candidate panel's member count != k.
	ErrWrongPanelSize = errors.New("panel: candidate panel has wrong size")

	// ErrQuotaViolated indicates a candidate panel breaks a feature-value quota.
	ErrQuotaViolated = errors.New("panel: candidate panel violates a quota")

	// ErrBadDistribution indicates weights are negative or do not sum to 1.
	ErrBadDistribution = errors.New("panel: distribution weights are invalid")

	// ErrBadUniformDistribution indicates multiplicities are negative or do
	// not sum to M.
	ErrBadUniformDistribution = errors.New("panel: uniform distribution multiplicities are invalid")
)
