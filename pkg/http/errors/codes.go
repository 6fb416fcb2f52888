package errors

// Error codes attached to client-side errors
const (
	// Input validation errors (raised locally, never sent)
	ErrCodeInvalidPartyID     = "invalid_party_id"
	ErrCodeInvalidAnswer      = "invalid_answer"
	ErrCodeMissingField       = "missing_field"
	ErrCodeUnknownIngredient  = "unknown_ingredient"
	ErrCodeInvalidPreference  = "invalid_preference"
	ErrCodeMustHaveLimit      = "must_have_limit"
	ErrCodeIngredientsEmpty   = "ingredients_empty"
	ErrCodeIngredientsTooMany = "ingredients_too_many"
	ErrCodeInvalidSliceCount  = "invalid_slice_count"

	// Transport errors
	ErrCodeRequestFailed  = "request_failed"
	ErrCodeInvalidPayload = "invalid_payload"

	// Backend-reported errors
	ErrCodeUpstreamError = "upstream_error"
	ErrCodeNotFound      = "not_found"
	ErrCodeJoinFailed    = "join_failed"
	ErrCodeCreateFailed  = "create_failed"
)
