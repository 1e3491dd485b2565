package interfaces

var (
	respondJSON  = RespondJSON
	respondError = RespondError
)
