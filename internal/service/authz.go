package service

import "github.com/symposium-hq/sympro/internal/model"

// CanReadAttempt is the single capability check for attempt reads. The owning
// participant may always read their own attempt; any non-participant caller is
// administratively scoped (finer role filtering belongs to the API layer).
// A participant reading another participant's attempt is denied.
func CanReadAttempt(caller model.Caller, attempt *model.TestAttempt) bool {
	if caller.IsParticipant() {
		return attempt.UserID == caller.UserID
	}
	return true
}

// OwnsAttempt gates the mutating operations (save answer, log violation,
// submit): only the owning participant may drive an attempt.
func OwnsAttempt(userID uint, attempt *model.TestAttempt) bool {
	return attempt.UserID == userID
}
