package appointments

// The transition decision table. Every role/status policy question about
// appointments is answered here and nowhere else.
//
//	Pending   -> Confirmed   doctor, admin
//	Pending   -> Cancelled   doctor, admin, patient (own appointment only)
//	Confirmed -> Completed   doctor, admin
//	Confirmed -> Cancelled   doctor, admin
//	Completed -> (none)
//	Cancelled -> (none)
type transition struct {
	from, to Status
}

var allowedRoles = map[transition][]string{
	{StatusPending, StatusConfirmed}:   {"doctor", "admin"},
	{StatusPending, StatusCancelled}:   {"doctor", "admin", "patient"},
	{StatusConfirmed, StatusCompleted}: {"doctor", "admin"},
	{StatusConfirmed, StatusCancelled}: {"doctor", "admin"},
}

// CanTransition decides whether an actor with the given role may move an
// appointment from one status to another. Transitions absent from the table
// are denied; a patient acting on an appointment that is not their own is
// denied regardless of status.
func CanTransition(role string, from, to Status, isOwner bool) bool {
	roles, ok := allowedRoles[transition{from, to}]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r != role {
			continue
		}
		if r == "patient" && !isOwner {
			return false
		}
		return true
	}
	return false
}
