package models

// Activity is an extracurricular offering and its current roster.
// Name is the registry key, so it is left out of the JSON body.
type Activity struct {
	Name            string   `json:"-" yaml:"name"`
	Description     string   `json:"description" yaml:"description"`
	Schedule        string   `json:"schedule" yaml:"schedule"`
	MaxParticipants int      `json:"max_participants" yaml:"max_participants"`
	Participants    []string `json:"participants" yaml:"participants"`
}

// Clone returns a copy that shares no memory with a.
func (a Activity) Clone() Activity {
	out := a
	out.Participants = make([]string, len(a.Participants))
	copy(out.Participants, a.Participants)
	return out
}

// IsFull reports whether the roster has reached capacity.
func (a Activity) IsFull() bool {
	return len(a.Participants) >= a.MaxParticipants
}

// HasParticipant reports whether email is on the roster.
func (a Activity) HasParticipant(email string) bool {
	return a.indexOf(email) >= 0
}

func (a Activity) indexOf(email string) int {
	for i, p := range a.Participants {
		if p == email {
			return i
		}
	}
	return -1
}

// RemoveParticipant drops email from the roster, keeping signup order.
func (a *Activity) RemoveParticipant(email string) bool {
	i := a.indexOf(email)
	if i < 0 {
		return false
	}
	a.Participants = append(a.Participants[:i], a.Participants[i+1:]...)
	return true
}

// Confirmation is the result of a successful roster change.
type Confirmation struct {
	Message  string `json:"message"`
	Activity string `json:"-"`
	Email    string `json:"-"`
}
