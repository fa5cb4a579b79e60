package registry

import (
	"testing"

	"pgregory.net/rapid"

	apperrors "school-activities/internal/common/errors"
	"school-activities/internal/models"
)

// TestRegistry_InvariantsHold drives random signup/unregister sequences and
// checks the roster invariants after every step against a simple model.
func TestRegistry_InvariantsHold(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		capacity := rapid.IntRange(1, 5).Draw(rt, "capacity")
		r, err := New([]models.Activity{{Name: "Chess Club", MaxParticipants: capacity}})
		if err != nil {
			rt.Fatalf("new: %v", err)
		}

		emails := rapid.SampledFrom([]string{
			"a@b.com", "c@d.com", "e@f.com", "g@h.com", "i@j.com", "k@l.com", "m@n.com",
		})
		var model []string

		steps := rapid.IntRange(1, 40).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			email := emails.Draw(rt, "email")
			if rapid.Bool().Draw(rt, "signup") {
				_, err := r.Signup("Chess Club", email)
				switch {
				case contains(model, email):
					if !errorIs(err, apperrors.ErrAlreadyRegistered) {
						rt.Fatalf("expected AlreadyRegistered for %s, got %v", email, err)
					}
				case len(model) == capacity:
					if !errorIs(err, apperrors.ErrCapacityExceeded) {
						rt.Fatalf("expected CapacityExceeded for %s, got %v", email, err)
					}
				default:
					if err != nil {
						rt.Fatalf("signup %s: %v", email, err)
					}
					model = append(model, email)
				}
			} else {
				_, err := r.Unregister("Chess Club", email)
				if contains(model, email) {
					if err != nil {
						rt.Fatalf("unregister %s: %v", email, err)
					}
					model = remove(model, email)
				} else if !errorIs(err, apperrors.ErrNotRegistered) {
					rt.Fatalf("expected NotRegistered for %s, got %v", email, err)
				}
			}

			got, err := r.Get("Chess Club")
			if err != nil {
				rt.Fatalf("get: %v", err)
			}
			if len(got.Participants) > got.MaxParticipants {
				rt.Fatalf("roster %d exceeds capacity %d", len(got.Participants), got.MaxParticipants)
			}
			if len(got.Participants) != len(model) {
				rt.Fatalf("roster %v, model %v", got.Participants, model)
			}
			for j := range model {
				if got.Participants[j] != model[j] {
					rt.Fatalf("roster %v, model %v", got.Participants, model)
				}
			}
		}
	})
}

// TestRegistry_UnknownActivityNotFound checks every operation on a name the
// registry does not hold.
func TestRegistry_UnknownActivityNotFound(t *testing.T) {
	r, err := New(testSeed())
	if err != nil {
		t.Fatal(err)
	}

	rapid.Check(t, func(rt *rapid.T) {
		name := rapid.StringMatching(`[A-Za-z ]{1,20}`).Filter(func(s string) bool {
			return s != "Test Activity"
		}).Draw(rt, "name")
		email := rapid.StringMatching(`[a-z]{1,8}@[a-z]{1,8}\.com`).Draw(rt, "email")

		if _, err := r.Signup(name, email); !errorIs(err, apperrors.ErrActivityNotFound) {
			rt.Fatalf("signup %q: %v", name, err)
		}
		if _, err := r.Unregister(name, email); !errorIs(err, apperrors.ErrActivityNotFound) {
			rt.Fatalf("unregister %q: %v", name, err)
		}
	})
}

func errorIs(err error, target *apperrors.StandardError) bool {
	std, ok := err.(*apperrors.StandardError)
	return ok && std.Is(target)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func remove(list []string, s string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
