package auth

import (
	"testing"

	"github.com/google/uuid"
)

func TestAuthorizeViewPatientRecord(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	cases := []struct {
		name   string
		actor  Actor
		target Target
		want   Decision
	}{
		{"admin any record", Actor{ID: other, Role: RoleAdmin}, Target{OwnerUserID: owner}, Allow},
		{"doctor any record", Actor{ID: other, Role: RoleDoctor}, Target{OwnerUserID: owner}, Allow},
		{"patient own record", Actor{ID: owner, Role: RolePatient}, Target{OwnerUserID: owner}, Allow},
		{"patient other record", Actor{ID: other, Role: RolePatient}, Target{OwnerUserID: owner}, Deny},
		{"patient ownerless target", Actor{ID: owner, Role: RolePatient}, Target{}, Deny},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Authorize(tc.actor, OpViewPatientRecord, tc.target); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

// The ownership rule: view is allowed iff the role is doctor or admin, or the
// actor owns the record. Checked over every combination.
func TestAuthorizeViewOwnershipProperty(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	actors := []Actor{
		{ID: owner, Role: RolePatient},
		{ID: stranger, Role: RolePatient},
		{ID: stranger, Role: RoleDoctor},
		{ID: stranger, Role: RoleAdmin},
		{ID: stranger, Role: "nurse"},
	}
	target := Target{OwnerUserID: owner}
	for _, a := range actors {
		want := Deny
		if a.Role == RoleDoctor || a.Role == RoleAdmin || (a.Role == RolePatient && a.ID == owner) {
			want = Allow
		}
		if got := Authorize(a, OpViewPatientRecord, target); got != want {
			t.Errorf("actor %v: got %v, want %v", a, got, want)
		}
	}
}

func TestAuthorizeCollectionOps(t *testing.T) {
	patient := Actor{ID: uuid.New(), Role: RolePatient}
	doctor := Actor{ID: uuid.New(), Role: RoleDoctor}
	admin := Actor{ID: uuid.New(), Role: RoleAdmin}

	for _, op := range []Operation{OpListPatients, OpDeletePatient} {
		if Authorize(patient, op, Target{}) != Deny {
			t.Errorf("%s: patient should be denied", op)
		}
		if Authorize(doctor, op, Target{}) != Allow {
			t.Errorf("%s: doctor should be allowed", op)
		}
		if Authorize(admin, op, Target{}) != Allow {
			t.Errorf("%s: admin should be allowed", op)
		}
	}
}

func TestAuthorizeCreatePatientProfile(t *testing.T) {
	owner := uuid.New()

	if Authorize(Actor{ID: owner, Role: RolePatient}, OpCreatePatientProfile, Target{OwnerUserID: owner}) != Allow {
		t.Error("patient creating own profile should be allowed")
	}
	if Authorize(Actor{ID: uuid.New(), Role: RolePatient}, OpCreatePatientProfile, Target{OwnerUserID: owner}) != Deny {
		t.Error("patient creating another user's profile should be denied")
	}
	if Authorize(Actor{ID: uuid.New(), Role: RoleAdmin}, OpCreatePatientProfile, Target{OwnerUserID: owner}) != Allow {
		t.Error("admin creating any profile should be allowed")
	}
}

func TestAuthorizeFailsClosed(t *testing.T) {
	id := uuid.New()

	if Authorize(Actor{ID: id, Role: "superuser"}, OpViewPatientRecord, Target{OwnerUserID: id}) != Deny {
		t.Error("unknown role should deny")
	}
	if Authorize(Actor{Role: RoleAdmin}, OpViewPatientRecord, Target{OwnerUserID: id}) != Deny {
		t.Error("missing actor id should deny")
	}
	if Authorize(Actor{ID: id, Role: RoleAdmin}, Operation("unknown:op"), Target{}) != Deny {
		t.Error("unknown operation should deny")
	}
}
