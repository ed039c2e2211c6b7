package authorize

import (
	"context"
	"errors"
	"testing"
)

func newSeededAuth(t *testing.T) IAuthorization {
	t.Helper()

	e, err := NewEnforcer()
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}
	auth, err := NewAuthorization(e)
	if err != nil {
		t.Fatalf("NewAuthorization: %v", err)
	}
	if err := SeedDefaultPolicies(context.Background(), auth); err != nil {
		t.Fatalf("SeedDefaultPolicies: %v", err)
	}
	return auth
}

func TestRolePermissions(t *testing.T) {
	auth := newSeededAuth(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		subject GroupSubject
		object  Resource
		action  Action
		want    bool
	}{
		{"patient books appointment", GroupSubject(RolePatient), ResourceAppointment, ActionCreate, true},
		{"patient reads own records", GroupSubject(RolePatient), ResourceMedicalRecord, ActionRead, true},
		{"patient cannot prescribe", GroupSubject(RolePatient), ResourcePrescription, ActionCreate, false},
		{"patient cannot manage medicines", GroupSubject(RolePatient), ResourceMedicine, ActionCreate, false},
		{"doctor writes prescription", GroupSubject(RoleDoctor), ResourcePrescription, ActionCreate, true},
		{"doctor updates appointment", GroupSubject(RoleDoctor), ResourceAppointment, ActionUpdate, true},
		{"doctor cannot manage orders", GroupSubject(RoleDoctor), ResourceOrder, ActionUpdate, false},
		{"pharmacy manages medicines", GroupSubject(RolePharmacy), ResourceMedicine, ActionDelete, true},
		{"pharmacy updates orders", GroupSubject(RolePharmacy), ResourceOrder, ActionUpdate, true},
		{"pharmacy cannot book appointments", GroupSubject(RolePharmacy), ResourceAppointment, ActionCreate, false},
		{"pharmacy cannot run symptom check", GroupSubject(RolePharmacy), ResourceSymptomCheck, ActionCreate, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := auth.Enforce(ctx, tc.subject, tc.object, tc.action)
			if err != nil {
				t.Fatalf("Enforce: %v", err)
			}
			if got != tc.want {
				t.Errorf("Enforce(%s, %s, %s) = %v, want %v", tc.subject, tc.object, tc.action, got, tc.want)
			}
		})
	}
}

func TestMustEnforceForbidden(t *testing.T) {
	auth := newSeededAuth(t)

	err := auth.MustEnforce(context.Background(), GroupSubject(RolePatient), ResourceOrder, ActionUpdate)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
}

func TestEnforceRejectsUnknownTuples(t *testing.T) {
	auth := newSeededAuth(t)
	ctx := context.Background()

	if _, err := auth.Enforce(ctx, "", ResourceOrder, ActionRead); !errors.Is(err, ErrInvalidArgs) {
		t.Errorf("empty subject: want ErrInvalidArgs, got %v", err)
	}
	if _, err := auth.Enforce(ctx, "u1", Resource("spaceship"), ActionRead); !errors.Is(err, ErrInvalidArgs) {
		t.Errorf("unknown resource: want ErrInvalidArgs, got %v", err)
	}
	if _, err := auth.Enforce(ctx, "u1", ResourceOrder, Action("teleport")); !errors.Is(err, ErrInvalidArgs) {
		t.Errorf("unknown action: want ErrInvalidArgs, got %v", err)
	}
}

func TestUserRoleGrouping(t *testing.T) {
	auth := newSeededAuth(t)
	ctx := context.Background()

	const uid = GroupSubject("64f1c0ffee0000000000abcd")

	if _, err := auth.AddRoleForUser(ctx, uid, RoleDoctor); err != nil {
		t.Fatalf("AddRoleForUser: %v", err)
	}

	ok, err := auth.Enforce(ctx, uid, ResourcePrescription, ActionCreate)
	if err != nil {
		t.Fatalf("Enforce: %v", err)
	}
	if !ok {
		t.Error("grouped user denied role permission")
	}

	roles, err := auth.GetRolesForUser(ctx, uid)
	if err != nil {
		t.Fatalf("GetRolesForUser: %v", err)
	}
	if len(roles) != 1 || roles[0] != RoleDoctor {
		t.Errorf("roles = %v", roles)
	}
}
