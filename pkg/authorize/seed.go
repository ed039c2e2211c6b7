package authorize

import (
	"context"
	"log/slog"
)

// SeedDefaultPolicies sets up the baseline RBAC policies for the platform.
func SeedDefaultPolicies(ctx context.Context, auth IAuthorization) error {
	logger := slog.Default()

	patientPolicies := []PermissionPolicy{
		{RolePatient, ResourceProfile, ActionManage, EffectAllow},
		{RolePatient, ResourceDoctorListing, ActionList, EffectAllow},
		{RolePatient, ResourceAppointment, ActionCreate, EffectAllow},
		{RolePatient, ResourceAppointment, ActionRead, EffectAllow},
		{RolePatient, ResourceAppointment, ActionList, EffectAllow},
		{RolePatient, ResourceAppointment, ActionUpdate, EffectAllow}, // cancel own
		{RolePatient, ResourceMedicalRecord, ActionCreate, EffectAllow}, // upload own records
		{RolePatient, ResourceMedicalRecord, ActionRead, EffectAllow},
		{RolePatient, ResourceMedicalRecord, ActionList, EffectAllow},
		{RolePatient, ResourceSymptomCheck, ActionCreate, EffectAllow},
		{RolePatient, ResourceMedicine, ActionList, EffectAllow}, // pharmacy search
		{RolePatient, ResourceDashboard, ActionRead, EffectAllow},
		{RolePatient, ResourceNotification, ActionManage, EffectAllow},
	}

	doctorPolicies := []PermissionPolicy{
		{RoleDoctor, ResourceProfile, ActionManage, EffectAllow},
		{RoleDoctor, ResourceAppointment, ActionManage, EffectAllow},
		{RoleDoctor, ResourceMedicalRecord, ActionManage, EffectAllow},
		{RoleDoctor, ResourcePrescription, ActionManage, EffectAllow},
		{RoleDoctor, ResourceDashboard, ActionRead, EffectAllow},
		{RoleDoctor, ResourceNotification, ActionManage, EffectAllow},
	}

	pharmacyPolicies := []PermissionPolicy{
		{RolePharmacy, ResourceProfile, ActionManage, EffectAllow},
		{RolePharmacy, ResourceMedicine, ActionManage, EffectAllow},
		{RolePharmacy, ResourceOrder, ActionManage, EffectAllow},
		{RolePharmacy, ResourceDashboard, ActionRead, EffectAllow},
		{RolePharmacy, ResourceNotification, ActionManage, EffectAllow},
	}

	allPolicies := append(append(patientPolicies, doctorPolicies...), pharmacyPolicies...)

	for _, p := range allPolicies {
		added, err := auth.AddPermission(ctx, p.Subject, p.Object, p.Action, p.Effect)
		if err != nil {
			logger.Error("failed to add policy", "policy", p, "error", err)
			return err
		}
		if added {
			logger.Debug("added policy", "role", p.Subject, "resource", p.Object, "action", p.Action)
		}
	}

	logger.Info("seeded default RBAC policies", "count", len(allPolicies))
	return nil
}
