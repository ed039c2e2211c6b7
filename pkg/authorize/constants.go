package authorize

type Action string
type Resource string
type Role string

// ----------------------------
// Actions
// ----------------------------

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"

	// Power action: CRUD + list
	ActionManage Action = "manage"
)

const (
	WildcardAction Action = "*"
)

var KnownActions = map[Action]struct{}{
	ActionCreate: {}, ActionRead: {}, ActionUpdate: {}, ActionDelete: {}, ActionList: {},
	ActionManage: {},
}

// ----------------------------
// Resources
// ----------------------------

const (
	WildcardResource Resource = "*"

	ResourceProfile       Resource = "profile"
	ResourceDoctorListing Resource = "doctor_listing"

	ResourceAppointment   Resource = "appointment"
	ResourceMedicalRecord Resource = "medical_record"
	ResourcePrescription  Resource = "prescription"
	ResourceSymptomCheck  Resource = "symptom_check"

	ResourceMedicine Resource = "medicine"
	ResourceOrder    Resource = "order"

	ResourceNotification Resource = "notification"
	ResourceDashboard    Resource = "dashboard"
)

var KnownResources = map[Resource]struct{}{
	ResourceProfile: {}, ResourceDoctorListing: {},
	ResourceAppointment: {}, ResourceMedicalRecord: {}, ResourcePrescription: {}, ResourceSymptomCheck: {},
	ResourceMedicine: {}, ResourceOrder: {},
	ResourceNotification: {}, ResourceDashboard: {},
}

// ----------------------------
// Roles
// ----------------------------
//
// These mirror the role field on the user document. A principal carries
// exactly one of them.

const (
	WildcardRole Role = "*"

	RolePatient  Role = "patient"
	RoleDoctor   Role = "doctor"
	RolePharmacy Role = "pharmacy"
)

var KnownRoles = map[Role]struct{}{
	RolePatient:  {},
	RoleDoctor:   {},
	RolePharmacy: {},
}

// ----------------------------
// Casbin tuple helpers
// ----------------------------

type PolicyEffect string

const (
	EffectAllow PolicyEffect = "allow"
	EffectDeny  PolicyEffect = "deny"
)

// GroupSubject is the g.sub in Casbin: a concrete principal id (user id).
type GroupSubject string

// Permission rows: p, role, resource, action, eft
type PermissionPolicy struct {
	Subject Role
	Object  Resource
	Action  Action
	Effect  PolicyEffect
}
