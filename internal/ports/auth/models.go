package auth

// Role de una cuenta del back office (o customer del sitio).
type Role string

const (
	RoleSuperAdmin     Role = "super_admin"
	RoleAdmin          Role = "admin"
	RoleDoctor         Role = "doctor"
	RoleBoardingCenter Role = "boarding_center"
	RoleCustomer       Role = "customer"
)

// Claims representa la información extraída del token.
type Claims struct {
	UserID      string
	Username    string
	Role        Role
	Permissions map[string]bool

	// Vínculos opcionales según rol.
	DoctorID string
	CenterID string
}

// Can responde si las claims habilitan el módulo. super_admin pasa siempre.
func (c Claims) Can(module string) bool {
	if c.Role == RoleSuperAdmin {
		return true
	}
	return c.Permissions[module]
}

// Claves de permiso; coinciden con los módulos del back office.
const (
	PermUsers         = "users"
	PermCustomers     = "customers"
	PermDoctors       = "doctors"
	PermSlots         = "slots"
	PermAppointments  = "appointments"
	PermBookings      = "bookings"
	PermBoarding      = "boarding"
	PermProducts      = "products"
	PermTestimonials  = "testimonials"
	PermPrescriptions = "prescriptions"
	PermMessages      = "messages"
)

var Permissions = []string{
	PermUsers, PermCustomers, PermDoctors, PermSlots, PermAppointments, PermBookings,
	PermBoarding, PermProducts, PermTestimonials, PermPrescriptions, PermMessages,
}

func ValidPermission(p string) bool {
	for _, k := range Permissions {
		if k == p {
			return true
		}
	}
	return false
}

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleDoctor, RoleBoardingCenter, RoleCustomer:
		return true
	}
	return false
}
