package models

// CapabilityManageStore gates every settings write in the admin API.
const CapabilityManageStore = "manage_store"

type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	CreatedAt    string `json:"createdAt"`
}

// RoleHasCapability maps roles onto capabilities. Only admins may manage
// the store configuration.
func RoleHasCapability(role, capability string) bool {
	if capability == CapabilityManageStore {
		return role == "admin"
	}
	return false
}
