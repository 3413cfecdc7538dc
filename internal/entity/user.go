package entity

import "github.com/stridehq/backend/pkg/enum"

type GlobalRole string

var (
	RoleUser  = enum.New(GlobalRole("user"))
	RoleAdmin = enum.New(GlobalRole("admin"))
)

var GlobalAdminRoles = []GlobalRole{RoleAdmin}

// User mirrors the member record of the external identity provider. The ID is
// the provider's user id, synced on first sight.
type User struct {
	Base

	Username  string
	AvatarURL string
	Role      GlobalRole
}
