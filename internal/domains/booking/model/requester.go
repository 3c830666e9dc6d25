package model

import "salonbook/shared/constant"

// Requester identifies the authenticated caller of a scheduler operation.
type Requester struct {
	UserID string
	Role   string
}

func (r Requester) IsAdmin() bool {
	return r.Role == constant.RoleAdmin || r.Role == constant.RoleSuperAdmin
}

func (r Requester) IsProvider() bool {
	return r.Role == constant.RoleProvider
}
