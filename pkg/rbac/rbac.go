package rbac

import "fmt"

// 权限常量
const (
	PermissionReadProject      = "project:read"
	PermissionUpdateProject    = "project:update"
	PermissionReadRevenue      = "report:revenue"
	PermissionSendNotification = "notification:send"
	PermissionReplayOutbox     = "outbox:replay"
)

// 角色常量
const (
	RoleAdmin          = "admin"
	RoleProjectManager = "project_manager"
	RoleClient         = "client"
)

// 角色权限映射
var rolePermissions = map[string][]string{
	RoleAdmin: {
		PermissionReadProject,
		PermissionUpdateProject,
		PermissionReadRevenue,
		PermissionSendNotification,
		PermissionReplayOutbox,
	},
	RoleProjectManager: {
		PermissionReadProject,
		PermissionUpdateProject,
		PermissionSendNotification,
	},
	RoleClient: {
		PermissionReadProject,
	},
}

// IsKnownRole reports whether role has a permission set.
func IsKnownRole(role string) bool {
	_, ok := rolePermissions[role]
	return ok
}

// HasPermission 检查角色是否有指定权限
func HasPermission(role string, permission string) bool {
	for _, p := range rolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// CheckPermission 检查权限，返回错误而不是布尔值，便于处理
func CheckPermission(userID, role, permission string) error {
	if !HasPermission(role, permission) {
		return &PermissionDeniedError{
			UserID:     userID,
			Role:       role,
			Permission: permission,
		}
	}
	return nil
}

// PermissionDeniedError 表示权限不足的错误
type PermissionDeniedError struct {
	UserID     string
	Role       string
	Permission string
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("insufficient permissions: role %q lacks %s", e.Role, e.Permission)
}
