package domain

type PermissionState string

const (
	PermissionUnknown PermissionState = "unknown"
	PermissionGranted PermissionState = "granted"
	PermissionDenied  PermissionState = "denied"
	PermissionPrompt  PermissionState = "prompt"
)

func (s PermissionState) Valid() bool {
	switch s {
	case PermissionUnknown, PermissionGranted, PermissionDenied, PermissionPrompt:
		return true
	}
	return false
}

type Capability string

const (
	CapabilityCamera   Capability = "camera"
	CapabilityLocation Capability = "location"
)

type Permissions struct {
	Camera   PermissionState `json:"camera"`
	Location PermissionState `json:"location"`
}

func UnknownPermissions() Permissions {
	return Permissions{Camera: PermissionUnknown, Location: PermissionUnknown}
}

type PermissionsRequest struct {
	Camera   PermissionState `json:"camera" validate:"omitempty,oneof=unknown granted denied prompt"`
	Location PermissionState `json:"location" validate:"omitempty,oneof=unknown granted denied prompt"`
}
