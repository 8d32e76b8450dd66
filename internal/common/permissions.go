package common

// File permission constants for consistent security across the application
const (
	// FilePermissionSecure is used for the config file
	FilePermissionSecure = 0600

	// FilePermissionNormal is used for downloaded data files
	FilePermissionNormal = 0644

	// DirPermissionSecure is used for the config directory
	DirPermissionSecure = 0700
)
