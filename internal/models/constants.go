package models

// Labels written on generated deposits.
const (
	AllowanceLabel       = "Weekly Allowance"
	InterestLabelPattern = "Interest @ %s%%"
)

// Defaults used when no account record has been persisted yet.
const (
	DefaultAccountHolder   = "My"
	DefaultStartDate       = "2024-01-01"
	DefaultInitialBalance  = "0"
	DefaultAllowance       = "5"
	DefaultInterestPercent = "1"
)

// InterestPrecision is the number of decimal places interest is rounded to.
const InterestPrecision int32 = 6

// File permissions
const (
	PermissionDataFile  = 0600
	PermissionDirectory = 0750
)
