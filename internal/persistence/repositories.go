package persistence

import "context"

// ScheduleRepository stores the imported timetable: groups, their per-day
// schedule entries with subjects, and the per-group email rosters.
type ScheduleRepository interface {
	// ReplaceAll clears every group, schedule entry, subject and roster record
	// and repopulates the store from the supplied sheets. The whole operation
	// runs in a single transaction: a failure leaves the previous dataset
	// untouched.
	ReplaceAll(ctx context.Context, sheets []ImportSheet) error

	// GetGroupByName resolves a group by case-insensitive name.
	GetGroupByName(ctx context.Context, name string) (Group, error)

	// ListGroups returns all known groups.
	ListGroups(ctx context.Context) ([]Group, error)

	// ListWeek returns the group's lessons ordered by day (Monday first) and
	// start time ascending. ErrNotFound when the group does not exist.
	ListWeek(ctx context.Context, groupName string) ([]LessonRecord, error)

	// ListEmailsByGroup returns the group's roster addresses. The list is empty
	// (not an error) when the group exists but has no roster; ErrNotFound when
	// the group does not exist.
	ListEmailsByGroup(ctx context.Context, groupName string) ([]string, error)
}

// RegistrationCodeRepository stores pending email-verification codes keyed by
// address.
type RegistrationCodeRepository interface {
	// SaveCode inserts the code, replacing any earlier code for the same email.
	SaveCode(ctx context.Context, code RegistrationCode) error

	// GetCode returns the pending code for the email, or ErrNotFound.
	GetCode(ctx context.Context, email string) (RegistrationCode, error)

	// DeleteCode removes the pending code. Deleting an absent code is not an
	// error.
	DeleteCode(ctx context.Context, email string) error
}

// AdminRepository stores the set of privileged chat identities. The set only
// ever grows; no operation removes an admin.
type AdminRepository interface {
	// IsAdmin reports membership.
	IsAdmin(ctx context.Context, userID int64) (bool, error)

	// AddAdmin records the identity. Adding an existing admin is a no-op.
	AddAdmin(ctx context.Context, userID int64) error
}
