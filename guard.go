package adminkit

// SelfOperation enumerates the destructive admin operations the
// self-protection guard covers.
type SelfOperation string

const (
	SelfOperationDelete  SelfOperation = "delete"
	SelfOperationDisable SelfOperation = "disable"
)

// AssertNotSelf blocks an actor from deleting or disabling their own admin
// account. It is invoked by the service immediately before an admin delete
// and before a status update that would set the account to disabled.
func AssertNotSelf(actorID, targetAdminID int64, op SelfOperation) error {
	if actorID == 0 || actorID != targetAdminID {
		return nil
	}
	switch op {
	case SelfOperationDelete:
		return ErrCannotDeleteSelf
	case SelfOperationDisable:
		return ErrCannotDisableSelf
	}
	return nil
}
