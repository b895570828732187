package redisdoc

const (
	CreateUserScript  = createUserScript
	ReleaseLockScript = releaseLockScript
	LockAttempts      = lockAttempts
)
