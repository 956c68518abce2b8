package errors

import "fmt"

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")

	ErrNoSelfSession                   = fmt.Errorf("self client has no remote identifier")
	ErrEncryptionFailed                = fmt.Errorf("failed to encrypt message payload")
	ErrNestedExternal                  = fmt.Errorf("external message can not be wrapped into another external message")
	ErrMissingRecipientForConfirmation = fmt.Errorf("no recipient found for confirmation")

	ErrChecksumMismatch = fmt.Errorf("external data checksum mismatch")
	ErrInvalidKey       = fmt.Errorf("invalid external encryption key")
	ErrMalformedData    = fmt.Errorf("malformed encrypted external data")

	ErrPrekeysCountNotPositive = fmt.Errorf("prekeys count needs to be positive")
	ErrCannotGeneratePrekeys   = fmt.Errorf("can not generate prekeys")
	ErrSessionNotFound         = fmt.Errorf("session not found")
	ErrDuplicateMessage        = fmt.Errorf("message key already consumed")
	ErrTooManySkippedMessages  = fmt.Errorf("too many skipped messages")

	ErrMessageNotFound       = fmt.Errorf("message not found")
	ErrWrongExecutionContext = fmt.Errorf("timer kind not allowed in this execution context")
	ErrNotEphemeral          = fmt.Errorf("message is not ephemeral")
)
