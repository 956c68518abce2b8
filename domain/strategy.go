package domain

import "github.com/google/uuid"

type MissingClientsPolicy int

const (
	DoNotIgnoreAnyMissingClient MissingClientsPolicy = iota
	IgnoreAllMissingClientsNotFromUsers
)

// MissingClientsStrategy tells the transport how to react to a
// "missing clients" answer from the backend.
// Users is only set for IgnoreAllMissingClientsNotFromUsers.
type MissingClientsStrategy struct {
	Policy MissingClientsPolicy
	Users  []uuid.UUID
}

func DoNotIgnoreAnyMissingClientStrategy() MissingClientsStrategy {
	return MissingClientsStrategy{Policy: DoNotIgnoreAnyMissingClient}
}

func IgnoreAllMissingClientsNotFromUsersStrategy(users []uuid.UUID) MissingClientsStrategy {
	return MissingClientsStrategy{Policy: IgnoreAllMissingClientsNotFromUsers, Users: users}
}
