package config

const (
	MinJWTSecretLength = 16

	MinBcryptCost = 4
	MaxBcryptCost = 31
)
