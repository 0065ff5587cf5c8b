package model

// Environment names.
type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentProduction  Environment = "production"
)

// Scope carries caller identity through usecases.
type Scope struct {
	UserID string
}
