package types

type Direction string

const (
	// DirectionToCode materializes resolved artifacts into the descriptor.
	DirectionToCode Direction = "to-code"
	// DirectionToEclipse restores the descriptor to its pristine state.
	DirectionToEclipse Direction = "to-eclipse"
)

type BundleRole string

const (
	BundleRoleRepository BundleRole = "repository"
	BundleRoleProject    BundleRole = "project"
)
