package worldsim

import "errors"

// The World-level error taxonomy (§7). Buildings/units layer these on top of
// genindex's pool errors and tiles' placement errors.
var (
	// ErrMissingTileDef is returned when a building/tile configuration
	// references a tile def name the registry does not have (§7
	// MissingTileDef, fatal during load, recoverable during spawn).
	ErrMissingTileDef = errors.New("worldsim: tile def does not resolve")

	// ErrBuildingNotFound is returned by despawn/lookup when a BuildingId
	// resolves to no live entry (stale generation or bad archetype).
	ErrBuildingNotFound = errors.New("worldsim: building not found")

	// ErrDesync is returned when a building's map tile is missing at
	// despawn time, indicating a handle/state desync that must not happen
	// in normal operation (§4.3 despawn_building).
	ErrDesync = errors.New("worldsim: building/tile state desync")

	// ErrUnitNotFound mirrors ErrBuildingNotFound for the unit pool.
	ErrUnitNotFound = errors.New("worldsim: unit not found")
)
