package tiles

import "errors"

// The tile-map/tile-def error taxonomy (§7). Callers branch on these with
// errors.Is; no type switches on unexported structs.
var (
	ErrOutOfBounds           = errors.New("tiles: cell out of bounds")
	ErrCellOccupied          = errors.New("tiles: cell already occupied")
	ErrInvalidTerrainForObject = errors.New("tiles: object placement incompatible with underlying terrain")
	ErrLayerMismatch         = errors.New("tiles: tile def's layer does not match target layer")
	ErrMissingTileDef        = errors.New("tiles: tile def does not resolve")
)
