package tiles

import (
	"fmt"
	"hash/fnv"

	"isotown/internal/config"
	"isotown/internal/pathgraph"
)

// TileSprite is one frame of an anim set. The core never resolves this to a
// texture; TextureHandle is an opaque slot the rendering pipeline (an
// external collaborator, §1) populates after atlas packing.
type TileSprite struct {
	FramePath     string
	TextureHandle uint32
}

// TileAnimSet is one named animation (e.g. "idle", "burning") within a
// variation.
type TileAnimSet struct {
	Name              string
	FrameDurationSecs float64
	Looping           bool
	Frames            []TileSprite
}

// TileVariation is one visual variant of a tile, selected by a placed
// tile's VariationIndex.
type TileVariation struct {
	Name     string
	AnimSets []TileAnimSet
}

// TileDef is an immutable catalog entry describing a placeable tile type
// (§4.2). Once registered it is never mutated; every Tile instance holds a
// *TileDef (or, across a save/load boundary, a SerializableTileDefHandle
// that rebinds to one in post_load).
type TileDef struct {
	Name             string
	Hash             uint64
	Layer            LayerKind
	Kind             Kind
	LogicalSizeCells int // footprint is LogicalSizeCells x LogicalSizeCells, always a multiple of 1 base tile
	DrawWidth        int
	DrawHeight       int
	PathKind         pathgraph.NodeKind
	Cost             int
	DefaultFlags     Flags
	Variations       []TileVariation

	category string
}

// Category returns the registry category this def was loaded under.
func (d *TileDef) Category() string { return d.category }

// fnv1a hashes a name the way §4.2 specifies ("hash (FNV-1a of name)").
func fnv1a(name string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return h.Sum64()
}

// SerializableTileDefHandle is the compact on-disk reference to a TileDef
// (§4.2): a (layer, category, tile) triple of 16-bit indices, rebound to a
// *TileDef by Registry.Resolve during post-load.
type SerializableTileDefHandle struct {
	Layer    uint16
	Category uint16
	Tile     uint16
}

// Registry is the immutable-after-load, two-level (layer -> category ->
// tile) tile-def catalog (§4.2). It returns stable pointers: once a def is
// registered it is never moved or copied, so any *TileDef handed out
// remains valid for the registry's lifetime.
type Registry struct {
	categoriesByLayer [2][]string                // ordered category names per layer, for stable index assignment
	defs              [2]map[string][]*TileDef    // layer -> category -> ordered defs
	byName            map[string]*TileDef
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		defs:   [2]map[string][]*TileDef{make(map[string][]*TileDef), make(map[string][]*TileDef)},
		byName: make(map[string]*TileDef),
	}
}

// LoadTileSet parses a tile_set.json document (§6) and registers every tile
// it describes under the given layer/category.
func (r *Registry) LoadTileSet(layer LayerKind, category string, doc *config.TileSetDocument, kindOf func(tileName string) Kind) error {
	catDoc, ok := doc.Categories[category]
	if !ok {
		return fmt.Errorf("tiles: tile set document has no category %q", category)
	}
	for name, tileDoc := range catDoc.Tiles {
		def := &TileDef{
			Name:             name,
			Hash:             fnv1a(name),
			Layer:            layer,
			Kind:             kindOf(name),
			LogicalSizeCells: tileDoc.LogicalSizeCells,
			DrawWidth:        tileDoc.DrawSize[0],
			DrawHeight:       tileDoc.DrawSize[1],
			PathKind:         pathKindFromString(tileDoc.PathKind),
			Cost:             tileDoc.Cost,
			category:         category,
		}
		if def.LogicalSizeCells <= 0 {
			def.LogicalSizeCells = 1
		}
		for _, v := range tileDoc.Variations {
			variation := TileVariation{Name: v.Name}
			for _, a := range v.AnimSets {
				animSet := TileAnimSet{
					Name:              a.Name,
					FrameDurationSecs: a.FrameDurationSecs,
					Looping:           a.Looping,
				}
				for _, frameName := range a.Frames {
					animSet.Frames = append(animSet.Frames, TileSprite{
						FramePath: config.FramePath(layer.String(), category, name, v.Name, a.Name, frameName),
					})
				}
				variation.AnimSets = append(variation.AnimSets, animSet)
			}
			def.Variations = append(def.Variations, variation)
		}
		r.Register(def)
	}
	return nil
}

func pathKindFromString(s string) pathgraph.NodeKind {
	switch s {
	case "road":
		return pathgraph.NodeRoad
	case "water":
		return pathgraph.NodeWater
	case "building":
		return pathgraph.NodeBuilding
	case "vacant_lot":
		return pathgraph.NodeVacantLot
	default:
		return pathgraph.NodeDirt
	}
}

// Register inserts a def directly, for tests and in-code catalogs that
// don't go through tile_set.json.
func (r *Registry) Register(def *TileDef) {
	layerIdx := int(def.Layer)
	if _, ok := r.defs[layerIdx][def.category]; !ok {
		r.categoriesByLayer[layerIdx] = append(r.categoriesByLayer[layerIdx], def.category)
	}
	r.defs[layerIdx][def.category] = append(r.defs[layerIdx][def.category], def)
	r.byName[def.Name] = def
}

// ByName resolves a tile def by its unique name.
func (r *Registry) ByName(name string) (*TileDef, bool) {
	def, ok := r.byName[name]
	return def, ok
}

// Handle returns the compact serializable handle for a registered def.
func (r *Registry) Handle(def *TileDef) (SerializableTileDefHandle, bool) {
	layerIdx := int(def.Layer)
	catIdx := -1
	for i, c := range r.categoriesByLayer[layerIdx] {
		if c == def.category {
			catIdx = i
			break
		}
	}
	if catIdx == -1 {
		return SerializableTileDefHandle{}, false
	}
	for i, d := range r.defs[layerIdx][def.category] {
		if d == def {
			return SerializableTileDefHandle{Layer: uint16(layerIdx), Category: uint16(catIdx), Tile: uint16(i)}, true
		}
	}
	return SerializableTileDefHandle{}, false
}

// Resolve rebinds a SerializableTileDefHandle back to a live *TileDef,
// the post_load pass described in §6.
func (r *Registry) Resolve(h SerializableTileDefHandle) (*TileDef, error) {
	if int(h.Layer) >= len(r.categoriesByLayer) {
		return nil, fmt.Errorf("tiles: %w: layer index %d out of range", ErrMissingTileDef, h.Layer)
	}
	cats := r.categoriesByLayer[h.Layer]
	if int(h.Category) >= len(cats) {
		return nil, fmt.Errorf("tiles: %w: category index %d out of range", ErrMissingTileDef, h.Category)
	}
	defs := r.defs[h.Layer][cats[h.Category]]
	if int(h.Tile) >= len(defs) {
		return nil, fmt.Errorf("tiles: %w: tile index %d out of range", ErrMissingTileDef, h.Tile)
	}
	return defs[h.Tile], nil
}
