package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
)

// TileSetDocument is the on-disk shape of a layer's tile_set.json (§6):
// categories -> tiles -> variations -> anim sets -> frames.
type TileSetDocument struct {
	Categories map[string]TileCategoryDoc `json:"categories"`
}

type TileCategoryDoc struct {
	Tiles map[string]TileDefDoc `json:"tiles"`
}

type TileDefDoc struct {
	LogicalSizeCells int                  `json:"logical_size_cells"`
	DrawSize         [2]int               `json:"draw_size"`
	PathKind         string               `json:"path_kind"`
	Cost             int                  `json:"cost"`
	Variations       []TileVariationDoc   `json:"variations"`
}

type TileVariationDoc struct {
	Name     string          `json:"name"`
	AnimSets []TileAnimSetDoc `json:"anim_sets"`
}

type TileAnimSetDoc struct {
	Name           string   `json:"name"`
	FrameDurationSecs float64 `json:"frame_duration_secs"`
	Looping        bool     `json:"looping"`
	Frames         []string `json:"frames"`
}

// LoadTileSet reads and parses a layer's tile_set.json.
func LoadTileSet(filename string) (*TileSetDocument, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read tile set file: %w", err)
	}
	var doc TileSetDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse tile set file %s: %w", filename, err)
	}
	return &doc, nil
}

// FramePath composes the on-disk frame path for a tile's sprite frame,
// collapsing the variation/anim-set segments when they are unnamed, per §6:
//
//	<layer>/<category>/<tile_name>[/<variation>][/<anim_set>]/<frame_name>.png
func FramePath(layer, category, tileName, variation, animSet, frameName string) string {
	segments := []string{layer, category, tileName}
	if variation != "" {
		segments = append(segments, variation)
	}
	if animSet != "" {
		segments = append(segments, animSet)
	}
	segments = append(segments, frameName+".png")

	p := segments[0]
	for _, s := range segments[1:] {
		p = path.Join(p, s)
	}
	return p
}
