/*
Package cmd
File: gamestate.go
Description:
    Decodes the collaborator-owned slices of a version-4 game save
    (mapConfig, tiles, objects, routes) into the concrete TileSource/
    ObjectSource/RouteSource the engine's Initialize wants. The simulation
    core treats these as opaque json.RawMessage (spec §6); a host process
    like this CLI is exactly the kind of embedder responsible for giving
    them shape.
*/

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/everforgeworks/supplyline-core/internal/sim"
	"github.com/everforgeworks/supplyline-core/internal/worldmap"
)

type mapConfigDTO struct {
	MapSize    int     `json:"mapSize"`
	TileSize   float64 `json:"tileSize"`
	TileHeight float64 `json:"tileHeight"`
}

type tileDTO struct {
	GX            int     `json:"gx"`
	GZ            int     `json:"gz"`
	TileTypeIndex int     `json:"tileTypeIndex"`
	WorldX        float64 `json:"worldX"`
	WorldZ        float64 `json:"worldZ"`
	Height        float64 `json:"height"`
}

type objectDTO struct {
	ID   int     `json:"id"`
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
}

type waypointDTO struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

type routeDTO struct {
	Waypoints []waypointDTO `json:"waypoints"`
}

type tileCollaborator struct {
	cfg   mapConfigDTO
	tiles []worldmap.Tile
}

func (t tileCollaborator) MapConfig() (int, float64, float64) {
	return t.cfg.MapSize, t.cfg.TileSize, t.cfg.TileHeight
}
func (t tileCollaborator) Tiles() []worldmap.Tile { return t.tiles }

type objectCollaborator struct{ objects []sim.ObjectRecord }

func (o objectCollaborator) Objects() []sim.ObjectRecord { return o.objects }

type routeCollaborator struct{ curves []worldmap.Curve }

func (r routeCollaborator) Routes() []worldmap.Curve { return r.curves }

// decodedWorld bundles the three collaborators Initialize needs. It does
// not keep the raw bytes; callers that re-save reuse the GameSave fields.
type decodedWorld struct {
	Tiles   tileCollaborator
	Objects objectCollaborator
	Routes  routeCollaborator
}

func decodeWorld(mapConfigJSON, tilesJSON, objectsJSON, routesJSON []byte) (*decodedWorld, error) {
	var cfg mapConfigDTO
	if err := json.Unmarshal(mapConfigJSON, &cfg); err != nil {
		return nil, fmt.Errorf("decode mapConfig: %w", err)
	}

	var tileDTOs []tileDTO
	if err := json.Unmarshal(tilesJSON, &tileDTOs); err != nil {
		return nil, fmt.Errorf("decode tiles: %w", err)
	}
	tiles := make([]worldmap.Tile, len(tileDTOs))
	for i, td := range tileDTOs {
		tiles[i] = worldmap.Tile{
			GX: td.GX, GZ: td.GZ, TileTypeIndex: td.TileTypeIndex,
			WorldX: td.WorldX, WorldZ: td.WorldZ, Height: td.Height,
		}
	}

	var objDTOs []objectDTO
	if err := json.Unmarshal(objectsJSON, &objDTOs); err != nil {
		return nil, fmt.Errorf("decode objects: %w", err)
	}
	objects := make([]sim.ObjectRecord, len(objDTOs))
	for i, od := range objDTOs {
		objects[i] = sim.ObjectRecord{ID: od.ID, Type: od.Type, X: od.X, Y: od.Y, Z: od.Z}
	}

	var routeDTOs []routeDTO
	if err := json.Unmarshal(routesJSON, &routeDTOs); err != nil {
		return nil, fmt.Errorf("decode routes: %w", err)
	}
	curves := make([]worldmap.Curve, len(routeDTOs))
	for i, rd := range routeDTOs {
		wps := make([]worldmap.Waypoint, len(rd.Waypoints))
		for j, wp := range rd.Waypoints {
			wps[j] = worldmap.Waypoint{X: wp.X, Z: wp.Z}
		}
		curves[i] = worldmap.PolylineCurve{Waypoints: wps}
	}

	return &decodedWorld{
		Tiles:   tileCollaborator{cfg: cfg, tiles: tiles},
		Objects: objectCollaborator{objects: objects},
		Routes:  routeCollaborator{curves: curves},
	}, nil
}
