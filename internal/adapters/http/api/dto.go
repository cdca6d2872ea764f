package api

import (
	"time"

	"cogentcore.org/core/math32"
	"github.com/okian/evergreen/internal/adapters/repository"
	"github.com/okian/evergreen/internal/domain/model"
	"github.com/okian/evergreen/internal/domain/view"
)

// Wire shapes. Vectors are [x, y, z] and quaternions [x, y, z, w].

type signalDTO struct {
	Detected bool       `json:"detected"`
	Open     bool       `json:"open"`
	Position [2]float32 `json:"position"`
}

type viewDTO struct {
	Azimuth  float32    `json:"azimuth"`
	Polar    float32    `json:"polar"`
	Distance float32    `json:"distance"`
	Camera   [3]float32 `json:"camera"`
}

type elementDTO struct {
	ID                int        `json:"id"`
	Kind              model.Kind `json:"kind"`
	Color             string     `json:"color,omitempty"`
	Scale             float32    `json:"scale"`
	PhotoRef          string     `json:"photo,omitempty"`
	Fallback          bool       `json:"fallback,omitempty"`
	Position          [3]float32 `json:"position"`
	Rotation          [4]float32 `json:"rotation"`
	AssembledPosition [3]float32 `json:"assembled_position"`
	UnleashedPosition [3]float32 `json:"unleashed_position"`
}

type sceneResponse struct {
	Version     uint64       `json:"version"`
	Seed        int64        `json:"seed"`
	PublishedAt time.Time    `json:"published_at"`
	Mode        model.Mode   `json:"mode"`
	Signal      signalDTO    `json:"signal"`
	View        viewDTO      `json:"view"`
	Count       int          `json:"count"`
	Elements    []elementDTO `json:"elements,omitempty"`
}

func vec3(v math32.Vector3) [3]float32 { return [3]float32{v.X, v.Y, v.Z} }

func quat(q math32.Quat) [4]float32 { return [4]float32{q.X, q.Y, q.Z, q.W} }

func toElementDTO(e *model.Element) elementDTO {
	dto := elementDTO{
		ID:                e.ID,
		Kind:              e.Kind,
		Scale:             e.Scale,
		PhotoRef:          e.PhotoRef,
		Fallback:          e.Fallback,
		Position:          vec3(e.LivePosition),
		Rotation:          quat(e.LiveRotation),
		AssembledPosition: vec3(e.AssembledPosition),
		UnleashedPosition: vec3(e.UnleashedPosition),
	}
	if e.Color != model.ColorNone {
		dto.Color = e.Color.String()
	}
	return dto
}

func toSceneResponse(snap *repository.Snapshot, withElements bool) sceneResponse {
	f := snap.Frame
	resp := sceneResponse{
		Version:     snap.Version,
		Seed:        snap.Seed,
		PublishedAt: snap.PublishedAt,
		Mode:        f.Mode,
		Signal: signalDTO{
			Detected: f.Signal.Detected,
			Open:     f.Signal.Open,
			Position: [2]float32{f.Signal.Position.X, f.Signal.Position.Y},
		},
		View: viewDTO{
			Azimuth:  f.View.Azimuth,
			Polar:    f.View.Polar,
			Distance: f.View.Distance,
			Camera:   vec3(view.Position(f.View)),
		},
		Count: len(f.Elements),
	}
	if withElements {
		resp.Elements = make([]elementDTO, len(f.Elements))
		for i := range f.Elements {
			resp.Elements[i] = toElementDTO(&f.Elements[i])
		}
	}
	return resp
}
