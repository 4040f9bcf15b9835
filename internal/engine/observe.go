package engine

import (
	"encoding/binary"
	"math"

	"github.com/vovakirdan/pixelgym/internal/render"
)

// Observation bundles the borrowed output buffers for one step/observe
// call. The engine writes into them and never retains them; the caller
// guarantees they stay valid and correctly sized for the duration of
// the call. Any nil buffer or pointer is skipped.
type Observation struct {
	// RGB receives the frame: width*height*3 bytes, row-major,
	// red-green-blue byte order, no padding.
	RGB []byte

	// Info is the flat scalar buffer; Offsets maps field names to byte
	// offsets inside it. When Info is non-nil every required field
	// name must be registered.
	Info    []byte
	Offsets map[string]int

	// Reward and First are dedicated single-value outputs independent
	// of the info mapping.
	Reward *float32
	First  *byte
}

// Info field names written every observation.
const (
	InfoPrevLevelSeed     = "prev_level_seed"
	InfoPrevLevelComplete = "prev_level_complete"
	InfoLevelSeed         = "level_seed"
	InfoAgentX            = "agent_x"
	InfoCollisionX        = "collision_x"
	InfoCollisionY        = "collision_y"
	InfoCollisionType     = "collision_type"
)

// NewStandardObservation allocates buffers with the canonical info
// layout for the given frame resolution. In-process consumers use this;
// training integrations register their own buffers and offsets.
func NewStandardObservation(resW, resH int) *Observation {
	return &Observation{
		RGB:  make([]byte, resW*resH*3),
		Info: make([]byte, 25),
		Offsets: map[string]int{
			InfoPrevLevelSeed:     0,
			InfoPrevLevelComplete: 4,
			InfoLevelSeed:         5,
			InfoAgentX:            9,
			InfoCollisionX:        13,
			InfoCollisionY:        17,
			InfoCollisionType:     21,
		},
		Reward: new(float32),
		First:  new(byte),
	}
}

// Observe projects the current step outcome and episode state into the
// caller's buffers. It runs unconditionally at the end of every step,
// including steps that triggered a reset.
func (e *Engine) Observe(obs *Observation) {
	if obs == nil {
		return
	}

	if obs.RGB != nil && e.renderer != nil {
		e.renderFrame()
		bgra32ToRGB888(obs.RGB, e.renderBuf, e.resW, e.resH)
	}

	if obs.Reward != nil {
		*obs.Reward = e.StepData.Reward
	}
	if obs.First != nil {
		*obs.First = boolByte(e.StepData.Done)
	}

	if obs.Info != nil {
		putInfoInt32(obs, InfoPrevLevelSeed, e.PrevLevelSeed)
		putInfoUint8(obs, InfoPrevLevelComplete, boolByte(e.StepData.LevelComplete))
		putInfoInt32(obs, InfoLevelSeed, e.CurrentLevelSeed)
		putInfoFloat32(obs, InfoAgentX, e.StepData.AgentX)
		putInfoFloat32(obs, InfoCollisionX, e.StepData.CollisionX)
		putInfoFloat32(obs, InfoCollisionY, e.StepData.CollisionY)
		putInfoInt32(obs, InfoCollisionType, e.StepData.CollisionType)
	}
}

// renderFrame rasterizes the world into the owned BGRA staging buffer.
func (e *Engine) renderFrame() {
	w := e.World
	sprites := make([]render.Sprite, 0, len(w.Entities)+1)
	for _, ent := range w.Entities {
		sprites = append(sprites, render.Sprite{
			X: ent.X, Y: ent.Y, RX: ent.RX, RY: ent.RY,
			Type: ent.Type, Theme: ent.ImageTheme,
		})
	}
	sprites = append(sprites, render.Sprite{
		X: w.Agent.X, Y: w.Agent.Y, RX: w.Agent.RX, RY: w.Agent.RY,
		Type: w.Agent.Type, Theme: w.Agent.ImageTheme,
	})

	view := render.View{CenterX: w.Width / 2, CenterY: w.Height / 2, Span: w.Width}
	if e.Options.CenterAgent {
		view = render.View{CenterX: w.ViewCenterX, CenterY: w.ViewCenterY, Span: w.Visibility}
	}

	bgTheme := w.BackgroundTheme
	if !e.Options.UseBackgrounds {
		bgTheme = 0
	}
	e.renderer.Draw(e.renderBuf, e.resW, e.resH, view, bgTheme, sprites)
}

// bgra32ToRGB888 converts a 4-byte-per-pixel BGRA frame to a packed
// 3-byte RGB frame by straight byte reordering, row by row.
func bgra32ToRGB888(dst, src []byte, w, h int) {
	for y := 0; y < h; y++ {
		s := y * w * 4
		d := y * w * 3
		for x := 0; x < w; x++ {
			dst[d] = src[s+2]
			dst[d+1] = src[s+1]
			dst[d+2] = src[s]
			s += 4
			d += 3
		}
	}
}

func infoOffset(obs *Observation, name string) int {
	off, ok := obs.Offsets[name]
	if !ok {
		fatalf("info field %q has no registered offset", name)
	}
	return off
}

func putInfoInt32(obs *Observation, name string, v int32) {
	binary.LittleEndian.PutUint32(obs.Info[infoOffset(obs, name):], uint32(v))
}

func putInfoUint8(obs *Observation, name string, v byte) {
	obs.Info[infoOffset(obs, name)] = v
}

func putInfoFloat32(obs *Observation, name string, v float32) {
	binary.LittleEndian.PutUint32(obs.Info[infoOffset(obs, name):], math.Float32bits(v))
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
