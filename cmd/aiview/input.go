package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const stickDeadzone = 0.25

// Input is a per-frame snapshot of keyboard, mouse and gamepad state.
type Input struct {
	MoveX, MoveZ float64
	Aim          bool

	CursorX, CursorY float64

	StrikePressed   bool
	CapturePressed  bool
	ArmPressed      bool
	DetonatePressed bool
	ReleasePressed  bool
	PausePressed    bool
	StepPressed     bool
	QuitPressed     bool
}

func NewInput() *Input {
	return &Input{}
}

func (in *Input) Update() {
	moveX, moveZ := 0.0, 0.0
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		moveX--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		moveX++
	}
	// Screen y follows world Z.
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		moveZ--
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		moveZ++
	}

	aim := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) || ebiten.IsKeyPressed(ebiten.KeyShift)
	strike := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) || inpututil.IsKeyJustPressed(ebiten.KeySpace)

	for _, id := range ebiten.AppendGamepadIDs(nil) {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Hypot(lx, ly) > stickDeadzone {
			moveX = lx
			moveZ = ly
		}
		if ebiten.StandardGamepadButtonValue(id, ebiten.StandardGamepadButtonFrontBottomLeft) > 0.5 {
			aim = true
		}
		if inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom) {
			strike = true
		}
	}

	cx, cy := ebiten.CursorPosition()

	in.MoveX = moveX
	in.MoveZ = moveZ
	in.Aim = aim
	in.CursorX = float64(cx)
	in.CursorY = float64(cy)
	in.StrikePressed = strike
	in.CapturePressed = inpututil.IsKeyJustPressed(ebiten.KeyC)
	in.ArmPressed = inpututil.IsKeyJustPressed(ebiten.KeyE)
	in.DetonatePressed = inpututil.IsKeyJustPressed(ebiten.KeyX)
	in.ReleasePressed = inpututil.IsKeyJustPressed(ebiten.KeyR)
	in.PausePressed = inpututil.IsKeyJustPressed(ebiten.KeyP)
	in.StepPressed = inpututil.IsKeyJustPressed(ebiten.KeyPeriod)
	in.QuitPressed = inpututil.IsKeyJustPressed(ebiten.KeyF12) || inpututil.IsKeyJustPressed(ebiten.KeyEscape)
}
