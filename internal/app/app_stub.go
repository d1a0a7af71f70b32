//go:build !ebiten

package app

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"mad-traffic/internal/core"
)

// Game is a placeholder that satisfies the API expected by the GUI build.
type Game struct{}

// Option customizes a Game.
type Option func(*Game)

// WithHUD is a no-op in the headless build.
func WithHUD(int) Option { return func(*Game) {} }

// WithSavePath is a no-op in the headless build.
func WithSavePath(string) Option { return func(*Game) {} }

// WithLogger is a no-op in the headless build.
func WithLogger(*logrus.Entry) Option { return func(*Game) {} }

// New panics to indicate that the ebiten build tag is required for GUI support.
func New(core.Sim, int, int64, ...Option) *Game {
	panic("app.New requires building with the 'ebiten' tag")
}

// Reset is a no-op placeholder.
func (g *Game) Reset(int64) {}

// Update always reports that the GUI build tag is missing.
func (g *Game) Update() error {
	return fmt.Errorf("app.Game.Update requires building with the 'ebiten' tag")
}

// Draw is a no-op placeholder to satisfy the interface shape.
func (g *Game) Draw(any) {}

// Layout returns zeros in the headless build.
func (g *Game) Layout(int, int) (int, int) { return 0, 0 }

// ScreenSize returns zeros in the headless build.
func (g *Game) ScreenSize() (int, int) { return 0, 0 }
