//go:build !cgo

package gui

import (
	"errors"

	"github.com/charlie0129/calc/pkg/keypad"
)

// Calculator is what the window drives and displays.
type Calculator interface {
	keypad.Handler
	Display() string
}

// Run is unavailable without cgo.
func Run(Calculator, string) error {
	return errors.New("gui: this binary was built without cgo")
}
