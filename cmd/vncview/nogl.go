//go:build no_gl
// +build no_gl

package main

import (
	"github.com/juju/errors"

	"github.com/go-vncview/vncview/eventloop"
)

const haveGL = false

var glWake func()

func openWindow(loop *eventloop.Loop, title string) (frontend, error) {
	return nil, errors.New("built without OpenGL support")
}
