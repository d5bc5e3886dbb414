//go:build !no_gl
// +build !no_gl

package main

import (
	"github.com/go-vncview/vncview/eventloop"
	"github.com/go-vncview/vncview/vncgl"
)

const haveGL = true

func glWake() { vncgl.Wake() }

func openWindow(loop *eventloop.Loop, title string) (frontend, error) {
	w, err := vncgl.Open(loop, title)
	if err != nil {
		return nil, err
	}
	return w, nil
}
