package muxhandlers

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/vitalvas/flute/mux"
)

func newRouter() *mux.Router {
	return mux.NewRouter().Logger(log.New(io.Discard))
}
