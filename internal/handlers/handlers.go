package handlers

import (
	"github.com/hannaddev/journal-tracker/internal/services"
)

type Handler struct {
	trackerSrv  *services.Tracker
	statsSrv    *services.Stats
	logsSrv     *services.Logs
	transferSrv *services.Transfer
}

func New(trackerSrv *services.Tracker, statsSrv *services.Stats, logsSrv *services.Logs, transferSrv *services.Transfer) *Handler {
	return &Handler{
		trackerSrv:  trackerSrv,
		statsSrv:    statsSrv,
		logsSrv:     logsSrv,
		transferSrv: transferSrv,
	}
}
