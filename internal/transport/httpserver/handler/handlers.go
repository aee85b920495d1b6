package handler

import (
	commonhandler "family-hub-go/internal/transport/httpserver/handler/common"
	familyhandler "family-hub-go/internal/transport/httpserver/handler/family"
	financehandler "family-hub-go/internal/transport/httpserver/handler/finance"
	taskshandler "family-hub-go/internal/transport/httpserver/handler/tasks"
)

type Handlers struct {
	Common  *commonhandler.Handlers
	Family  *familyhandler.Handlers
	Finance *financehandler.Handlers
	Tasks   *taskshandler.Handlers
}

func New(common *commonhandler.Handlers, family *familyhandler.Handlers, finance *financehandler.Handlers, tasks *taskshandler.Handlers) *Handlers {
	return &Handlers{
		Common:  common,
		Family:  family,
		Finance: finance,
		Tasks:   tasks,
	}
}
