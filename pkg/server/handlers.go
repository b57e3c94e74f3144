package server

import (
	"Ninety/handler"
)

type Handlers struct {
	Ops     *handler.Ops
	Webhook *handler.Webhook
	Token   *handler.Token
	Machine *handler.Machine
	Point   *handler.Point
	Request *handler.Request
	Admin   *handler.Admin
}
