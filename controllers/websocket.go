package controllers

import (
	fiberws "github.com/gofiber/websocket/v2"

	ws "ossmanager_go/services/websocket"
)

// CheckInFeedHandler upgrades the connection and attaches it to the
// live check-in hub.
func CheckInFeedHandler(hub *ws.Hub) func(*fiberws.Conn) {
	return func(c *fiberws.Conn) {
		hub.ServeFiberConn(c)
	}
}
