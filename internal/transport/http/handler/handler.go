// Package handler binds the services onto gin routes through ez actions.
package handler

import (
	"github.com/gin-gonic/gin"

	"salon-booking/internal/domain"
	"salon-booking/internal/service"
	"salon-booking/internal/transport/http/middleware"
)

func actorOf(c *gin.Context) service.Actor {
	return service.Actor{
		ID:   c.GetString(middleware.KeyUserID),
		Role: domain.Role(c.GetString(middleware.KeyRole)),
	}
}

// Empty is the input of actions without body or query.
type Empty struct{}
