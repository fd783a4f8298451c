package rest

import (
	"github.com/gofiber/fiber/v2"

	"github.com/croquete1/Fitness-Pro-sub001/pkg/utils"
	"github.com/croquete1/Fitness-Pro-sub001/usecase"
)

type Health struct {
	Service *usecase.HealthService
}

func InitRestHealth(app fiber.Router, service *usecase.HealthService) Health {
	rest := Health{Service: service}
	app.Get("/health", rest.SystemHealth)
	return rest
}

func (handler *Health) SystemHealth(c *fiber.Ctx) error {
	result := handler.Service.GetSystemHealth(c.UserContext())

	status := 200
	if result.Status == "unhealthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(utils.ResponseData{
		Status:  status,
		Code:    "SUCCESS",
		Message: "Success get system health",
		Results: result,
	})
}
