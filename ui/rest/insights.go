package rest

import (
	"github.com/gofiber/fiber/v2"

	"github.com/croquete1/Fitness-Pro-sub001/domains/insights"
	"github.com/croquete1/Fitness-Pro-sub001/pkg/utils"
	"github.com/croquete1/Fitness-Pro-sub001/usecase"
)

type Insights struct {
	Service *usecase.InsightsService
}

func InitRestInsights(app fiber.Router, service *usecase.InsightsService) Insights {
	rest := Insights{Service: service}
	app.Get("/insights/messaging", rest.MessagingDashboard)
	return rest
}

func (handler *Insights) MessagingDashboard(c *fiber.Ctx) error {
	viewerID := c.Get("X-Viewer-ID")
	if viewerID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "X-Viewer-ID header is required")
	}

	dashboard, err := handler.Service.GetMessagingDashboard(c.UserContext(), viewerID, insights.DashboardOptions{
		RangeDays: c.QueryInt("range", 0),
	})
	if err != nil {
		return err
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success get messaging dashboard",
		Results: dashboard,
	})
}
