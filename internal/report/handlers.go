package report

import (
	"errors"

	"github.com/katie878/motion-tracking/internal/store"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, st *store.Store) {
	r.Get("/summary", func(c *fiber.Ctx) error {
		return c.JSON(Build(st.Groups()))
	})

	r.Get("/chart", func(c *fiber.Ctx) error {
		metric := c.Query("metric", "average_speed")
		png, err := Chart(Build(st.Groups()), metric)
		if errors.Is(err, ErrUnknownMetric) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if errors.Is(err, ErrNoData) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		c.Set("Content-Type", "image/png")
		return c.Send(png)
	})
}
