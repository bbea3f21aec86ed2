package system

import (
	"go-taskhub/internal/common/api"
	"go-taskhub/internal/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsApi struct {
	Metrics *metrics.Metrics
}

func NewMetricsApi(m *metrics.Metrics) api.Route {
	return &MetricsApi{Metrics: m}
}

func (h *MetricsApi) Setup(app *fiber.App) {
	handler := promhttp.HandlerFor(h.Metrics.Registry, promhttp.HandlerOpts{})
	app.Get("/metrics", adaptor.HTTPHandler(handler))
}
