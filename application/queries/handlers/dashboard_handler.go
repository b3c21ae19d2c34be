package handlers

import (
	"context"

	"storeadmin/application/analytics"
	"storeadmin/application/queries"
)

// DashboardHandler exposes the analytics reports on the query bus
type DashboardHandler struct {
	aggregator *analytics.Aggregator
}

func NewDashboardHandler(aggregator *analytics.Aggregator) *DashboardHandler {
	return &DashboardHandler{aggregator: aggregator}
}

func (h *DashboardHandler) Stats(ctx context.Context, _ queries.GetDashboardStatsQuery) (*analytics.DashboardStats, error) {
	return h.aggregator.Dashboard(ctx)
}

func (h *DashboardHandler) Pie(ctx context.Context, _ queries.GetPieChartsQuery) (*analytics.PieCharts, error) {
	return h.aggregator.Pie(ctx)
}

func (h *DashboardHandler) Bar(ctx context.Context, _ queries.GetBarChartsQuery) (*analytics.BarCharts, error) {
	return h.aggregator.Bar(ctx)
}

func (h *DashboardHandler) Line(ctx context.Context, _ queries.GetLineChartsQuery) (*analytics.LineCharts, error) {
	return h.aggregator.Line(ctx)
}
