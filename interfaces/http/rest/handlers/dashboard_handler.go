package handlers

import (
	"net/http"

	"storeadmin/application/analytics"
	"storeadmin/application/queries"
	querybus "storeadmin/application/queries/bus"
	pkgerrors "storeadmin/pkg/errors"
)

// DashboardHandler serves the admin analytics reports
type DashboardHandler struct {
	queryBus *querybus.QueryBus
	errs     *pkgerrors.ErrorHandler
}

func NewDashboardHandler(queryBus *querybus.QueryBus, errs *pkgerrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{queryBus: queryBus, errs: errs}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	respondQuery[*analytics.DashboardStats](w, r, h.queryBus, h.errs, queries.GetDashboardStatsQuery{})
}

func (h *DashboardHandler) Pie(w http.ResponseWriter, r *http.Request) {
	respondQuery[*analytics.PieCharts](w, r, h.queryBus, h.errs, queries.GetPieChartsQuery{})
}

func (h *DashboardHandler) Bar(w http.ResponseWriter, r *http.Request) {
	respondQuery[*analytics.BarCharts](w, r, h.queryBus, h.errs, queries.GetBarChartsQuery{})
}

func (h *DashboardHandler) Line(w http.ResponseWriter, r *http.Request) {
	respondQuery[*analytics.LineCharts](w, r, h.queryBus, h.errs, queries.GetLineChartsQuery{})
}
