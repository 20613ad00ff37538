package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/ECOM-SR/ECOM-REPORTS/docs"
	"github.com/ECOM-SR/ECOM-REPORTS/internal/api/handler"
	"github.com/ECOM-SR/ECOM-REPORTS/pkg/router"
)

func RegisterRoutes(r *router.Router, h *handler.ReportHandler) {
	r.POST("/api/v1/reports", h.CreateReport)
	r.GET("/api/v1/reports", h.ListReports)
	// More specific routes first
	r.GET("/api/v1/reports/*/result", h.GetReportResult)
	r.GET("/api/v1/reports/*/errors", h.GetReportErrors)
	r.GET("/api/v1/reports/*/stages", h.GetReportStages)
	r.GET("/api/v1/reports/*/records", h.GetReportRecords)
	r.GET("/api/v1/reports/*/export.csv", h.DownloadExport)
	r.GET("/api/v1/reports/*/export.json", h.DownloadExport)
	r.GET("/api/v1/reports/*/export.xlsx", h.DownloadExport)
	// Generic report route last
	r.GET("/api/v1/reports/*", h.GetReport)

	r.GET("/api/v1/report-types", h.ListReportTypes)
	r.GET("/api/v1/healthz", h.Health)
	r.GET("/healthz", h.Health)

	r.Handle("/swagger/", httpSwagger.WrapHandler)
}
