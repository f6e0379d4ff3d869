package routes

import (
	"fixflow_crm/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathEstimates = "/estimates"
	PathJobs      = "/jobs"
	PathInvoices  = "/invoices"
)

func addCRMRoutes(rg *gin.RouterGroup, estimateHandler *handlers.EstimateHandler, jobHandler *handlers.JobHandler, invoiceHandler *handlers.InvoiceHandler) {
	estimates := rg.Group(PathEstimates)
	{
		estimates.POST("", estimateHandler.CreateEstimate)
		estimates.GET("", estimateHandler.ListEstimates)
		estimates.GET("/:id", estimateHandler.GetEstimate)
		estimates.PUT("/:id", estimateHandler.UpdateEstimateDetails)
		// Status transitions feed the lifecycle engine (accepted => job).
		estimates.PATCH("/:id/status", estimateHandler.UpdateEstimateStatus)
	}

	jobs := rg.Group(PathJobs)
	{
		jobs.POST("", jobHandler.CreateJob)
		jobs.GET("", jobHandler.ListJobs)
		jobs.GET("/:id", jobHandler.GetJob)
		jobs.PATCH("/:id/technician", jobHandler.AssignTechnician)
		jobs.PATCH("/:id/schedule", jobHandler.ScheduleJob)
		// Status transitions feed the lifecycle engine (completed => invoice).
		jobs.PATCH("/:id/status", jobHandler.UpdateJobStatus)
	}

	invoices := rg.Group(PathInvoices)
	{
		invoices.GET("", invoiceHandler.ListInvoices)
		invoices.GET("/:id", invoiceHandler.GetInvoice)
		invoices.PATCH("/:id/send", invoiceHandler.SendInvoice)
		invoices.PATCH("/:id/void", invoiceHandler.VoidInvoice)
		invoices.POST("/:id/payments", invoiceHandler.RecordPayment)
	}
}
