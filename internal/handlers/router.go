package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/services"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/utils"
)

type HandlerManager struct {
	flowHandler   *FlowHandler
	runHandler    *RunHandler
	reportHandler *ReportHandler
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		flowHandler:   NewFlowHandler(serviceManager.Flow(), logger),
		runHandler:    NewRunHandler(serviceManager.Run(), logger),
		reportHandler: NewReportHandler(serviceManager.Analytics(), serviceManager.Export(), logger),
	}
}

// SetupRoutes sets up all API routes. auth guards the authoring and reporting routes;
// respondent routes stay public.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")
	{
		assessments := v1.Group("/assessments")

		// Authoring and reporting
		owned := assessments.Group("", auth)
		{
			owned.POST("", hm.flowHandler.CreateAssessment)
			owned.GET("", hm.flowHandler.ListAssessments)
			owned.GET("/:id", hm.flowHandler.GetAssessment)
			owned.GET("/:id/flow", hm.flowHandler.GetFlow)
			owned.PUT("/:id/flow", hm.flowHandler.SaveFlow)
			owned.POST("/:id/flow/validate", hm.flowHandler.ValidateFlow)
			owned.GET("/:id/flow/nodes/:node_id/ancestors", hm.flowHandler.GetAncestors)
			owned.POST("/:id/publish", hm.flowHandler.PublishAssessment)
			owned.POST("/:id/archive", hm.flowHandler.ArchiveAssessment)

			owned.GET("/:id/analytics", hm.reportHandler.GetAnalytics)
			owned.GET("/:id/responses/export", hm.reportHandler.ExportResponses)
			owned.GET("/:id/responses/:response_id", hm.reportHandler.GetResponse)
		}

		// Respondents, no authentication
		assessments.POST("/:id/runs", hm.runHandler.StartRun)

		runs := v1.Group("/runs")
		{
			runs.GET("/:session_id", hm.runHandler.GetRun)
			runs.POST("/:session_id/answers", hm.runHandler.SubmitAnswer)
			runs.POST("/:session_id/back", hm.runHandler.GoBack)
		}
	}
}
