package cron

import (
	"context"
	"fmt"
	"time"

	"clinicbot/models"
	"clinicbot/services/reports"
	"clinicbot/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// adminUserID is the transport identity the daily report is delivered to.
// The clinic owner runs the same chat app as the patients.
const adminUserID = "admin"

// StartDailyReportCron generates the end-of-day financial report at 20:00 and
// pushes it to the owner. The returned cron can be stopped on shutdown.
func StartDailyReportCron(reportSvc *reports.Service, notifier Notifier) *cron.Cron {
	c := cron.New()
	_, err := c.AddFunc("0 20 * * *", func() {
		runDailyReport(reportSvc, notifier)
	})
	if err != nil {
		utils.GetLogger().Error("Failed to register daily report cron", zap.Error(err))
		return c
	}
	c.Start()
	utils.GetLogger().Info("Daily report cron started")
	return c
}

func runDailyReport(reportSvc *reports.Service, notifier Notifier) {
	logger := utils.GetLogger()
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	date := time.Now().Format("2006-01-02")
	report, err := reportSvc.DailyReport(ctx, date)
	if err != nil {
		logger.Error("Failed to build daily report", zap.String("date", date), zap.Error(err))
		return
	}

	path, err := reportSvc.WritePDF(report)
	if err != nil {
		logger.Error("Failed to write daily report PDF", zap.String("date", date), zap.Error(err))
		return
	}
	logger.Info("Daily report generated",
		zap.String("date", date),
		zap.String("path", path),
		zap.Float64("expected", report.TotalExpected),
		zap.Float64("collected", report.TotalCollected))

	if notifier == nil {
		return
	}
	render := models.RenderRequest{
		Text: fmt.Sprintf("📊 Informe del %s\nEsperado: $%.0f\nRecaudado: $%.0f",
			date, report.TotalExpected, report.TotalCollected),
		Document: path,
	}
	if err := notifier.Push(ctx, adminUserID, render); err != nil {
		logger.Warn("Failed to deliver daily report", zap.Error(err))
	}
}
