package server

import (
	"github.com/google/wire"

	"github.com/urbanpulse/heat_radar/app/dashboard/internal/data"
	"github.com/urbanpulse/heat_radar/app/dashboard/internal/service"
	"github.com/urbanpulse/heat_radar/app/dashboard/internal/usecase"
)

// ProviderSet is the dashboard dependency-injection provider set.
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,
	NewAnalyticsDeps,

	// Data providers
	data.NewData,
	data.NewRunRepo,
	data.NewFeedbackRepo,

	// UseCase providers
	usecase.NewAnalyticsUseCase,
	usecase.NewFeedbackUseCase,

	// Service providers
	service.NewDashboardService,
)
