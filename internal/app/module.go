package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/platewise/platewise/internal/app/api/server"
	"github.com/platewise/platewise/internal/app/service/billing"
	eventhandler "github.com/platewise/platewise/internal/app/service/event_handler"
	eventlog "github.com/platewise/platewise/internal/app/service/event_log"
	"github.com/platewise/platewise/internal/app/service/plan"
	"github.com/platewise/platewise/internal/app/service/recipe"
	"github.com/platewise/platewise/internal/app/service/subscription"
	"github.com/platewise/platewise/internal/platform/db"
	"github.com/platewise/platewise/internal/platform/payment"
	"github.com/platewise/platewise/pkg/config"
	"github.com/platewise/platewise/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	payment.Module,
	server.Module,
	plan.Module,
	recipe.Module,
	subscription.Module,
	billing.Module,
	eventlog.Module,
	eventhandler.Module,
)
