package handlers

import (
	subsvc "github.com/platewise/platewise/internal/app/service/subscription"
	"github.com/platewise/platewise/pkg/response"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

// RespListSubscriptions wraps ListSubscriptionsResponse in the standard envelope.
type RespListSubscriptions struct {
	Code    response.APIResponseCode         `json:"code"`
	Message string                           `json:"message"`
	Data    subsvc.ListSubscriptionsResponse `json:"data"`
}

// RespSubscriptionStatistics wraps StatisticsResponse in the standard envelope.
type RespSubscriptionStatistics struct {
	Code    response.APIResponseCode  `json:"code"`
	Message string                    `json:"message"`
	Data    subsvc.StatisticsResponse `json:"data"`
}
