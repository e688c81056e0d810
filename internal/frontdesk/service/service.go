package service

import (
	"fmt"

	flow "medsched/internal/frontdesk/core"
	"medsched/internal/frontdesk/flows"
	"medsched/pkg/client"
	"medsched/pkg/logger"
)

type FrontDeskService struct {
	client *client.Client
	Logger *logger.Logger
}

func NewFrontDeskService(client *client.Client, logger *logger.Logger) *FrontDeskService {
	return &FrontDeskService{
		client: client,
		Logger: logger,
	}
}

type FlowHandler func(ctx *flow.FlowContext) error

var flowRegistry = map[string]FlowHandler{
	"book_first_available": flows.BookFirstAvailable,
	"daily_roster":         flows.DailyRoster,
}

func (s *FrontDeskService) ExecuteFlow(flowName string, input map[string]any) (map[string]any, error) {
	handler, exists := flowRegistry[flowName]
	if !exists {
		return nil, fmt.Errorf("unknown flow: %s", flowName)
	}
	ctx := flow.NewFlowContext(input, s.client, s.Logger)
	err := handler(ctx)
	if err != nil {
		return nil, fmt.Errorf("flow execution failed: %v", err)
	}
	return ctx.Output, nil
}

func (s *FrontDeskService) GetAvailableFlows() []string {
	names := make([]string, 0, len(flowRegistry))
	for flowName := range flowRegistry {
		names = append(names, flowName)
	}
	return names
}
