package core

import (
	"fmt"
	"time"

	"medsched/pkg/client"
	"medsched/pkg/logger"
)

// FlowContext carries state through the steps of a flow. Input holds the
// raw request payload, Process holds intermediate values steps hand to each
// other, and Output is what the caller gets back.
type FlowContext struct {
	Input   map[string]any
	Process map[string]any
	Output  map[string]any
	Client  *client.Client
	Log     *logger.Logger
}

func NewFlowContext(input map[string]any, client *client.Client, log *logger.Logger) *FlowContext {
	return &FlowContext{
		Input:   input,
		Process: make(map[string]any),
		Output:  make(map[string]any),
		Client:  client,
		Log:     log,
	}
}

// ExtractString returns the named input as a string, or "" when absent or
// of another type. Pair with IsMissing when the param is required.
func (c *FlowContext) ExtractString(key string) string {
	raw, ok := c.Input[key]
	if !ok {
		return ""
	}
	str, _ := raw.(string)
	return str
}

func (c *FlowContext) ExtractTime(key string) (time.Time, error) {
	str := c.ExtractString(key)
	if IsMissing(str) {
		return time.Time{}, MissingParamErr(key)
	}
	t, err := time.Parse(time.RFC3339, str)
	if err != nil {
		return time.Time{}, fmt.Errorf("param [%v] is not a valid RFC3339 timestamp: %v", key, err)
	}
	return t, nil
}
