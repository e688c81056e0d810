package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"medsched/pkg/model"
)

type ScheduleClient struct {
	httpClient *HttpClient
}

func NewScheduleClient(baseUrl string) *ScheduleClient {
	return &ScheduleClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *ScheduleClient) Create(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/doctor-schedules", body)
}

func (c *ScheduleClient) GetAll(limit int, offset int64) (*Response, error) {
	path := fmt.Sprintf("/api/v1/doctor-schedules?limit=%d&offset=%d", limit, offset)
	return c.httpClient.GET(path)
}

func (c *ScheduleClient) GetByID(id string) (*Response, error) {
	path := "/api/v1/doctor-schedules/id/" + url.PathEscape(id)
	return c.httpClient.GET(path)
}

func (c *ScheduleClient) GetByDoctor(doctorID string) (*Response, error) {
	path := "/api/v1/doctor-schedules/doctor/" + url.PathEscape(doctorID)
	return c.httpClient.GET(path)
}

func (c *ScheduleClient) Update(id string, body any) (*Response, error) {
	path := "/api/v1/doctor-schedules/id/" + url.PathEscape(id)
	return c.httpClient.PATCH(path, body)
}

func (c *ScheduleClient) Delete(id string) (*Response, error) {
	path := "/api/v1/doctor-schedules/id/" + url.PathEscape(id)
	return c.httpClient.DELETE(path)
}

func (c *ScheduleClient) DecodeSchedule(resp *Response) (*model.DoctorSchedule, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode schedule wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var sched model.DoctorSchedule
	if err := json.Unmarshal(wrapper.Data, &sched); err != nil {
		return nil, fmt.Errorf("could not decode schedule json:\n%+v\n%s", resp.ToString(), err)
	}

	return &sched, nil
}

func (c *ScheduleClient) DecodeSchedules(resp *Response) ([]*model.DoctorSchedule, *Metadata, error) {
	var wrapper struct {
		Data       json.RawMessage `json:"data"`
		TotalCount int64           `json:"total_count"`
		Limit      int             `json:"limit"`
		Offset     int64           `json:"offset"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode paginated resp:\n%+v\n%s", resp.ToString(), err)
	}

	var schedules []*model.DoctorSchedule
	if err := json.Unmarshal(wrapper.Data, &schedules); err != nil {
		return nil, nil, fmt.Errorf("could not decode schedule list:\n%+v\n%s", resp.ToString(), err)
	}

	metadata := &Metadata{
		TotalCount: wrapper.TotalCount,
		Limit:      wrapper.Limit,
		Offset:     wrapper.Offset,
	}

	return schedules, metadata, nil
}
