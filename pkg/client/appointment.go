package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"medsched/pkg/model"
)

type AppointmentClient struct {
	httpClient *HttpClient
}

func NewAppointmentClient(baseUrl string) *AppointmentClient {
	return &AppointmentClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *AppointmentClient) Create(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/appointments", body)
}

func (c *AppointmentClient) GetAll(limit int, offset int64) (*Response, error) {
	path := fmt.Sprintf("/api/v1/appointments?limit=%d&offset=%d", limit, offset)
	return c.httpClient.GET(path)
}

func (c *AppointmentClient) Search(doctorID string, startsAt string, endsAt string, limit int, offset int64) (*Response, error) {
	q := url.Values{}
	q.Set("doctor_id", doctorID)

	if startsAt != "" {
		q.Set("starts_at", startsAt)
	}
	if endsAt != "" {
		q.Set("ends_at", endsAt)
	}

	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))

	path := "/api/v1/appointments/search?" + q.Encode()
	return c.httpClient.GET(path)
}

func (c *AppointmentClient) GetByID(id string) (*Response, error) {
	path := "/api/v1/appointments/id/" + url.PathEscape(id)
	return c.httpClient.GET(path)
}

func (c *AppointmentClient) GetSlots(doctorID string, day string) (*Response, error) {
	path := fmt.Sprintf("/api/v1/doctors/%s/slots?day=%s", url.PathEscape(doctorID), url.QueryEscape(day))
	return c.httpClient.GET(path)
}

func (c *AppointmentClient) Approve(id string) (*Response, error) {
	path := "/api/v1/appointments/id/" + url.PathEscape(id) + "/approve"
	return c.httpClient.PATCH(path, nil)
}

func (c *AppointmentClient) Reject(id string, reason string) (*Response, error) {
	path := "/api/v1/appointments/id/" + url.PathEscape(id) + "/reject"
	return c.httpClient.PATCH(path, map[string]string{"reason": reason})
}

func (c *AppointmentClient) Cancel(id string) (*Response, error) {
	path := "/api/v1/appointments/id/" + url.PathEscape(id) + "/cancel"
	return c.httpClient.PATCH(path, nil)
}

func (c *AppointmentClient) Reschedule(id string, body any) (*Response, error) {
	path := "/api/v1/appointments/id/" + url.PathEscape(id) + "/reschedule"
	return c.httpClient.PATCH(path, body)
}

func (c *AppointmentClient) DecodeAppointment(resp *Response) (*model.Appointment, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode appointment wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var appt model.Appointment
	if err := json.Unmarshal(wrapper.Data, &appt); err != nil {
		return nil, fmt.Errorf("could not decode appointment json:\n%+v\n%s", resp.ToString(), err)
	}

	return &appt, nil
}

func (c *AppointmentClient) DecodeAppointments(resp *Response) ([]*model.Appointment, *Metadata, error) {
	var wrapper struct {
		Data       json.RawMessage `json:"data"`
		TotalCount int64           `json:"total_count"`
		Limit      int             `json:"limit"`
		Offset     int64           `json:"offset"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode paginated resp:\n%+v\n%s", resp.ToString(), err)
	}

	var appointments []*model.Appointment
	if err := json.Unmarshal(wrapper.Data, &appointments); err != nil {
		return nil, nil, fmt.Errorf("could not decode appointment list:\n%+v\n%s", resp.ToString(), err)
	}

	metadata := &Metadata{
		TotalCount: wrapper.TotalCount,
		Limit:      wrapper.Limit,
		Offset:     wrapper.Offset,
	}

	return appointments, metadata, nil
}

func (c *AppointmentClient) DecodeSlots(resp *Response) ([]model.Slot, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode slots wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var slots []model.Slot
	if err := json.Unmarshal(wrapper.Data, &slots); err != nil {
		return nil, fmt.Errorf("could not decode slot list:\n%+v\n%s", resp.ToString(), err)
	}

	return slots, nil
}
