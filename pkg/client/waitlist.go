package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"medsched/pkg/model"
)

type WaitlistClient struct {
	httpClient *HttpClient
}

func NewWaitlistClient(baseUrl string) *WaitlistClient {
	return &WaitlistClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *WaitlistClient) Join(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/waitlist", body)
}

func (c *WaitlistClient) Leave(id string) (*Response, error) {
	path := "/api/v1/waitlist/id/" + url.PathEscape(id)
	return c.httpClient.DELETE(path)
}

func (c *WaitlistClient) GetQueue(doctorID string, desiredDate string) (*Response, error) {
	q := url.Values{}
	q.Set("doctor_id", doctorID)
	q.Set("desired_date", desiredDate)

	path := "/api/v1/waitlist?" + q.Encode()
	return c.httpClient.GET(path)
}

func (c *WaitlistClient) GetByPatient(patientID string, limit int, offset int64) (*Response, error) {
	path := fmt.Sprintf("/api/v1/waitlist/patient/%s?limit=%d&offset=%d", url.PathEscape(patientID), limit, offset)
	return c.httpClient.GET(path)
}

func (c *WaitlistClient) DecodeEntries(resp *Response) ([]*model.WaitlistEntry, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode waitlist wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var entries []*model.WaitlistEntry
	if err := json.Unmarshal(wrapper.Data, &entries); err != nil {
		return nil, fmt.Errorf("could not decode waitlist entries:\n%+v\n%s", resp.ToString(), err)
	}

	return entries, nil
}
