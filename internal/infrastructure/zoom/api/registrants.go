// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"fmt"
	"net/http"
)

// AddRegistrantRequest registers one person for a meeting
type AddRegistrantRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
}

// AddRegistrantResponse is Zoom's answer to a registration
type AddRegistrantResponse struct {
	ID           int64  `json:"id"`
	RegistrantID string `json:"registrant_id"`
	JoinURL      string `json:"join_url"`
	Topic        string `json:"topic"`
	StartTime    string `json:"start_time"`
}

// AddRegistrant registers a participant for a meeting
func (c *Client) AddRegistrant(ctx context.Context, meetingID int64, request *AddRegistrantRequest) (*AddRegistrantResponse, error) {
	path := fmt.Sprintf("/meetings/%d/registrants", meetingID)
	resp, err := c.doRequest(ctx, http.MethodPost, path, nil, request)
	if err != nil {
		return nil, err
	}

	var registrant AddRegistrantResponse
	if err := decodeResponse(resp, &registrant, "registrant"); err != nil {
		return nil, err
	}
	return &registrant, nil
}
