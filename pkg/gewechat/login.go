package gewechat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// LoginAPI groups the /login endpoints.
type LoginAPI struct {
	client *Client
}

type appIDParam struct {
	AppID string `json:"appId"`
}

// CheckOnline calls /login/checkOnline and returns the boolean data field.
func (l *LoginAPI) CheckOnline(ctx context.Context, appID string) (bool, error) {
	if appID == "" {
		return false, ErrEmptyAppID
	}
	resp, err := l.client.postJSON(ctx, routeCheckOnline, appIDParam{AppID: appID})
	if err != nil {
		return false, err
	}
	// A missing or null data field is no answer, not "offline".
	if data := bytes.TrimSpace(resp.Data); len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return false, fmt.Errorf("%w: %s: no data", ErrUnexpectedData, routeCheckOnline)
	}
	var online bool
	if err := json.Unmarshal(resp.Data, &online); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrUnexpectedData, routeCheckOnline, err)
	}
	return online, nil
}

// Reconnection calls /login/reconnection. When the session is already up the
// server answers with a non-success ret whose msg says so; that comes back as
// an *APIError and is left to the caller to classify.
func (l *LoginAPI) Reconnection(ctx context.Context, appID string) (*Response, error) {
	if appID == "" {
		return nil, ErrEmptyAppID
	}
	return l.client.postJSON(ctx, routeReconnection, appIDParam{AppID: appID})
}
