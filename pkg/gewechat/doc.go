// Package gewechat is a small HTTP client for the gewechat device API.
//
// Only the calls the reconnection supervisor needs are implemented: the
// online check and the login reconnection endpoint. Every call is a JSON POST
// to baseURL+route authenticated with the X-GEWE-TOKEN header.
//
//	c := gewechat.NewClient("http://127.0.0.1:2531/v2/api", token)
//	online, err := c.CheckOnline(ctx, appID)
package gewechat
