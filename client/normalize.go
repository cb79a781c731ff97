package client

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/myp007/mz-hupu-h5-sdk/core"
)

// rawResponse is the backend's envelope before normalization. Code arrives
// as a JSON number; msg and data are both optional.
type rawResponse struct {
	Code json.Number    `json:"code"`
	Msg  string         `json:"msg"`
	Data map[string]any `json:"data"`
}

// Normalize collapses a raw backend envelope into the single response shape
// the rest of the SDK consumes. Success is pure set membership on the
// accepted codes; business failures keep whatever data the backend sent.
func Normalize(body []byte, accepted map[int64]struct{}) (core.NormalizedResponse, error) {
	var raw rawResponse
	decoder := json.NewDecoder(strings.NewReader(string(body)))
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		return core.NormalizedResponse{}, fmt.Errorf("client: decode response envelope: %w", err)
	}

	code, err := parseCode(raw.Code)
	if err != nil {
		return core.NormalizedResponse{}, fmt.Errorf("client: unreadable business code %q: %w", raw.Code.String(), err)
	}

	_, success := accepted[code]
	message := strings.TrimSpace(raw.Msg)
	if message == "" && !success {
		message = fmt.Sprintf("request failed with code %d", code)
	}
	return core.NormalizedResponse{
		Success: success,
		Data:    raw.Data,
		Message: message,
		Code:    code,
	}, nil
}

func parseCode(number json.Number) (int64, error) {
	text := strings.TrimSpace(number.String())
	if text == "" {
		return 0, fmt.Errorf("missing code")
	}
	code, err := strconv.ParseInt(text, 10, 64)
	if err == nil {
		return code, nil
	}
	// Some endpoints are sloppy and send the code as a float.
	parsed, floatErr := strconv.ParseFloat(text, 64)
	if floatErr != nil {
		return 0, err
	}
	return int64(parsed), nil
}
