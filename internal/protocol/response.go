package protocol

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Status is the coarse outcome tag recognized in a cleaned notification.
type Status int

const (
	StatusNone Status = iota
	StatusSuccess
	StatusFail
	StatusError
)

// DeviceStatus is the typed record extracted from a device-status
// notification: storage, geometry, and identity.
type DeviceStatus struct {
	AllSpaceKB int
	FreeSpaceKB int
	DeviceName  string
	Size        string
	Brand       int
}

// ParsedResponse is the normalized form of one inbound notification.
type ParsedResponse struct {
	Text   string
	Status Status
	JSON   map[string]interface{}

	IsStatusRecord bool
	DeviceStatus   DeviceStatus
}

// IsSuccess reports whether the response carries the success sentinel.
func (r *ParsedResponse) IsSuccess() bool { return r.Status == StatusSuccess }

// IsFail reports whether the response carries the failure sentinel.
func (r *ParsedResponse) IsFail() bool { return r.Status == StatusFail }

// IsError reports whether the response carries the device-error sentinel.
func (r *ParsedResponse) IsError() bool { return r.Status == StatusError }

// Parse normalizes raw inbound notification bytes into a ParsedResponse.
// It never returns an error: malformed or unparseable input simply
// yields a response with no status and no JSON.
func Parse(raw []byte) *ParsedResponse {
	cleaned := clean(raw)

	resp := &ParsedResponse{
		Text:   cleaned,
		Status: classify(cleaned),
	}

	if obj := parseJSONLoose(cleaned); obj != nil {
		resp.JSON = obj
		if isDeviceStatusType(obj) {
			resp.IsStatusRecord = true
			resp.DeviceStatus = extractDeviceStatus(obj)
		}
	}

	return resp
}

// clean drops every 0x00 and 0xD1 byte, then trims leading/trailing ASCII
// whitespace. The 0xD1 stripping is empirical: the device occasionally
// prefixes frames with it, for unexplained reasons.
func clean(raw []byte) string {
	out := make([]byte, 0, len(raw))
	for _, b := range raw {
		if b == 0x00 || b == 0xD1 {
			continue
		}
		out = append(out, b)
	}
	return strings.TrimSpace(string(out))
}

func classify(text string) Status {
	switch {
	case strings.Contains(text, sentinelSuccess):
		return StatusSuccess
	case strings.Contains(text, sentinelFail):
		return StatusFail
	case strings.Contains(text, sentinelError):
		return StatusError
	default:
		return StatusNone
	}
}

// parseJSONLoose attempts to parse text as a JSON object. On failure it
// retries against the substring between the first '{' and last '}'.
// Returns nil if both attempts fail.
func parseJSONLoose(text string) map[string]interface{} {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(text), &obj); err == nil {
		return obj
	}

	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < 0 || end <= start {
		return nil
	}

	if err := json.Unmarshal([]byte(text[start:end+1]), &obj); err == nil {
		return obj
	}
	return nil
}

// isDeviceStatusType reports whether obj's "type" field equals
// PacketTypeDeviceStatus, coercing leniently from either a JSON number or
// a numeric string.
func isDeviceStatusType(obj map[string]interface{}) bool {
	n, ok := coerceInt(obj["type"])
	return ok && n == int(PacketTypeDeviceStatus)
}

func extractDeviceStatus(obj map[string]interface{}) DeviceStatus {
	total, _ := coerceInt(obj["allspace"])
	free, _ := coerceInt(obj["freespace"])
	brand, _ := coerceInt(obj["brand"])

	return DeviceStatus{
		AllSpaceKB:  total,
		FreeSpaceKB: free,
		DeviceName:  coerceString(obj["devname"]),
		Size:        coerceString(obj["size"]),
		Brand:       brand,
	}
}

// coerceInt leniently extracts an int from a JSON number, a numeric
// string, or returns (0, false) for anything else.
func coerceInt(v interface{}) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case json.Number:
		n, err := t.Int64()
		return int(n), err == nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		return n, err == nil
	default:
		return 0, false
	}
}

// coerceString returns v as a string, defaulting to "" for missing or
// non-string fields.
func coerceString(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}
