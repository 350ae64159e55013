package httpclient

import "encoding/json"

// Envelope is the normalized result of one API call.
//
// Body always holds a non-nil map; a body that is not a JSON object decodes to an
// empty map. Error carries body.error.message for non-2xx responses and is empty
// when the response succeeded or the payload has no such field.
type Envelope struct {
	Status int
	Body   map[string]any
	Error  string
}

// NewEnvelope builds an Envelope from a status code and raw response body.
func NewEnvelope(status int, raw []byte) *Envelope {
	env := &Envelope{
		Status: status,
		Body:   decodeBody(raw),
	}
	if !env.Success() {
		env.Error = errorMessage(env.Body)
	}
	return env
}

// Success reports whether the status falls in 200..299.
func (e *Envelope) Success() bool {
	if e == nil {
		return false
	}
	return e.Status >= 200 && e.Status <= 299
}

func decodeBody(raw []byte) map[string]any {
	body := map[string]any{}
	if len(raw) == 0 {
		return body
	}
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		return map[string]any{}
	}
	return body
}

func errorMessage(body map[string]any) string {
	errObj, ok := body["error"].(map[string]any)
	if !ok {
		return ""
	}
	msg, _ := errObj["message"].(string)
	return msg
}
