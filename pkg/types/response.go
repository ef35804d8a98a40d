package types

// SuccessEnvelope wraps every successful JSON payload as {"data": ...}.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// Redirect is the data of a 303 answer: where the browser flow goes next and
// what the form handler produced on the way.
type Redirect struct {
	Target string `json:"redirect"`
	Result any    `json:"result,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// NewRedirect builds the redirect payload, falling back to the storefront root.
func NewRedirect(target string, result any) Redirect {
	if target == "" {
		target = "/"
	}
	return Redirect{Target: target, Result: result}
}
