package models

type ApifyRunData struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	StatusMessage    string `json:"statusMessage"`
	ErrorMessage     string `json:"errorMessage"`
	DefaultDatasetID string `json:"defaultDatasetId"`
}

type ApifyRunEnvelope struct {
	Data ApifyRunData `json:"data"`
}

// ApifyRunStatus is the condensed run state exposed to callers driving the
// asynchronous start/check workflow.
type ApifyRunStatus struct {
	Status        string `json:"status"`
	DatasetID     string `json:"datasetId,omitempty"`
	StatusMessage string `json:"statusMessage,omitempty"`
	ErrorMessage  string `json:"errorMessage,omitempty"`
}

// Terminal reports whether the run reached a final state.
func (s ApifyRunStatus) Terminal() bool {
	switch s.Status {
	case "SUCCEEDED", "FAILED", "ABORTED", "TIMED-OUT":
		return true
	}
	return false
}

// ApifyCookie is one entry of the userCookies array Apify actors accept in
// place of a raw Cookie header.
type ApifyCookie struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Domain   string `json:"domain"`
	Path     string `json:"path"`
	HTTPOnly bool   `json:"httpOnly"`
	Secure   bool   `json:"secure"`
}
