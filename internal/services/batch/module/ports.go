package module

import dom "sentimeter/internal/services/batch/domain"

// Ports holds the ports exposed by the batch module
type Ports struct {
	Submitter dom.SubmitPort
	Jobs      dom.QueryPort
	Handler   dom.HandlerPort
}
